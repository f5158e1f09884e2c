package schemec

import "fmt"

// defaultBlockSize is the size of each block the arena grows by once the
// current block is exhausted.
const defaultBlockSize = 64 * 1024

// ArenaExhausted is returned by Alloc when granting a request would push
// the total bytes allocated past the arena's configured maximum size.
type ArenaExhausted struct {
	Requested int
	Max       int
}

func (e *ArenaExhausted) Error() string {
	return fmt.Sprintf("arena exhausted: requested %d bytes, max %d", e.Requested, e.Max)
}

// Arena is a process-local bump region. It owns raw byte storage for
// every AST node, argument array, and transient string the compiler
// allocates during a single compile; there is no per-allocation free,
// only bulk release on Destroy.
//
// Arena is not safe for concurrent use; per spec.md §5 a compile is
// single-threaded and the arena is touched exclusively by the current
// compile.
type Arena struct {
	blockSize int
	maxSize   int
	blocks    [][]byte
	cur       []byte
	used      int
	destroyed bool
}

// NewArena creates an arena that grows in blockSize-sized chunks, never
// allocating more than maxSize bytes in total. A maxSize of 0 means
// unbounded.
func NewArena(blockSize, maxSize int) *Arena {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	return &Arena{blockSize: blockSize, maxSize: maxSize}
}

// Alloc returns a zeroed byte slice of the requested size backed by the
// arena. The returned slice remains valid until Destroy is called.
// Allocation failure (the arena's maxSize would be exceeded) is reported
// as an error, which the caller surfaces as a fatal diagnostic.
func (a *Arena) Alloc(size int) ([]byte, error) {
	if a.destroyed {
		return nil, fmt.Errorf("schemec: alloc after arena destroyed")
	}
	if size <= 0 {
		return nil, nil
	}
	if a.maxSize > 0 && a.used+size > a.maxSize {
		return nil, &ArenaExhausted{Requested: size, Max: a.maxSize}
	}
	if a.cur == nil || len(a.cur) < size {
		blockSize := a.blockSize
		if size > blockSize {
			blockSize = size
		}
		a.cur = make([]byte, blockSize)
		a.blocks = append(a.blocks, a.cur)
	}
	buf := a.cur[:size:size]
	a.cur = a.cur[size:]
	a.used += size
	return buf, nil
}

// AllocString reserves len(s) bytes of arena storage, copies s into them,
// and returns those bytes converted to a string. The conversion copies
// them once more, so the returned string itself is an ordinary
// garbage-collected Go string, not a view of arena storage.
func (a *Arena) AllocString(s string) (string, error) {
	buf, err := a.Alloc(len(s))
	if err != nil {
		return "", err
	}
	copy(buf, s)
	return string(buf), nil
}

// Used reports the number of bytes handed out so far, across all blocks.
func (a *Arena) Used() int { return a.used }

// Destroy releases every block the arena owns. Pointers handed out by
// Alloc must not be used afterward.
func (a *Arena) Destroy() {
	a.blocks = nil
	a.cur = nil
	a.destroyed = true
}
