package schemec

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrMissingArena is returned by NewCodegenContext when arena is nil.
var ErrMissingArena = errors.New("schemec: codegen context requires a non-nil arena")

// ErrMissingDiagnostics is returned by NewCodegenContext when
// diagnostics is nil.
var ErrMissingDiagnostics = errors.New("schemec: codegen context requires a non-nil diagnostics sink")

// CodegenContext is the sole mutable state carried through emission: an
// arena and diagnostics handle, an optional type-inference handle, the
// output sink, the current indent level, and the in_function flag that
// gates statement-vs-expression contexts. It mirrors
// original_source/refactor/src/backend/codegen/context.c one to one.
type CodegenContext struct {
	arena       *Arena
	diagnostics *DiagnosticSink
	typeContext TypeContext

	out        *writer
	inFunction bool

	// tempDir is used only by the compile-and-run mode (runner.go) to
	// stage the generated C file and its compiled binary.
	tempDir string

	options CodegenOptions

	// hoist tracks the generated C identifier assigned to each Lambda
	// node by the top-level emitter's hoisting pass, so the expression
	// emitter can reference a lambda by name wherever it appears in
	// expression position (spec.md §4.4's Lambda lowering).
	hoist *hoistRegistry

	// tempCounter hands out unique local-variable names across the whole
	// compile, used by plain Let and Do to stage initialiser/step values
	// in temporaries before any new binding is visible (spec.md §4.4).
	tempCounter int
}

// NewCodegenContext constructs a context around an in-memory buffer.
// arena and diagnostics are mandatory; typeContext may be nil, in which
// case every type lookup falls back to DefaultType.
func NewCodegenContext(arena *Arena, diagnostics *DiagnosticSink, typeContext TypeContext, opts CodegenOptions) (*CodegenContext, error) {
	if arena == nil {
		return nil, ErrMissingArena
	}
	if diagnostics == nil {
		return nil, ErrMissingDiagnostics
	}
	if typeContext == nil {
		typeContext = noTypeContext{}
	}
	return &CodegenContext{
		arena:       arena,
		diagnostics: diagnostics,
		typeContext: typeContext,
		out:         newWriter(),
		options:     opts,
		hoist:       newHoistRegistry(opts.ModuleName),
	}, nil
}

// Init resets the context's in-memory output buffer. When outputPath is
// non-empty, it also checks that the path can be opened for writing by
// creating (truncating) the file and closing it again; failure to open
// it is reported as an OutputOpenFailed diagnostic and also returned as
// an error so the caller can abort the compile.
//
// Init does not bind the sink to that file or to standard output:
// emission always goes to the in-memory buffer (Output() reads it back),
// and nothing reaches a file unless the caller passes one to Flush once
// emission succeeds, so no partial output is retained after a failure.
func (c *CodegenContext) Init(outputPath string) error {
	c.out = newWriter()
	if outputPath == "" {
		return nil
	}
	// Verify the path is writable up front, matching the teacher's
	// fail-fast fopen() check, without holding the file handle open for
	// the whole compile (we buffer, then Flush).
	f, err := os.Create(outputPath)
	if err != nil {
		c.diagnostics.Errorf(ErrOutputOpenFailed, NoLocation, "can't open output file %q: %v", outputPath, err)
		return err
	}
	return f.Close()
}

// Arena returns the context's arena handle.
func (c *CodegenContext) Arena() *Arena { return c.arena }

// Diagnostics returns the context's diagnostics handle.
func (c *CodegenContext) Diagnostics() *DiagnosticSink { return c.diagnostics }

// TypeContext returns the context's type-inference handle (never nil;
// a no-op stub if none was supplied).
func (c *CodegenContext) TypeContext() TypeContext { return c.typeContext }

// Options returns the CodegenOptions the context was built with.
func (c *CodegenContext) Options() CodegenOptions { return c.options }

// IndentLevel returns the current, non-negative indent depth.
func (c *CodegenContext) IndentLevel() int { return c.out.indentLevel }

// Increment bumps the indent depth by one.
func (c *CodegenContext) Increment() { c.out.indent() }

// Decrement drops the indent depth by one, saturating at zero.
func (c *CodegenContext) Decrement() { c.out.unindent() }

// WriteIndent emits four spaces per indent level to the output sink.
func (c *CodegenContext) WriteIndent() { c.out.writeIndent() }

// Write appends s to the output sink verbatim.
func (c *CodegenContext) Write(s string) { c.out.write(s) }

// WriteLine appends the current indent, then s, then a newline.
func (c *CodegenContext) WriteLine(s string) { c.out.writeil(s) }

// InFunction reports whether emission is currently inside a function
// body (as opposed to top level).
func (c *CodegenContext) InFunction() bool { return c.inFunction }

// SetInFunction toggles the in_function flag; the Lambda and Define
// emitters flip it around their body emission.
func (c *CodegenContext) SetInFunction(v bool) { c.inFunction = v }

// NextTempName returns a fresh, compile-unique C identifier for staging
// an intermediate value (a Let binding's initialiser, a Do step's new
// value) before it's visible under its real name.
func (c *CodegenContext) NextTempName() string {
	name := fmt.Sprintf("__schemec_tmp%d", c.tempCounter)
	c.tempCounter++
	return name
}

// TempDir returns the temporary-directory path used by compile-and-run
// mode, if any.
func (c *CodegenContext) TempDir() string { return c.tempDir }

// SetTempDir records the temporary-directory path compile-and-run mode
// should stage its artifacts in.
func (c *CodegenContext) SetTempDir(dir string) { c.tempDir = dir }

// Output returns everything written to the sink so far.
func (c *CodegenContext) Output() string { return c.out.String() }

// Flush writes the accumulated output to w. Callers only call this once
// emission has fully succeeded; on failure the accumulated buffer is
// simply discarded by the caller (see Compile).
func (c *CodegenContext) Flush(w io.Writer) error {
	_, err := io.WriteString(w, c.Output())
	return err
}
