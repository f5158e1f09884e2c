package schemec

import "fmt"

// SourceLocation is the (line, column) pair attached to every AST node.
// It is purely informational: the generator never branches on it, only
// threads it through to diagnostics.
type SourceLocation struct {
	Line   int
	Column int
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// NoLocation marks a diagnostic or node that doesn't trace back to a
// source span (e.g. the output-file error Init reports).
var NoLocation = SourceLocation{}
