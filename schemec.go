// Package schemec implements the core of a source-to-source compiler from
// a Scheme-like surface language into portable C99 (with GCC
// statement-expressions enabled).
//
// The package covers the intermediate representation (the AST defined in
// ast.go), the code-generation pass that lowers it to C (emit_expr.go,
// special_forms.go, toplevel.go, primitives.go), and the small
// context/arena infrastructure the generator needs (context.go, arena.go,
// diagnostics.go). The lexer, parser, type-inference pass, and diagnostic
// reporter's user interface are external collaborators: this package
// consumes an already-built AST and an optional TypeContext, and never
// reads source text itself. ast_json.go offers a serialized-AST
// interchange format for callers (such as cmd/schemec) that need to read
// a Program from disk without owning a parser of their own.
package schemec
