package schemec

import (
	"fmt"
	"strings"
	"text/template"
)

// prologueTemplate renders the fixed #include block and the shared arena
// declaration every generated file opens with (spec.md §4.7, §6). Kept
// as a text/template rather than string concatenation so the few
// conditional pieces (the runtime prelude toggle) read declaratively,
// the way the orglang code generator in the retrieval pack renders its
// emitter boilerplate.
var prologueTemplate = template.Must(template.New("prologue").Parse(
	`{{if .EmbedRuntimePrelude -}}
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <stdbool.h>
#include "runtime/arena.h"
#include "runtime/vector.h"
#include "runtime/autodiff.h"

{{end -}}
static Arena* arena;

`))

// toplevelEmitter writes an entire Program as a freestanding C
// translation unit: the prologue, every hoisted anonymous lambda as a
// static function, every named top-level function, every non-function
// top-level binding as a global, and a main() that runs the remaining
// top-level expressions in source order (spec.md §4.7).
type toplevelEmitter struct {
	ctx *CodegenContext

	// namedLambdas maps a Lambda bound directly by a top-level Define to
	// the name it was defined under, so it's emitted as
	// "<name>(...)" rather than through the hoist registry.
	namedLambdas map[*LambdaNode]Symbol
}

func newToplevelEmitter(ctx *CodegenContext) *toplevelEmitter {
	return &toplevelEmitter{ctx: ctx, namedLambdas: make(map[*LambdaNode]Symbol)}
}

// EmitProgram is the top-level entry point tying together the prologue,
// the hoisting pre-pass, every top-level form, and main().
func (t *toplevelEmitter) EmitProgram(p *Program) error {
	if err := t.emitPrologue(); err != nil {
		return err
	}

	for _, item := range p.Items {
		if def, ok := item.(*DefineNode); ok {
			if lam, ok := def.Value.(*LambdaNode); ok {
				t.namedLambdas[lam] = def.Name
			}
		}
	}
	t.registerNestedLambdas(p)

	for _, lam := range t.ctx.hoist.pending() {
		if err := t.emitFunction(t.ctx.hoist.nameFor(lam), lam); err != nil {
			return err
		}
		t.ctx.Write("\n")
	}

	var entryExprs []Node
	for _, item := range p.Items {
		switch n := item.(type) {
		case *DefineNode:
			if lam, ok := n.Value.(*LambdaNode); ok {
				if err := t.emitFunction(string(n.Name), lam); err != nil {
					return err
				}
				t.ctx.Write("\n")
				continue
			}
			if err := t.emitGlobalDefine(n); err != nil {
				return err
			}
		default:
			entryExprs = append(entryExprs, item)
		}
	}

	return t.emitMain(entryExprs)
}

// registerNestedLambdas walks every top-level item and assigns a
// hoisted name to each Lambda that isn't itself the direct Value of a
// top-level Define (a closure created inside an expression, bound
// locally, or passed as an argument).
func (t *toplevelEmitter) registerNestedLambdas(p *Program) {
	var visit func(n Node)
	visit = func(n Node) {
		Inspect(n, func(node Node) bool {
			lam, ok := node.(*LambdaNode)
			if !ok {
				return true
			}
			if _, named := t.namedLambdas[lam]; !named {
				t.ctx.hoist.nameFor(lam)
			}
			return true
		})
	}
	for _, item := range p.Items {
		if def, ok := item.(*DefineNode); ok {
			if lam, ok := def.Value.(*LambdaNode); ok {
				for _, b := range lam.Body {
					visit(b)
				}
				continue
			}
		}
		visit(item)
	}
}

func (t *toplevelEmitter) emitPrologue() error {
	return prologueTemplate.Execute(prologueWriter{t.ctx}, t.ctx.Options())
}

// prologueWriter adapts CodegenContext to io.Writer so text/template can
// render straight into the shared output sink.
type prologueWriter struct{ ctx *CodegenContext }

func (p prologueWriter) Write(b []byte) (int, error) {
	p.ctx.Write(string(b))
	return len(b), nil
}

// emitFunction emits lam as a static C function under the given C
// identifier: every body expression but the last as a statement, the
// last wrapped in a return.
func (t *toplevelEmitter) emitFunction(name string, lam *LambdaNode) error {
	retType := typeOf(t.ctx.TypeContext(), lam)
	params := make([]string, len(lam.Params))
	for i, p := range lam.Params {
		params[i] = fmt.Sprintf("%s %s", DefaultType, p)
	}
	t.ctx.Write(fmt.Sprintf("static %s %s(%s) {\n", retType, name, strings.Join(params, ", ")))
	t.ctx.Increment()

	prevInFunction := t.ctx.InFunction()
	t.ctx.SetInFunction(true)
	defer t.ctx.SetInFunction(prevInFunction)

	e := newExprEmitter(t.ctx)
	for i, b := range lam.Body {
		t.ctx.WriteIndent()
		if i == len(lam.Body)-1 {
			t.ctx.Write("return ")
			if err := e.Emit(b); err != nil {
				return err
			}
			t.ctx.Write(";\n")
			continue
		}
		if err := e.Emit(b); err != nil {
			return err
		}
		t.ctx.Write(";\n")
	}
	t.ctx.Decrement()
	t.ctx.Write("}\n")
	return nil
}

// emitGlobalDefine emits a non-lambda top-level Define as a global C
// variable, initialised in place.
func (t *toplevelEmitter) emitGlobalDefine(n *DefineNode) error {
	t.ctx.Write(fmt.Sprintf("%s %s = ", typeOf(t.ctx.TypeContext(), n), n.Name))
	if err := newExprEmitter(t.ctx).Emit(n.Value); err != nil {
		return err
	}
	t.ctx.Write(";\n")
	return nil
}

// emitMain writes the program's entry point: allocate the arena, run
// every remaining top-level expression in source order (discarding
// their value, as a top-level expression's only purpose is its side
// effect), then return 0 (spec.md §4.7).
func (t *toplevelEmitter) emitMain(exprs []Node) error {
	t.ctx.Write("\nint main(void) {\n")
	t.ctx.Increment()
	t.ctx.WriteLine(fmt.Sprintf("arena = arena_create(%d);", defaultBlockSize))

	prevInFunction := t.ctx.InFunction()
	t.ctx.SetInFunction(true)
	defer t.ctx.SetInFunction(prevInFunction)

	e := newExprEmitter(t.ctx)
	for _, expr := range exprs {
		t.ctx.WriteIndent()
		if err := e.Emit(expr); err != nil {
			return err
		}
		t.ctx.Write(";\n")
	}

	t.ctx.WriteLine("arena_destroy(arena);")
	t.ctx.WriteLine("return 0;")
	t.ctx.Decrement()
	t.ctx.Write("}\n")
	return nil
}
