package schemec

import "fmt"

// hoistRegistry assigns a stable, generated C identifier to every
// Lambda node an outer pass discovers, so the expression position of a
// Lambda can emit that identifier while the lambda's body is emitted
// once, at file scope, by the top-level emitter (spec.md §4.4).
type hoistRegistry struct {
	prefix  string
	counter int
	names   map[*LambdaNode]string
	order   []*LambdaNode
}

func newHoistRegistry(modulePrefix string) *hoistRegistry {
	if modulePrefix == "" {
		modulePrefix = "program"
	}
	return &hoistRegistry{prefix: modulePrefix, names: make(map[*LambdaNode]string)}
}

// nameFor returns l's generated identifier, assigning one the first
// time l is seen.
func (h *hoistRegistry) nameFor(l *LambdaNode) string {
	if name, ok := h.names[l]; ok {
		return name
	}
	name := fmt.Sprintf("%s_lambda_%d", h.prefix, h.counter)
	h.counter++
	h.names[l] = name
	h.order = append(h.order, l)
	return name
}

// pending returns every Lambda node discovered so far, in discovery
// order, that the top-level emitter still needs to emit a definition
// for.
func (h *hoistRegistry) pending() []*LambdaNode {
	return h.order
}

// emitLambdaRef emits a reference to a Lambda appearing in expression
// position: just its hoisted identifier. The function definition itself
// is written at file scope by the top-level emitter.
func (e *exprEmitter) emitLambdaRef(n *LambdaNode) error {
	e.ctx.Write(e.ctx.hoist.nameFor(n))
	return nil
}

// emitBegin lowers a Begin to a GCC statement-expression: every
// expression, the last included, is written as an expression statement
// ending in a semicolon; the last one's value becomes the block's value.
// An empty Begin is emitted as "(0)".
func (e *exprEmitter) emitBegin(n *BeginNode) error {
	if len(n.Exprs) == 0 {
		e.ctx.Write("(0)")
		return nil
	}
	e.ctx.Write("({ ")
	for i, expr := range n.Exprs {
		if err := e.Emit(expr); err != nil {
			return err
		}
		if i < len(n.Exprs)-1 {
			e.ctx.Write("; ")
		}
	}
	e.ctx.Write("; })")
	return nil
}

// emitLet lowers Let/LetStar/LetRec to a nested statement-expression
// block that declares and initialises one local per binding, then
// emits the body as a Begin.
//
//   - Let evaluates every initialiser in the surrounding scope: each
//     init expression is emitted before any local is declared, so none
//     of them can see the new bindings.
//   - LetStar lets each initialiser see the bindings declared before it:
//     declare-then-initialise, one binding at a time.
//   - LetRec declares every name (defaulting to the uniform value type)
//     before any initialiser runs, so mutually recursive lambdas can
//     reference each other.
func (e *exprEmitter) emitLet(n *LetNode) error {
	e.ctx.Write("({ ")

	switch n.Kind {
	case LetRec:
		for _, b := range n.Bindings {
			e.ctx.Write(fmt.Sprintf("%s %s; ", typeOf(e.ctx.TypeContext(), n), b.Name))
		}
		for _, b := range n.Bindings {
			e.ctx.Write(fmt.Sprintf("%s = ", b.Name))
			if err := e.Emit(b.Init); err != nil {
				return err
			}
			e.ctx.Write("; ")
		}

	case LetStar:
		for _, b := range n.Bindings {
			e.ctx.Write(fmt.Sprintf("%s %s = ", typeOf(e.ctx.TypeContext(), n), b.Name))
			if err := e.Emit(b.Init); err != nil {
				return err
			}
			e.ctx.Write("; ")
		}

	default: // LetPlain
		// Plain Let evaluates every initialiser in the surrounding scope,
		// none of them seeing any of the new bindings — not even a
		// sibling's, per spec.md §4.4 (this is precisely what makes the
		// classic swap idiom "(let ((x y) (y x)) ...)" work). Stage each
		// init in a fresh temporary first, then declare the real names
		// from the temporaries, so no init can observe a binding this
		// Let introduces.
		tmpNames := make([]string, len(n.Bindings))
		for i, b := range n.Bindings {
			tmpNames[i] = e.ctx.NextTempName()
			e.ctx.Write(fmt.Sprintf("%s %s = ", typeOf(e.ctx.TypeContext(), n), tmpNames[i]))
			if err := e.Emit(b.Init); err != nil {
				return err
			}
			e.ctx.Write("; ")
		}
		for i, b := range n.Bindings {
			e.ctx.Write(fmt.Sprintf("%s %s = %s; ", typeOf(e.ctx.TypeContext(), n), b.Name, tmpNames[i]))
		}
	}

	if err := e.emitBodySequence(n.Body); err != nil {
		return err
	}
	e.ctx.Write("; })")
	return nil
}

// emitBodySequence writes body's expressions with trailing semicolons,
// except the last, matching Begin's "value of the last" semantics,
// without the surrounding "({ ... })" (the caller already opened one).
func (e *exprEmitter) emitBodySequence(body []Node) error {
	for i, expr := range body {
		if err := e.Emit(expr); err != nil {
			return err
		}
		if i < len(body)-1 {
			e.ctx.Write("; ")
		}
	}
	return nil
}

// emitDo lowers the iterative form to a C for-style loop inside a
// statement-expression: variables are declared and initialised, the
// test gates loop exit, the body runs once per iteration, steps
// reassign the loop variables, and on exit the result expressions yield
// the block's value.
func (e *exprEmitter) emitDo(n *DoNode) error {
	e.ctx.Write("({ ")
	for _, b := range n.Bindings {
		e.ctx.Write(fmt.Sprintf("%s %s = ", typeOf(e.ctx.TypeContext(), n), b.Name))
		if err := e.Emit(b.Init); err != nil {
			return err
		}
		e.ctx.Write("; ")
	}

	e.ctx.Write("while (!(")
	if n.Test != nil {
		if err := e.Emit(n.Test); err != nil {
			return err
		}
	} else {
		e.ctx.Write("false")
	}
	e.ctx.Write(")) { ")

	for _, b := range n.Body {
		if err := e.Emit(b); err != nil {
			return err
		}
		e.ctx.Write("; ")
	}
	// R7RS requires every step to be evaluated against the loop
	// variables' old values and then all of them rebound simultaneously
	// — e.g. "(do ((a 0 b) (b 1 (+ a b))) ...)" needs b's step to see
	// the old a, not whatever a was just reassigned to. Stage each step
	// in a temporary before assigning any loop variable.
	tmpNames := make([]string, len(n.Bindings))
	for i, b := range n.Bindings {
		if b.Step == nil {
			continue
		}
		tmpNames[i] = e.ctx.NextTempName()
		e.ctx.Write(fmt.Sprintf("%s %s = ", typeOf(e.ctx.TypeContext(), n), tmpNames[i]))
		if err := e.Emit(b.Step); err != nil {
			return err
		}
		e.ctx.Write("; ")
	}
	for i, b := range n.Bindings {
		if b.Step == nil {
			continue
		}
		e.ctx.Write(fmt.Sprintf("%s = %s; ", b.Name, tmpNames[i]))
	}
	e.ctx.Write("} ")

	if len(n.Result) == 0 {
		e.ctx.Write("0; })")
		return nil
	}
	if err := e.emitBodySequence(n.Result); err != nil {
		return err
	}
	e.ctx.Write("; })")
	return nil
}

// emitDefineExpr handles a Define appearing inside a function body (a
// local declaration); top-level Defines are instead handled by the
// top-level emitter directly, since they become C globals or function
// definitions rather than expressions.
func (e *exprEmitter) emitDefineExpr(n *DefineNode) error {
	if !e.ctx.InFunction() {
		e.ctx.Diagnostics().Errorf(ErrMalformedNode, n.Loc,
			"top-level define reached the expression emitter; it should have been handled by the top-level emitter")
		return fmt.Errorf("schemec: top-level define in expression position")
	}
	e.ctx.Write(fmt.Sprintf("({ %s %s = ", typeOf(e.ctx.TypeContext(), n), n.Name))
	if err := e.Emit(n.Value); err != nil {
		return err
	}
	e.ctx.Write(fmt.Sprintf("; %s; })", n.Name))
	return nil
}

// emitSet lowers a mutation to a plain C assignment expression.
func (e *exprEmitter) emitSet(n *SetNode) error {
	e.ctx.Write(fmt.Sprintf("(%s = ", n.Name))
	if err := e.Emit(n.Value); err != nil {
		return err
	}
	e.ctx.Write(")")
	return nil
}
