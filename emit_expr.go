package schemec

import (
	"fmt"
	"strconv"
	"strings"
)

// exprEmitter emits AST nodes as C *expressions*: its Emit never writes
// a bare statement, and the output is fully parenthesised wherever it
// contains an operator, to preserve source evaluation order irrespective
// of C's own operator precedence (spec.md §4.3, §8 invariant 1).
type exprEmitter struct {
	ctx *CodegenContext
}

func newExprEmitter(ctx *CodegenContext) *exprEmitter {
	return &exprEmitter{ctx: ctx}
}

// Emit dispatches on node's concrete type and writes the corresponding
// C expression to the context's output sink. Any recursive emission
// that fails short-circuits here: the parent writes no further output
// and the failure propagates to its own caller (spec.md §4.3).
func (e *exprEmitter) Emit(node Node) error {
	switch n := node.(type) {
	case *NumberNode:
		return e.emitNumber(n)
	case *BooleanNode:
		return e.emitBoolean(n)
	case *CharacterNode:
		return e.emitCharacter(n)
	case *StringNode:
		return e.emitString(n)
	case *IdentifierNode:
		return e.emitIdentifier(n)
	case *CallNode:
		return e.emitCall(n)
	case *IfNode:
		return e.emitIf(n)
	case *VectorLiteralNode:
		return e.emitVectorLiteral(n)
	case *QuoteNode:
		return e.emitQuote(n)
	case *LambdaNode:
		return e.emitLambdaRef(n)
	case *LetNode:
		return e.emitLet(n)
	case *BeginNode:
		return e.emitBegin(n)
	case *DoNode:
		return e.emitDo(n)
	case *DefineNode:
		return e.emitDefineExpr(n)
	case *SetNode:
		return e.emitSet(n)
	default:
		e.ctx.Diagnostics().Errorf(ErrUnsupportedNodeVariant, node.Range(),
			"codegen: unsupported node variant %T in expression position", node)
		return fmt.Errorf("schemec: unsupported node variant %T", node)
	}
}

func (e *exprEmitter) emitNumber(n *NumberNode) error {
	if n.IsFloat {
		e.ctx.Write(strconv.FormatFloat(n.Float, 'g', -1, 64))
		return nil
	}
	e.ctx.Write(strconv.FormatInt(n.Int, 10))
	return nil
}

func (e *exprEmitter) emitBoolean(n *BooleanNode) error {
	if n.Value {
		e.ctx.Write("true")
	} else {
		e.ctx.Write("false")
	}
	return nil
}

func (e *exprEmitter) emitCharacter(n *CharacterNode) error {
	e.ctx.Write("'" + escapeCChar(n.Value) + "'")
	return nil
}

func (e *exprEmitter) emitString(n *StringNode) error {
	e.ctx.Write("\"" + escapeCString(string(n.Value)) + "\"")
	return nil
}

func (e *exprEmitter) emitIdentifier(n *IdentifierNode) error {
	// Identifiers are emitted verbatim; no mangling (spec.md §4.3).
	e.ctx.Write(string(n.Name))
	return nil
}

// emitIf lowers to a C conditional expression. A missing else branch
// must not evaluate anything: it's replaced with a unit value (0, or
// NULL when the inferred type is a pointer), never the alternate.
func (e *exprEmitter) emitIf(n *IfNode) error {
	e.ctx.Write("(")
	if err := e.Emit(n.Cond); err != nil {
		return err
	}
	e.ctx.Write(" ? ")
	if err := e.Emit(n.Then); err != nil {
		return err
	}
	e.ctx.Write(" : ")
	if n.Else != nil {
		if err := e.Emit(n.Else); err != nil {
			return err
		}
	} else {
		e.ctx.Write(unitValueFor(typeOf(e.ctx.TypeContext(), n)))
	}
	e.ctx.Write(")")
	return nil
}

// unitValueFor returns the "no value" literal consistent with t, per
// spec.md §4.3 ("0 or NULL consistent with the inferred type; if
// unknown, 0").
func unitValueFor(t CType) string {
	if strings.HasSuffix(string(t), "*") {
		return "NULL"
	}
	return "0"
}

func (e *exprEmitter) emitVectorLiteral(n *VectorLiteralNode) error {
	e.ctx.Write("vector_f_create_from_array(arena, (float[]){")
	for i, el := range n.Elements {
		if i > 0 {
			e.ctx.Write(", ")
		}
		if err := e.Emit(el); err != nil {
			return err
		}
	}
	e.ctx.Write(fmt.Sprintf("}, %d)", len(n.Elements)))
	return nil
}

// emitQuote emits a literal encoding of the quoted datum. The datum is
// always one of the literal node kinds (Number/Boolean/Character/
// String/VectorLiteral); quoting never triggers evaluation, so it's
// emitted the same way those kinds already are in expression position.
func (e *exprEmitter) emitQuote(n *QuoteNode) error {
	if n.Datum == nil {
		e.ctx.Write("0")
		return nil
	}
	return e.Emit(n.Datum)
}

// emitCall emits either a recognised primitive or a generic function
// call (spec.md §4.5, §4.6).
func (e *exprEmitter) emitCall(n *CallNode) error {
	if n.ArgCount != len(n.Args) {
		e.ctx.Diagnostics().Errorf(ErrMalformedNode, n.Loc,
			"call arg_count %d does not match %d supplied arguments", n.ArgCount, len(n.Args))
		return fmt.Errorf("schemec: malformed call node at %s", n.Loc)
	}

	if ident, ok := n.Callee.(*IdentifierNode); ok {
		if ov, ok := lookupPrimitive(ident.Name, n.ArgCount); ok {
			return ov.emit(e, n)
		}
		if isPrimitiveName(ident.Name) {
			e.ctx.Diagnostics().Warnf(ErrPrimitiveArityMismatch, n.Loc,
				"%q applied with %d arguments matches no known arity; falling back to a generic call", ident.Name, n.ArgCount)
		}
	}
	return e.emitGenericCall(n)
}

// emitGenericCall emits callee(arg0, arg1, ...), left to right. C leaves
// function-argument evaluation order unspecified; if the source
// language mandates left-to-right and an argument has side effects, the
// front end must wrap it in a Begin to force a sequence point (spec.md
// §4.6, §5).
func (e *exprEmitter) emitGenericCall(n *CallNode) error {
	if err := e.Emit(n.Callee); err != nil {
		return err
	}
	e.ctx.Write("(")
	for i, a := range n.Args {
		if i > 0 {
			e.ctx.Write(", ")
		}
		if err := e.Emit(a); err != nil {
			return err
		}
	}
	e.ctx.Write(")")
	return nil
}

func escapeCString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeCChar(r rune) string {
	switch r {
	case '\'':
		return "\\'"
	case '\\':
		return "\\\\"
	case '\n':
		return "\\n"
	case '\r':
		return "\\r"
	case '\t':
		return "\\t"
	default:
		return string(r)
	}
}
