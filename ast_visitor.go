package schemec

import "fmt"

// Visitor is the exhaustive dispatch surface for Node. Every node
// variant has a matching method, so adding a variant to ast.go forces
// every Visitor implementation to acknowledge it (a compile error,
// rather than a silently-ignored default case).
type Visitor interface {
	VisitNumber(*NumberNode) error
	VisitBoolean(*BooleanNode) error
	VisitCharacter(*CharacterNode) error
	VisitString(*StringNode) error
	VisitIdentifier(*IdentifierNode) error
	VisitCall(*CallNode) error
	VisitIf(*IfNode) error
	VisitLambda(*LambdaNode) error
	VisitDefine(*DefineNode) error
	VisitSet(*SetNode) error
	VisitLet(*LetNode) error
	VisitBegin(*BeginNode) error
	VisitDo(*DoNode) error
	VisitQuote(*QuoteNode) error
	VisitVectorLiteral(*VectorLiteralNode) error
}

// WalkProgram visits every top-level item of p in source order.
func WalkProgram(v Visitor, p *Program) error {
	for _, item := range p.Items {
		if err := item.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

// Inspect traverses an AST in depth-first order, calling f for every
// node. If f returns false, Inspect skips that node's children. This
// mirrors Go's ast.Inspect: a single type switch for callers that only
// care about a handful of node kinds, as an alternative to implementing
// the full Visitor interface.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *NumberNode, *BooleanNode, *CharacterNode, *StringNode, *IdentifierNode:
		// leaves

	case *CallNode:
		Inspect(n.Callee, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}

	case *IfNode:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		if n.Else != nil {
			Inspect(n.Else, f)
		}

	case *LambdaNode:
		for _, b := range n.Body {
			Inspect(b, f)
		}

	case *DefineNode:
		Inspect(n.Value, f)

	case *SetNode:
		Inspect(n.Value, f)

	case *LetNode:
		for _, b := range n.Bindings {
			Inspect(b.Init, f)
		}
		for _, b := range n.Body {
			Inspect(b, f)
		}

	case *BeginNode:
		for _, e := range n.Exprs {
			Inspect(e, f)
		}

	case *DoNode:
		for _, b := range n.Bindings {
			Inspect(b.Init, f)
			if b.Step != nil {
				Inspect(b.Step, f)
			}
		}
		if n.Test != nil {
			Inspect(n.Test, f)
		}
		for _, r := range n.Result {
			Inspect(r, f)
		}
		for _, b := range n.Body {
			Inspect(b, f)
		}

	case *QuoteNode:
		// Quoted data is not evaluated; its structure is still walkable
		// for tooling that wants to inspect literal data.
		if n.Datum != nil {
			Inspect(n.Datum, f)
		}

	case *VectorLiteralNode:
		for _, e := range n.Elements {
			Inspect(e, f)
		}

	default:
		panic(fmt.Sprintf("schemec.Inspect: unhandled node %T", n))
	}
}
