package schemec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNode_RangeReturnsSourceLocation(t *testing.T) {
	loc := SourceLocation{Line: 3, Column: 7}
	tests := []struct {
		name string
		node Node
	}{
		{"number", NewIntNumber(1, loc)},
		{"boolean", &BooleanNode{Loc: loc}},
		{"character", &CharacterNode{Loc: loc}},
		{"string", &StringNode{Loc: loc}},
		{"identifier", &IdentifierNode{Loc: loc}},
		{"call", NewCall(&IdentifierNode{Loc: loc}, nil, loc)},
		{"if", &IfNode{Loc: loc}},
		{"lambda", &LambdaNode{Loc: loc}},
		{"define", &DefineNode{Loc: loc}},
		{"set", &SetNode{Loc: loc}},
		{"let", &LetNode{Loc: loc}},
		{"begin", &BeginNode{Loc: loc}},
		{"do", &DoNode{Loc: loc}},
		{"quote", &QuoteNode{Loc: loc}},
		{"vector-literal", &VectorLiteralNode{Loc: loc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, loc, tt.node.Range())
			assert.NotEmpty(t, tt.node.String())
		})
	}
}

func TestNewIntNumber_IsNotFloat(t *testing.T) {
	n := NewIntNumber(42, NoLocation)
	assert.False(t, n.IsFloat)
	assert.Equal(t, int64(42), n.Int)
}

func TestNewFloatNumber_IsFloat(t *testing.T) {
	n := NewFloatNumber(3.14, NoLocation)
	assert.True(t, n.IsFloat)
	assert.Equal(t, 3.14, n.Float)
}

func TestLetKind_String(t *testing.T) {
	assert.Equal(t, "let", LetPlain.String())
	assert.Equal(t, "let*", LetStar.String())
	assert.Equal(t, "letrec", LetRec.String())
}

func TestWalkProgram_VisitsItemsInOrder(t *testing.T) {
	var visited []string
	p := &Program{Items: []Node{
		&IdentifierNode{Name: "a"},
		&IdentifierNode{Name: "b"},
	}}

	v := &recordingVisitor{onIdentifier: func(n *IdentifierNode) { visited = append(visited, string(n.Name)) }}
	err := WalkProgram(v, p)

	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, visited)
}

func TestInspect_VisitsNestedNodes(t *testing.T) {
	call := NewCall(&IdentifierNode{Name: "+"}, []Node{
		&IdentifierNode{Name: "x"},
		&IdentifierNode{Name: "y"},
	}, NoLocation)

	var names []string
	Inspect(call, func(n Node) bool {
		if id, ok := n.(*IdentifierNode); ok {
			names = append(names, string(id.Name))
		}
		return true
	})

	assert.Equal(t, []string{"+", "x", "y"}, names)
}

// recordingVisitor implements Visitor with every method a no-op except
// the one under test, so tests only describe the hook they care about.
type recordingVisitor struct {
	onIdentifier func(*IdentifierNode)
}

func (r *recordingVisitor) VisitNumber(*NumberNode) error       { return nil }
func (r *recordingVisitor) VisitBoolean(*BooleanNode) error     { return nil }
func (r *recordingVisitor) VisitCharacter(*CharacterNode) error { return nil }
func (r *recordingVisitor) VisitString(*StringNode) error       { return nil }
func (r *recordingVisitor) VisitIdentifier(n *IdentifierNode) error {
	if r.onIdentifier != nil {
		r.onIdentifier(n)
	}
	return nil
}
func (r *recordingVisitor) VisitCall(*CallNode) error                     { return nil }
func (r *recordingVisitor) VisitIf(*IfNode) error                         { return nil }
func (r *recordingVisitor) VisitLambda(*LambdaNode) error                 { return nil }
func (r *recordingVisitor) VisitDefine(*DefineNode) error                 { return nil }
func (r *recordingVisitor) VisitSet(*SetNode) error                       { return nil }
func (r *recordingVisitor) VisitLet(*LetNode) error                       { return nil }
func (r *recordingVisitor) VisitBegin(*BeginNode) error                   { return nil }
func (r *recordingVisitor) VisitDo(*DoNode) error                         { return nil }
func (r *recordingVisitor) VisitQuote(*QuoteNode) error                   { return nil }
func (r *recordingVisitor) VisitVectorLiteral(*VectorLiteralNode) error   { return nil }
