package schemec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitBegin_EveryExprEndsWithSemicolon(t *testing.T) {
	n := &BeginNode{Exprs: []Node{
		NewIntNumber(1, NoLocation),
		NewIntNumber(2, NoLocation),
	}}
	assert.Equal(t, "({ 1; 2; })", emitString(t, n))
}

func TestEmitBegin_Empty(t *testing.T) {
	assert.Equal(t, "(0)", emitString(t, &BeginNode{}))
}

func TestEmitLet_PlainDeclaresAllBindings(t *testing.T) {
	n := &LetNode{
		Kind: LetPlain,
		Bindings: []Binding{
			{Name: "x", Init: NewIntNumber(1, NoLocation)},
			{Name: "y", Init: NewIntNumber(2, NoLocation)},
		},
		Body: []Node{&IdentifierNode{Name: "x"}},
	}
	got := emitString(t, n)
	// Inits are staged into temporaries before either real binding is
	// declared, then the real names are assigned from the temporaries.
	assert.Contains(t, got, "__schemec_tmp0 = 1; ")
	assert.Contains(t, got, "__schemec_tmp1 = 2; ")
	assert.Contains(t, got, "float x = __schemec_tmp0; ")
	assert.Contains(t, got, "float y = __schemec_tmp1; ")
	assert.Contains(t, got, "x; })")
}

// TestEmitLet_PlainSiblingInitDoesNotSeeNewBinding is the swap idiom:
// every init must be evaluated against the bindings as they stood
// before this Let, so x and y trade values rather than both collapsing
// to one.
func TestEmitLet_PlainSiblingInitDoesNotSeeNewBinding(t *testing.T) {
	n := &LetNode{
		Kind: LetPlain,
		Bindings: []Binding{
			{Name: "x", Init: &IdentifierNode{Name: "y"}},
			{Name: "y", Init: &IdentifierNode{Name: "x"}},
		},
		Body: []Node{&IdentifierNode{Name: "x"}},
	}
	got := emitString(t, n)
	// Both temporaries must be staged from the *outer* x/y before either
	// new binding is declared — neither "float x = ...;" nor
	// "float y = ...;" may appear before both temporaries are computed.
	tmp0 := strings.Index(got, "__schemec_tmp0 = y;")
	tmp1 := strings.Index(got, "__schemec_tmp1 = x;")
	declX := strings.Index(got, "float x = __schemec_tmp0;")
	declY := strings.Index(got, "float y = __schemec_tmp1;")
	require.True(t, tmp0 >= 0 && tmp1 >= 0 && declX >= 0 && declY >= 0)
	assert.Less(t, tmp0, declX)
	assert.Less(t, tmp1, declX)
	assert.Less(t, tmp0, declY)
	assert.Less(t, tmp1, declY)
}

// TestEmitLet_NestedPlainShadowSeesOuterBinding mirrors
// "(let ((x 1)) (let ((x 2) (y x)) y))": the inner let's y must bind to
// the outer x (1), since every inner init is staged before the inner
// let declares its own x.
func TestEmitLet_NestedPlainShadowSeesOuterBinding(t *testing.T) {
	inner := &LetNode{
		Kind: LetPlain,
		Bindings: []Binding{
			{Name: "x", Init: NewIntNumber(2, NoLocation)},
			{Name: "y", Init: &IdentifierNode{Name: "x"}},
		},
		Body: []Node{&IdentifierNode{Name: "y"}},
	}
	outer := &LetNode{
		Kind:     LetPlain,
		Bindings: []Binding{{Name: "x", Init: NewIntNumber(1, NoLocation)}},
		Body:     []Node{inner},
	}
	got := emitString(t, outer)

	// Temp numbering is deterministic here: tmp0 stages the outer x's
	// init, tmp1 stages the inner x's init, tmp2 stages the inner y's
	// init (a read of "x"). y's temp must be computed before the inner
	// let declares its own x, so the "x" it reads can only resolve to
	// the outer binding once both are placed as real C locals.
	yTmpAssign := strings.Index(got, "__schemec_tmp2 = x;")
	innerXDecl := strings.Index(got, "float x = __schemec_tmp1;")
	require.True(t, yTmpAssign >= 0, "expected y's init to be staged from x: %s", got)
	require.True(t, innerXDecl >= 0, "expected inner x declaration from its temp: %s", got)
	assert.Less(t, yTmpAssign, innerXDecl)
}

func TestEmitLet_LetRecDeclaresBeforeInitialising(t *testing.T) {
	n := &LetNode{
		Kind: LetRec,
		Bindings: []Binding{
			{Name: "even?", Init: &IdentifierNode{Name: "even_impl"}},
		},
		Body: []Node{&IdentifierNode{Name: "even?"}},
	}
	got := emitString(t, n)
	assert.Contains(t, got, "float even?; ")
	assert.Contains(t, got, "even? = even_impl; ")
}

func TestEmitSet_IsAssignmentExpression(t *testing.T) {
	n := &SetNode{Name: "x", Value: NewIntNumber(5, NoLocation)}
	assert.Equal(t, "(x = 5)", emitString(t, n))
}

func TestEmitDo_LowersToWhileLoop(t *testing.T) {
	n := &DoNode{
		Bindings: []DoBinding{
			{Name: "i", Init: NewIntNumber(0, NoLocation), Step: NewCall(&IdentifierNode{Name: "+"}, []Node{&IdentifierNode{Name: "i"}, NewIntNumber(1, NoLocation)}, NoLocation)},
		},
		Test:   NewCall(&IdentifierNode{Name: "<"}, []Node{&IdentifierNode{Name: "i"}, NewIntNumber(10, NoLocation)}, NoLocation),
		Result: []Node{&IdentifierNode{Name: "i"}},
	}
	got := emitString(t, n)
	assert.Contains(t, got, "float i = 0; ")
	assert.Contains(t, got, "while (!((i < 10)))")
	// The step is staged into a temporary before i is reassigned.
	assert.Contains(t, got, "__schemec_tmp0 = (i + 1); ")
	assert.Contains(t, got, "i = __schemec_tmp0; ")
}

// TestEmitDo_StepsSeeOldValuesOfAllSiblings is the Fibonacci idiom
// "(do ((a 0 b) (b 1 (+ a b))) ((= a 10) b))": b's step must read the
// old a, not the value a was just reassigned to in the same iteration.
func TestEmitDo_StepsSeeOldValuesOfAllSiblings(t *testing.T) {
	n := &DoNode{
		Bindings: []DoBinding{
			{Name: "a", Init: NewIntNumber(0, NoLocation), Step: &IdentifierNode{Name: "b"}},
			{Name: "b", Init: NewIntNumber(1, NoLocation), Step: NewCall(&IdentifierNode{Name: "+"}, []Node{&IdentifierNode{Name: "a"}, &IdentifierNode{Name: "b"}}, NoLocation)},
		},
		Test:   NewCall(&IdentifierNode{Name: "="}, []Node{&IdentifierNode{Name: "a"}, NewIntNumber(10, NoLocation)}, NoLocation),
		Result: []Node{&IdentifierNode{Name: "b"}},
	}
	got := emitString(t, n)

	// Both steps must be staged into temporaries before either a or b is
	// reassigned, so b's step reads a's pre-iteration value.
	aStepTmp := strings.Index(got, "__schemec_tmp0 = b;")
	bStepTmp := strings.Index(got, "__schemec_tmp1 = (a + b);")
	aAssign := strings.Index(got, "a = __schemec_tmp0;")
	bAssign := strings.Index(got, "b = __schemec_tmp1;")
	require.True(t, aStepTmp >= 0 && bStepTmp >= 0 && aAssign >= 0 && bAssign >= 0, "got: %s", got)
	assert.Less(t, aStepTmp, aAssign)
	assert.Less(t, bStepTmp, aAssign, "b's step must be evaluated before a is reassigned")
	assert.Less(t, bStepTmp, bAssign)
}

func TestEmitDefineExpr_RequiresInFunction(t *testing.T) {
	ctx := newTestContext(t)
	n := &DefineNode{Name: "x", Value: NewIntNumber(1, NoLocation)}

	err := newExprEmitter(ctx).Emit(n)
	require.Error(t, err)
	assert.True(t, ctx.Diagnostics().HasErrors())
}

func TestEmitDefineExpr_EmitsLocalDeclarationInFunction(t *testing.T) {
	ctx := newTestContext(t)
	ctx.SetInFunction(true)
	n := &DefineNode{Name: "x", Value: NewIntNumber(1, NoLocation)}

	require.NoError(t, newExprEmitter(ctx).Emit(n))
	assert.Equal(t, "({ float x = 1; x; })", ctx.Output())
}

func TestHoistRegistry_AssignsStableNamesByIdentity(t *testing.T) {
	h := newHoistRegistry("prog")
	lam1 := &LambdaNode{}
	lam2 := &LambdaNode{}

	name1 := h.nameFor(lam1)
	name2 := h.nameFor(lam2)
	assert.NotEqual(t, name1, name2)
	assert.Equal(t, name1, h.nameFor(lam1), "re-requesting the same lambda must return the same name")
	assert.Len(t, h.pending(), 2)
}

func TestEmitLambdaRef_EmitsHoistedIdentifier(t *testing.T) {
	ctx := newTestContext(t)
	lam := &LambdaNode{Params: []Symbol{"n"}, Body: []Node{&IdentifierNode{Name: "n"}}}

	require.NoError(t, newExprEmitter(ctx).Emit(lam))
	assert.Equal(t, ctx.hoist.nameFor(lam), ctx.Output())
}
