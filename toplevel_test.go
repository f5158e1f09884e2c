package schemec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_NamedTopLevelFunctionUsesDefineName(t *testing.T) {
	program := &Program{Items: []Node{
		&DefineNode{Name: "square", Value: &LambdaNode{
			Params: []Symbol{"x"},
			Body:   []Node{NewCall(&IdentifierNode{Name: "*"}, []Node{&IdentifierNode{Name: "x"}, &IdentifierNode{Name: "x"}}, NoLocation)},
		}},
	}}

	source, diags, err := Compile(program)
	require.NoError(t, err)
	assert.False(t, diags.HasErrors())
	assert.Contains(t, source, "static float square(float x) {")
	assert.Contains(t, source, "return (x * x);")
	assert.NotContains(t, source, "program_lambda_0")
}

func TestCompile_AnonymousLambdaIsHoisted(t *testing.T) {
	program := &Program{Items: []Node{
		NewCall(&LambdaNode{Params: []Symbol{"x"}, Body: []Node{&IdentifierNode{Name: "x"}}}, []Node{NewIntNumber(1, NoLocation)}, NoLocation),
	}}

	source, _, err := Compile(program)
	require.NoError(t, err)
	assert.Contains(t, source, "static float program_lambda_0(float x) {")
	assert.Contains(t, source, "program_lambda_0(1);")
}

func TestCompile_GlobalDefineEmitsVariable(t *testing.T) {
	program := &Program{Items: []Node{
		&DefineNode{Name: "pi", Value: NewFloatNumber(3.14, NoLocation)},
	}}

	source, _, err := Compile(program)
	require.NoError(t, err)
	assert.Contains(t, source, "float pi = 3.14;")
}

func TestCompile_EmitsArenaLifecycleInMain(t *testing.T) {
	program := &Program{Items: []Node{
		NewCall(&IdentifierNode{Name: "display"}, []Node{&StringNode{Value: "hi"}}, NoLocation),
	}}

	source, _, err := Compile(program)
	require.NoError(t, err)
	assert.Contains(t, source, "arena = arena_create(")
	assert.Contains(t, source, "arena_destroy(arena);")
	assert.Contains(t, source, "int main(void) {")
}

func TestCompile_EmbedsRuntimePrelude(t *testing.T) {
	source, _, err := Compile(&Program{})
	require.NoError(t, err)
	assert.Contains(t, source, `#include "runtime/arena.h"`)
}

func TestCompile_IsDeterministicAcrossRuns(t *testing.T) {
	program := &Program{Items: []Node{
		&DefineNode{Name: "one", Value: NewIntNumber(1, NoLocation)},
	}}

	first, _, err := Compile(program)
	require.NoError(t, err)
	second, _, err := Compile(program)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompile_NilProgramIsAnError(t *testing.T) {
	_, _, err := Compile(nil)
	assert.Error(t, err)
}
