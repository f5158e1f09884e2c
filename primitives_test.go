package schemec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArity_Accepts(t *testing.T) {
	tests := []struct {
		name string
		a    arity
		n    int
		want bool
	}{
		{"exact match", exactly(2), 2, true},
		{"exact mismatch below", exactly(2), 1, false},
		{"exact mismatch above", exactly(2), 3, false},
		{"at-least satisfied", atLeast(1), 3, true},
		{"at-least zero allowed", atLeast(0), 0, true},
		{"at-least below minimum", atLeast(2), 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.accepts(tt.n))
		})
	}
}

func TestLookupPrimitive_PicksMatchingOverload(t *testing.T) {
	ov, ok := lookupPrimitive("-", 1)
	assert.True(t, ok)
	assert.Equal(t, emitUnaryPrefix, ov.kind)

	ov, ok = lookupPrimitive("-", 2)
	assert.True(t, ok)
	assert.Equal(t, emitInfixBinary, ov.kind)

	_, ok = lookupPrimitive("-", 3)
	assert.False(t, ok)
}

func TestLookupPrimitive_UnknownNameIsNotAPrimitive(t *testing.T) {
	_, ok := lookupPrimitive("user-defined-function", 2)
	assert.False(t, ok)
	assert.False(t, isPrimitiveName("user-defined-function"))
}

func TestIsPrimitiveName_RecognisesFullTable(t *testing.T) {
	for name := range primitiveTable {
		assert.True(t, isPrimitiveName(name), "expected %s to be recognised", name)
	}
}
