package schemec

// arity describes how many arguments a primitive overload accepts. Max
// of -1 means "min or more" (variadic).
type arity struct {
	min int
	max int
}

func exactly(n int) arity { return arity{min: n, max: n} }
func atLeast(n int) arity { return arity{min: n, max: -1} }

func (a arity) accepts(n int) bool {
	if n < a.min {
		return false
	}
	return a.max == -1 || n <= a.max
}

// emissionKind classifies how a primitive's overload is lowered to C,
// per spec.md §3's Primitive Table / §9's Design Notes. It exists so
// tests can assert the recognised set and its shape without depending on
// the emit closures themselves.
type emissionKind int

const (
	emitInfixBinary emissionKind = iota
	emitUnaryPrefix
	emitFixedHelperCall
	emitVariadicHelperCall
	emitStatementExprMacro
	emitStructuralRewrite
)

// overload is one arity-specific lowering strategy for a primitive
// operator name.
type overload struct {
	arity arity
	kind  emissionKind
	emit  func(e *exprEmitter, call *CallNode) error
}

// primitive is a recognised built-in operator: a name plus every arity
// it's defined for. Dispatch (primitives.go's lookup, driven from
// emit_expr.go) picks the first overload whose arity accepts the call's
// ArgCount; if none matches, the call falls through to a generic
// function call (spec.md §4.5's arity-mismatch rule).
type primitive struct {
	name      Symbol
	overloads []overload
}

// primitiveTable is the static symbol -> lowering-strategy mapping
// spec.md §9's Design Notes calls for: "an implementation should lift
// the table to a static mapping from interned symbol to a lowering
// strategy record ... This turns O(k) chained comparisons into O(1)
// lookup." It is built directly off
// original_source/src/backend/codegen/calls.c's strcmp cascade.
var primitiveTable map[Symbol]*primitive

func init() {
	primitiveTable = make(map[Symbol]*primitive)
	def := func(name string, overloads ...overload) {
		primitiveTable[Symbol(name)] = &primitive{name: Symbol(name), overloads: overloads}
	}

	// Arithmetic
	def("+", overload{exactly(2), emitInfixBinary, emitInfixOp("+")})
	def("-",
		overload{exactly(1), emitUnaryPrefix, emitUnaryMinus},
		overload{exactly(2), emitInfixBinary, emitInfixOp("-")},
	)
	def("*", overload{exactly(2), emitInfixBinary, emitInfixOp("*")})
	def("/", overload{exactly(2), emitInfixBinary, emitInfixOp("/")})

	// Comparison
	def("<", overload{exactly(2), emitInfixBinary, emitInfixOp("<")})
	def(">", overload{exactly(2), emitInfixBinary, emitInfixOp(">")})
	def("<=", overload{exactly(2), emitInfixBinary, emitInfixOp("<=")})
	def(">=", overload{exactly(2), emitInfixBinary, emitInfixOp(">=")})
	def("=", overload{exactly(2), emitInfixBinary, emitInfixOp("==")})

	// Vector
	def("vector", overload{atLeast(0), emitVariadicHelperCall, emitVectorLiteralCall})
	def("v+", overload{exactly(2), emitFixedHelperCall, emitHelperCall("vector_f_add", true)})
	def("v-", overload{exactly(2), emitFixedHelperCall, emitHelperCall("vector_f_sub", true)})
	def("v*", overload{exactly(2), emitFixedHelperCall, emitHelperCall("vector_f_mul_scalar", true)})
	def("dot", overload{exactly(2), emitFixedHelperCall, emitHelperCall("vector_f_dot", false)})
	def("cross", overload{exactly(2), emitFixedHelperCall, emitHelperCall("vector_f_cross", true)})
	def("norm", overload{exactly(1), emitFixedHelperCall, emitHelperCall("vector_f_magnitude", false)})
	def("vector-ref", overload{exactly(2), emitStructuralRewrite, emitVectorRef})
	def("matrix-ref", overload{exactly(3), emitStructuralRewrite, emitMatrixRef})

	// Vector calculus
	def("gradient", overload{exactly(2), emitFixedHelperCall, emitHelperCall("compute_gradient", true)})
	def("divergence", overload{exactly(2), emitFixedHelperCall, emitHelperCall("compute_divergence", true)})
	def("curl", overload{exactly(2), emitFixedHelperCall, emitHelperCall("compute_curl", true)})
	def("laplacian", overload{exactly(2), emitFixedHelperCall, emitHelperCall("compute_laplacian", true)})

	// Autodiff
	def("autodiff-forward", overload{exactly(2), emitStatementExprMacro, emitAutodiffForward})
	def("autodiff-reverse", overload{exactly(2), emitStatementExprMacro, emitAutodiffReverse})
	def("autodiff-forward-gradient", overload{exactly(2), emitStatementExprMacro, emitAutodiffForwardGradient})
	def("autodiff-reverse-gradient", overload{exactly(2), emitStatementExprMacro, emitAutodiffReverseGradient})
	def("autodiff-jacobian", overload{exactly(2), emitStatementExprMacro, emitAutodiffJacobian})
	def("autodiff-hessian", overload{exactly(2), emitStatementExprMacro, emitAutodiffHessian})
	def("derivative", overload{exactly(2), emitStatementExprMacro, emitDerivative})

	// Scheme compatibility
	def("display", overload{exactly(1), emitFixedHelperCall, emitDisplay})
	def("string-append", overload{atLeast(0), emitStatementExprMacro, emitStringAppend})
	def("number->string", overload{exactly(1), emitStatementExprMacro, emitNumberToString})
	def("printf", overload{atLeast(0), emitVariadicHelperCall, emitPrintf})
}

// lookupPrimitive finds the overload matching call's ArgCount for an
// Identifier-named callee. ok is false when the name isn't in the table
// at all, or no overload's arity matches (in which case spec.md §4.5
// says dispatch must fall through to a generic call, with the mismatch
// reported only as a warning).
func lookupPrimitive(name Symbol, argCount int) (*overload, bool) {
	p, ok := primitiveTable[name]
	if !ok {
		return nil, false
	}
	for i := range p.overloads {
		if p.overloads[i].arity.accepts(argCount) {
			return &p.overloads[i], true
		}
	}
	return nil, false
}

// isPrimitiveName reports whether name appears in the table at all,
// regardless of arity — used to decide whether an arity mismatch is
// worth a PrimitiveArityMismatch warning versus silent generic dispatch
// for a name that was never a primitive to begin with.
func isPrimitiveName(name Symbol) bool {
	_, ok := primitiveTable[name]
	return ok
}
