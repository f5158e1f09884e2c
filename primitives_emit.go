package schemec

import "fmt"

// This file holds the emit closures primitives.go's table wires each
// overload to. They are grounded directly on
// original_source/src/backend/codegen/calls.c's per-operator fprintf
// sequences, one emission per recognised primitive.

// emitInfixOp returns an emitter for a two-argument infix operator:
// "(a OP b)".
func emitInfixOp(op string) func(*exprEmitter, *CallNode) error {
	return func(e *exprEmitter, call *CallNode) error {
		e.ctx.Write("(")
		if err := e.Emit(call.Args[0]); err != nil {
			return err
		}
		e.ctx.Write(" " + op + " ")
		if err := e.Emit(call.Args[1]); err != nil {
			return err
		}
		e.ctx.Write(")")
		return nil
	}
}

// emitUnaryMinus emits "(-a)".
func emitUnaryMinus(e *exprEmitter, call *CallNode) error {
	e.ctx.Write("(-")
	if err := e.Emit(call.Args[0]); err != nil {
		return err
	}
	e.ctx.Write(")")
	return nil
}

// emitHelperCall returns an emitter for a fixed runtime helper call:
// "helper(arena, a, b)" when withArena is true, or "helper(a, b)"
// otherwise (vector_f_dot and vector_f_magnitude take no arena).
func emitHelperCall(helper string, withArena bool) func(*exprEmitter, *CallNode) error {
	return func(e *exprEmitter, call *CallNode) error {
		e.ctx.Write(helper + "(")
		if withArena {
			e.ctx.Write("arena, ")
		}
		for i, a := range call.Args {
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
}

// emitVectorLiteralCall lowers (vector e1 e2 ...) the same way a
// VectorLiteral node does.
func emitVectorLiteralCall(e *exprEmitter, call *CallNode) error {
	return e.emitVectorLiteral(&VectorLiteralNode{Loc: call.Loc, Elements: call.Args})
}

// emitVectorRef lowers (vector-ref v i) to "(v->data[i])".
func emitVectorRef(e *exprEmitter, call *CallNode) error {
	e.ctx.Write("(")
	if err := e.Emit(call.Args[0]); err != nil {
		return err
	}
	e.ctx.Write("->data[")
	if err := e.Emit(call.Args[1]); err != nil {
		return err
	}
	e.ctx.Write("])")
	return nil
}

// emitMatrixRef lowers (matrix-ref m i j) to "(m[i]->data[j])".
func emitMatrixRef(e *exprEmitter, call *CallNode) error {
	e.ctx.Write("(")
	if err := e.Emit(call.Args[0]); err != nil {
		return err
	}
	e.ctx.Write("[")
	if err := e.Emit(call.Args[1]); err != nil {
		return err
	}
	e.ctx.Write("]->data[")
	if err := e.Emit(call.Args[2]); err != nil {
		return err
	}
	e.ctx.Write("])")
	return nil
}

// emitDisplay lowers (display x) to `printf("%s\n", x)` (Scheme
// compatibility: x is expected to already be a C string).
func emitDisplay(e *exprEmitter, call *CallNode) error {
	e.ctx.Write(`printf("%s\n", `)
	if err := e.Emit(call.Args[0]); err != nil {
		return err
	}
	e.ctx.Write(")")
	return nil
}

// emitStringAppend lowers (string-append a b ...) to a
// statement-expression that strcats every argument into a fixed 1024
// byte buffer and strdup's the result.
func emitStringAppend(e *exprEmitter, call *CallNode) error {
	e.ctx.Write(`({ char buffer[1024] = ""; `)
	for _, a := range call.Args {
		e.ctx.Write("strcat(buffer, ")
		if err := e.Emit(a); err != nil {
			return err
		}
		e.ctx.Write("); ")
	}
	e.ctx.Write("strdup(buffer); })")
	return nil
}

// emitNumberToString lowers (number->string x) to a statement-expression
// that snprintf's "%g" into a 64 byte buffer and strdup's the result.
func emitNumberToString(e *exprEmitter, call *CallNode) error {
	e.ctx.Write(`({ char buffer[64]; snprintf(buffer, sizeof(buffer), "%g", `)
	if err := e.Emit(call.Args[0]); err != nil {
		return err
	}
	e.ctx.Write("); strdup(buffer); })")
	return nil
}

// emitPrintf forwards (printf fmt args...) verbatim to C's printf.
func emitPrintf(e *exprEmitter, call *CallNode) error {
	e.ctx.Write("printf(")
	for i, a := range call.Args {
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

// autodiffScalarSignature is the C function-pointer cast every scalar
// autodiff wrapper casts the user's function value to before handing it
// to the matching runtime helper.
const autodiffScalarSignature = "float (*wrapper_func)(VectorF*) = (float (*)(VectorF*))"

// emitAutodiffForward lowers (autodiff-forward f x) — a scalar-in/
// scalar-out wrapper around forward-mode autodiff: f is cast to the
// vector-taking signature, x is wrapped in a single-element vector, and
// the result is unwrapped back to a scalar.
func emitAutodiffForward(e *exprEmitter, call *CallNode) error {
	return emitScalarAutodiff(e, call, "compute_gradient_autodiff")
}

// emitAutodiffReverse lowers (autodiff-reverse f x), reverse-mode
// analogue of emitAutodiffForward.
func emitAutodiffReverse(e *exprEmitter, call *CallNode) error {
	return emitScalarAutodiff(e, call, "compute_gradient_reverse_mode")
}

func emitScalarAutodiff(e *exprEmitter, call *CallNode, helper string) error {
	e.ctx.Write("({ " + autodiffScalarSignature)
	if err := e.Emit(call.Args[0]); err != nil {
		return err
	}
	e.ctx.Write("; VectorF* vec_input = vector_f_create_from_array(arena, (float[]){")
	if err := e.Emit(call.Args[1]); err != nil {
		return err
	}
	e.ctx.Write(fmt.Sprintf("}, 1); vector_f_get(%s(arena, wrapper_func, vec_input), 0); })", helper))
	return nil
}

// emitAutodiffForwardGradient lowers (autodiff-forward-gradient f v): f
// is cast the same way, but the input is already a vector, so the
// gradient call is returned directly rather than unwrapped to a scalar.
func emitAutodiffForwardGradient(e *exprEmitter, call *CallNode) error {
	return emitVectorAutodiff(e, call, "compute_gradient_autodiff")
}

// emitAutodiffReverseGradient lowers (autodiff-reverse-gradient f v),
// reverse-mode analogue of emitAutodiffForwardGradient.
func emitAutodiffReverseGradient(e *exprEmitter, call *CallNode) error {
	return emitVectorAutodiff(e, call, "compute_gradient_reverse_mode")
}

func emitVectorAutodiff(e *exprEmitter, call *CallNode, helper string) error {
	e.ctx.Write("({ " + autodiffScalarSignature)
	if err := e.Emit(call.Args[0]); err != nil {
		return err
	}
	e.ctx.Write("; " + helper + "(arena, wrapper_func, ")
	if err := e.Emit(call.Args[1]); err != nil {
		return err
	}
	e.ctx.Write("); })")
	return nil
}

// emitAutodiffJacobian lowers (autodiff-jacobian f v): f is cast to the
// vector-to-vector signature compute_jacobian expects.
func emitAutodiffJacobian(e *exprEmitter, call *CallNode) error {
	e.ctx.Write("({ VectorF* (*wrapper_func)(Arena*, VectorF*) = (VectorF* (*)(Arena*, VectorF*))")
	if err := e.Emit(call.Args[0]); err != nil {
		return err
	}
	e.ctx.Write("; compute_jacobian(arena, wrapper_func, ")
	if err := e.Emit(call.Args[1]); err != nil {
		return err
	}
	e.ctx.Write("); })")
	return nil
}

// emitAutodiffHessian lowers (autodiff-hessian f v) using the same
// scalar wrapper signature as the gradient forms.
func emitAutodiffHessian(e *exprEmitter, call *CallNode) error {
	e.ctx.Write("({ " + autodiffScalarSignature)
	if err := e.Emit(call.Args[0]); err != nil {
		return err
	}
	e.ctx.Write("; compute_hessian(arena, wrapper_func, ")
	if err := e.Emit(call.Args[1]); err != nil {
		return err
	}
	e.ctx.Write("); })")
	return nil
}

// emitDerivative lowers (derivative f x) to a first-order
// compute_nth_derivative call; f is cast to a plain float->float
// signature since derivative operates on scalar functions directly,
// unlike the vector-based autodiff forms above.
func emitDerivative(e *exprEmitter, call *CallNode) error {
	e.ctx.Write("({ float (*wrapper_func)(float) = (float (*)(float))")
	if err := e.Emit(call.Args[0]); err != nil {
		return err
	}
	e.ctx.Write("; compute_nth_derivative(arena, wrapper_func, ")
	if err := e.Emit(call.Args[1]); err != nil {
		return err
	}
	e.ctx.Write(", 1); })")
	return nil
}
