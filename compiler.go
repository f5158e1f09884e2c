package schemec

import "fmt"

// Compile lowers p to a complete C translation unit using
// DefaultCodegenOptions. It's the single-call entry point analogous to
// the teacher's GenGo: build a context, run the emitter, hand back the
// accumulated buffer.
func Compile(p *Program) (string, *DiagnosticSink, error) {
	return CompileWithOptions(p, DefaultCodegenOptions())
}

// CompileWithOptions lowers p under opts. For a non-nil p, the returned
// DiagnosticSink carries every retained warning and error reported
// during emission, whether or not compilation succeeded; for a nil p it
// is nil. err is non-nil when p is nil, when emission was aborted partway
// through, or when an error diagnostic was recorded (spec.md §5: a
// failure aborts rather than invents a substitute node).
func CompileWithOptions(p *Program, opts CodegenOptions) (string, *DiagnosticSink, error) {
	if p == nil {
		return "", nil, fmt.Errorf("schemec: cannot compile a nil program")
	}

	diagnostics := NewDiagnosticSink(opts.Verbosity)
	arena := NewArena(defaultBlockSize, 0)
	defer arena.Destroy()

	ctx, err := NewCodegenContext(arena, diagnostics, nil, opts)
	if err != nil {
		return "", diagnostics, err
	}
	if err := ctx.Init(""); err != nil {
		return "", diagnostics, err
	}

	if err := newToplevelEmitter(ctx).EmitProgram(p); err != nil {
		return "", diagnostics, err
	}
	if diagnostics.HasErrors() {
		return "", diagnostics, fmt.Errorf("schemec: compilation reported %d error(s)", errorCount(diagnostics))
	}
	return ctx.Output(), diagnostics, nil
}

func errorCount(d *DiagnosticSink) int {
	n := 0
	for _, e := range d.Entries() {
		if e.Severity == SeverityError {
			n++
		}
	}
	return n
}
