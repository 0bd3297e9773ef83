// Package interp implements the sandboxed C-subset interpreter: a
// recursive expression evaluator with C operator precedence, a statement
// executor, a control-flow engine for structured loops and conditionals,
// and a simulated byte-addressed memory for pointers. It is strictly
// single-threaded and synchronous per call; it performs no I/O of its own
// and its only externally visible effect is the Result it returns.
package interp

import (
	"cinterp/internal/mem"
	"cinterp/internal/panicerr"
)

// Interpreter holds immutable configuration shared across calls; it is
// safe to reuse concurrently because Interpret never mutates it; each call
// builds its own private execState.
type Interpreter struct {
	loopCap  int
	randSeed int64
	memLimit uint
	logf     func(mess string, args ...interface{})
}

// New builds an Interpreter with the given options applied over the
// defaults (100,000 loop cap, fixed rand seed, no memory limit, no trace
// logging).
func New(opts ...Option) *Interpreter {
	in := &Interpreter{}
	defaultOptions.apply(in)
	Options(opts...).apply(in)
	return in
}

// Interpret runs source to completion and returns its result. It never
// panics across this boundary: a recover point converts any unexpected
// runtime panic deep in the evaluator into an ordinary failed Result, since
// the host environment (typically WebAssembly) has no Go panic handler of
// its own.
func (in *Interpreter) Interpret(source string) (result Result) {
	st := newExecState(in)

	err := panicerr.Recover("interpret", func() error {
		return st.run(source)
	})
	if err != nil {
		return errResult(err)
	}
	return okResult(st.out.String())
}

func newExecState(in *Interpreter) *execState {
	m := mem.New()
	m.Limit = in.memLimit
	return &execState{
		in:  in,
		env: newEnvironment(),
		mem: m,
	}
}

// Interpret runs source through a fresh default Interpreter, for callers
// that don't need custom options.
func Interpret(source string) Result {
	return New().Interpret(source)
}
