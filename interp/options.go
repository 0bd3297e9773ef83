package interp

// Option configures an Interpreter: a closed interface plus a flattening
// Options aggregator so option lists can be built up incrementally and
// passed around before being applied.
type Option interface{ apply(in *Interpreter) }

// DefaultLoopCap is the per-loop iteration ceiling enforced by every
// looping construct absent a WithLoopCap override.
const DefaultLoopCap = 100000

// DefaultRandSeed seeds the deterministic rand() surface when no
// WithRandSeed option is given.
const DefaultRandSeed int64 = 0

var defaultOptions = Options(
	withLoopCap(DefaultLoopCap),
	withRandSeed(DefaultRandSeed),
)

// Options flattens a list of options into one, so a caller can build a
// reusable bundle of options and splice it into another New call.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(*Interpreter) {}

type options []Option

func (opts options) apply(in *Interpreter) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(in)
		}
	}
}

type loopCapOption int

func withLoopCap(n int) loopCapOption { return loopCapOption(n) }
func (n loopCapOption) apply(in *Interpreter) {
	in.loopCap = int(n)
}

// WithLoopCap overrides the default 100,000-iteration-per-loop safety cap.
func WithLoopCap(n int) Option { return withLoopCap(n) }

type randSeedOption int64

func withRandSeed(seed int64) randSeedOption { return randSeedOption(seed) }
func (s randSeedOption) apply(in *Interpreter) {
	in.randSeed = int64(s)
}

// WithRandSeed sets the deterministic seed mixed into the rand() surface;
// two Interpreters built with the same seed produce identical rand()
// sequences for identical programs.
func WithRandSeed(seed int64) Option { return withRandSeed(seed) }

type memLimitOption uint

func withMemLimit(limit uint) memLimitOption { return memLimitOption(limit) }
func (n memLimitOption) apply(in *Interpreter) {
	in.memLimit = uint(n)
}

// WithMemLimit caps the number of distinct addresses the interpreter's
// memory will allocate before failing with a memory-limit error. Zero (the
// default) means unlimited.
func WithMemLimit(limit uint) Option { return withMemLimit(limit) }

type logfOption func(mess string, args ...interface{})

func withLogf(logfn func(mess string, args ...interface{})) logfOption { return logfn }
func (f logfOption) apply(in *Interpreter) {
	in.logf = f
}

// WithLogf installs a trace hook invoked once per executed statement and
// once per loop-condition evaluation. The interpreter itself performs no
// I/O; this is the only way to observe its internal progress.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogf(logfn) }
