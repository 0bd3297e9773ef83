package interp

import (
	"strings"

	"cinterp/internal/mem"
)

// execState is the private, single-owner state for one Interpret call: the
// flat environment, the simulated heap, the accumulated output buffer, and
// the break/continue control flags. It is never shared across calls or
// goroutines.
type execState struct {
	in  *Interpreter
	env environment
	mem *mem.Memory
	out strings.Builder

	breakPending    bool
	continuePending bool
}

// run locates int main/void main, extracts its body by a balanced-brace
// scan, and executes it as a block.
func (st *execState) run(source string) error {
	source = stripComments(source)

	idx := indexToken(source, "main")
	if idx < 0 {
		return ErrNoMain
	}
	before := strings.TrimRight(source[:idx], " \t\r\n")
	if !(strings.HasSuffix(before, "int") || strings.HasSuffix(before, "void")) {
		return ErrInvalidMain
	}

	runes := []rune(source[idx+len("main"):])
	i := 0
	for i < len(runes) && isSpaceRune(runes[i]) {
		i++
	}
	if i >= len(runes) || runes[i] != '(' {
		return ErrInvalidMain
	}
	closeParen := findMatching(runes, i, '(', ')')
	if closeParen < 0 {
		return ErrInvalidMain
	}
	j := closeParen + 1
	for j < len(runes) && isSpaceRune(runes[j]) {
		j++
	}
	if j >= len(runes) || runes[j] != '{' {
		return ErrInvalidMain
	}
	closeBrace := findMatching(runes, j, '{', '}')
	if closeBrace < 0 {
		return ErrUnmatchedBraces
	}

	body := string(runes[j+1 : closeBrace])
	st.trace("main body %d bytes", len(body))
	return st.execBlock(body)
}

// trace forwards to the Interpreter's logf hook, if one was installed via
// WithLogf; it is a no-op otherwise so the core stays I/O-free by default.
func (st *execState) trace(mess string, args ...interface{}) {
	if st.in.logf != nil {
		st.in.logf(mess, args...)
	}
}

func (st *execState) loopCap() int {
	return st.in.loopCap
}
