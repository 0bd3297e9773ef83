package interp

import "strings"

// execBlock runs a curly-brace body as a sequence of statements and
// control-flow constructs. It stops early, without clearing either flag,
// as soon as breakPending or continuePending is set so the enclosing loop
// (or switch) can observe and handle it.
func (st *execState) execBlock(body string) error {
	runes := []rune(body)
	i := 0
	for i < len(runes) {
		for i < len(runes) && isSpaceRune(runes[i]) {
			i++
		}
		if i >= len(runes) {
			break
		}
		run, consumed, err := parseUnit(runes[i:])
		if err != nil {
			return err
		}
		if consumed <= 0 {
			return syntaxErrorf("statement")
		}
		if run != nil {
			if err := run(st); err != nil {
				return err
			}
		}
		i += consumed
		if st.breakPending || st.continuePending {
			return nil
		}
	}
	return nil
}

// parseUnit recognizes the next executable unit at the start of rest: a
// control-flow construct, or a single ;-terminated statement. It returns a
// thunk to run it and how many runes of rest it consumed.
func parseUnit(rest []rune) (run func(st *execState) error, consumed int, err error) {
	i := 0
	for i < len(rest) && isSpaceRune(rest[i]) {
		i++
	}
	s := string(rest[i:])

	switch {
	case hasKeywordPrefix(s, "for"):
		header, body, n, ferr := parseParenThenBody(rest[i:], "for", false)
		if ferr != nil {
			return nil, 0, ferr
		}
		return func(st *execState) error { return st.execFor(header, body) }, i + n, nil

	case hasKeywordPrefix(s, "while"):
		header, body, n, werr := parseParenThenBody(rest[i:], "while", false)
		if werr != nil {
			return nil, 0, werr
		}
		return func(st *execState) error { return st.execWhile(header, body) }, i + n, nil

	case hasKeywordPrefix(s, "do"):
		body, cond, n, derr := parseDoWhile(rest[i:])
		if derr != nil {
			return nil, 0, derr
		}
		return func(st *execState) error { return st.execDoWhile(body, cond) }, i + n, nil

	case hasKeywordPrefix(s, "if"):
		ifRun, n, ierr := parseIfChain(rest[i:])
		if ierr != nil {
			return nil, 0, ierr
		}
		return ifRun, i + n, nil

	case hasKeywordPrefix(s, "switch"):
		header, body, n, serr := parseParenThenBody(rest[i:], "switch", true)
		if serr != nil {
			return nil, 0, serr
		}
		return func(st *execState) error { return st.execSwitch(header, body) }, i + n, nil

	default:
		semi := indexTopLevel(s, ';')
		if semi < 0 {
			return nil, 0, syntaxErrorf("statement")
		}
		stmtText := strings.TrimSpace(s[:semi])
		consumed = i + semi + 1
		if stmtText == "" {
			return nil, consumed, nil
		}
		return func(st *execState) error { return st.execStatement(stmtText) }, consumed, nil
	}
}

// parseParenThenBody consumes "keyword (header) body" from the start of
// rest (rest[0] is keyword's first rune) and returns the rune count
// consumed. body is either a {brace-delimited} block or, when requireBrace
// is false, a single ;-terminated statement or nested control construct.
func parseParenThenBody(rest []rune, keyword string, requireBrace bool) (header, body string, consumed int, err error) {
	i := len(keyword)
	for i < len(rest) && isSpaceRune(rest[i]) {
		i++
	}
	if i >= len(rest) || rest[i] != '(' {
		return "", "", 0, syntaxErrorf(keyword)
	}
	closeParen := findMatching(rest, i, '(', ')')
	if closeParen < 0 {
		return "", "", 0, syntaxErrorf(keyword)
	}
	header = string(rest[i+1 : closeParen])

	if requireBrace {
		j := closeParen + 1
		for j < len(rest) && isSpaceRune(rest[j]) {
			j++
		}
		if j >= len(rest) || rest[j] != '{' {
			return "", "", 0, syntaxErrorf(keyword)
		}
		closeBrace := findMatching(rest, j, '{', '}')
		if closeBrace < 0 {
			return "", "", 0, ErrUnmatchedBraces
		}
		return header, string(rest[j+1 : closeBrace]), closeBrace + 1, nil
	}

	body, consumed, err = parseBody(rest, closeParen+1, keyword)
	if err != nil {
		return "", "", 0, err
	}
	return header, body, consumed, nil
}

// parseBody consumes the body of a control construct starting at index
// start of rest (after skipping leading space): either a {brace-delimited}
// block, or a single ;-terminated statement or nested control construct.
// consumed is the absolute index into rest just past the body.
func parseBody(rest []rune, start int, keyword string) (body string, consumed int, err error) {
	j := start
	for j < len(rest) && isSpaceRune(rest[j]) {
		j++
	}
	if j < len(rest) && rest[j] == '{' {
		closeBrace := findMatching(rest, j, '{', '}')
		if closeBrace < 0 {
			return "", 0, ErrUnmatchedBraces
		}
		return string(rest[j+1 : closeBrace]), closeBrace + 1, nil
	}
	_, n, uerr := parseUnit(rest[j:])
	if uerr != nil {
		return "", 0, uerr
	}
	if n <= 0 {
		return "", 0, syntaxErrorf(keyword)
	}
	return string(rest[j : j+n]), j + n, nil
}

// parseDoWhile consumes "do {body} while (cond) ;" from the start of rest.
func parseDoWhile(rest []rune) (body, cond string, consumed int, err error) {
	i := len("do")
	for i < len(rest) && isSpaceRune(rest[i]) {
		i++
	}
	if i >= len(rest) || rest[i] != '{' {
		return "", "", 0, syntaxErrorf("do")
	}
	closeBrace := findMatching(rest, i, '{', '}')
	if closeBrace < 0 {
		return "", "", 0, ErrUnmatchedBraces
	}
	body = string(rest[i+1 : closeBrace])

	j := closeBrace + 1
	for j < len(rest) && isSpaceRune(rest[j]) {
		j++
	}
	if !hasKeywordPrefix(string(rest[j:]), "while") {
		return "", "", 0, syntaxErrorf("do")
	}
	j += len("while")
	for j < len(rest) && isSpaceRune(rest[j]) {
		j++
	}
	if j >= len(rest) || rest[j] != '(' {
		return "", "", 0, syntaxErrorf("do")
	}
	closeParen := findMatching(rest, j, '(', ')')
	if closeParen < 0 {
		return "", "", 0, syntaxErrorf("do")
	}
	cond = string(rest[j+1 : closeParen])

	k := closeParen + 1
	for k < len(rest) && isSpaceRune(rest[k]) {
		k++
	}
	if k < len(rest) && rest[k] == ';' {
		k++
	}
	return body, cond, k, nil
}

// parseIfChain consumes "if (cond) {body} [else ...]" from the start of
// rest, recursing into "else if" chains and terminating on a plain "else".
func parseIfChain(rest []rune) (run func(st *execState) error, consumed int, err error) {
	header, body, n, err := parseParenThenBody(rest, "if", false)
	if err != nil {
		return nil, 0, err
	}

	j := n
	for j < len(rest) && isSpaceRune(rest[j]) {
		j++
	}
	if !hasKeywordPrefix(string(rest[j:]), "else") {
		return func(st *execState) error {
			cond, err := st.evalCondition(header)
			if err != nil {
				return err
			}
			if cond {
				return st.execBlock(body)
			}
			return nil
		}, n, nil
	}

	k := j + len("else")
	for k < len(rest) && isSpaceRune(rest[k]) {
		k++
	}
	if hasKeywordPrefix(string(rest[k:]), "if") {
		elseRun, elseConsumed, err := parseIfChain(rest[k:])
		if err != nil {
			return nil, 0, err
		}
		run = func(st *execState) error {
			cond, err := st.evalCondition(header)
			if err != nil {
				return err
			}
			if cond {
				return st.execBlock(body)
			}
			return elseRun(st)
		}
		return run, k + elseConsumed, nil
	}

	elseBody, elseConsumed, eerr := parseBody(rest, k, "if")
	if eerr != nil {
		return nil, 0, eerr
	}
	run = func(st *execState) error {
		cond, err := st.evalCondition(header)
		if err != nil {
			return err
		}
		if cond {
			return st.execBlock(body)
		}
		return st.execBlock(elseBody)
	}
	return run, elseConsumed, nil
}

// execFor runs a for-loop: init runs once, cond is checked before each
// iteration, step runs after a normal (non-break) iteration, and continue
// still runs step before the next cond check.
func (st *execState) execFor(header, body string) error {
	parts := splitTopLevel(header, ';')
	if len(parts) != 3 {
		return syntaxErrorf("for")
	}
	initStmt := strings.TrimSpace(parts[0])
	condExpr := strings.TrimSpace(parts[1])
	stepStmt := strings.TrimSpace(parts[2])

	if initStmt != "" {
		if err := st.execStatement(initStmt); err != nil {
			return err
		}
	}

	iterations := 0
	for {
		if condExpr != "" {
			st.trace("for cond %s", condExpr)
			cond, err := st.evalCondition(condExpr)
			if err != nil {
				return err
			}
			if !cond {
				return nil
			}
		}
		iterations++
		if iterations > st.loopCap() {
			return ErrLoopCap
		}
		if err := st.execBlock(body); err != nil {
			return err
		}
		if st.breakPending {
			st.breakPending = false
			return nil
		}
		st.continuePending = false
		if stepStmt != "" {
			if err := st.execStatement(stepStmt); err != nil {
				return err
			}
		}
	}
}

// execWhile runs a while loop: cond is checked before each iteration.
func (st *execState) execWhile(condExpr, body string) error {
	iterations := 0
	for {
		st.trace("while cond %s", condExpr)
		cond, err := st.evalCondition(condExpr)
		if err != nil {
			return err
		}
		if !cond {
			return nil
		}
		iterations++
		if iterations > st.loopCap() {
			return ErrLoopCap
		}
		if err := st.execBlock(body); err != nil {
			return err
		}
		if st.breakPending {
			st.breakPending = false
			return nil
		}
		st.continuePending = false
	}
}

// execDoWhile runs a do-while loop: body runs at least once, cond is
// checked after each iteration.
func (st *execState) execDoWhile(body, cond string) error {
	iterations := 0
	for {
		iterations++
		if iterations > st.loopCap() {
			return ErrLoopCap
		}
		if err := st.execBlock(body); err != nil {
			return err
		}
		if st.breakPending {
			st.breakPending = false
			return nil
		}
		st.continuePending = false

		st.trace("do-while cond %s", cond)
		condVal, err := st.evalCondition(cond)
		if err != nil {
			return err
		}
		if !condVal {
			return nil
		}
	}
}

// execSwitch runs a switch with fall-through: a single left-to-right scan
// builds an ordered list of case/default labels and
// executable units, then execution starts at the first matching label and
// proceeds linearly (through any later labels) until a bare "break;" or the
// end of the body.
func (st *execState) execSwitch(header, body string) error {
	target, err := st.evalNumeric(header)
	if err != nil {
		return err
	}

	type action struct {
		isCase    bool
		isDefault bool
		caseVal   int64
		run       func(st *execState) error
	}
	var actions []action

	runes := []rune(body)
	i := 0
	for i < len(runes) {
		for i < len(runes) && isSpaceRune(runes[i]) {
			i++
		}
		if i >= len(runes) {
			break
		}
		rest := runes[i:]
		s := string(rest)

		switch {
		case hasKeywordPrefix(s, "case"):
			colon := indexTopLevelFrom(rest, ':', len("case"))
			if colon < 0 {
				return syntaxErrorf("switch")
			}
			labelExpr := strings.TrimSpace(string(rest[len("case"):colon]))
			if n, ok := parseCaseLabel(labelExpr); ok {
				actions = append(actions, action{isCase: true, caseVal: n})
			}
			i += colon + 1

		case hasKeywordPrefix(s, "default"):
			colon := indexTopLevelFrom(rest, ':', len("default"))
			if colon < 0 {
				return syntaxErrorf("switch")
			}
			actions = append(actions, action{isDefault: true})
			i += colon + 1

		default:
			run, consumed, uerr := parseUnit(rest)
			if uerr != nil {
				return uerr
			}
			if consumed <= 0 {
				return syntaxErrorf("switch")
			}
			if run != nil {
				actions = append(actions, action{run: run})
			}
			i += consumed
		}
	}

	matched := false
	for _, a := range actions {
		if !matched {
			if a.isDefault || (a.isCase && a.caseVal == target) {
				matched = true
			}
			continue
		}
		if a.isCase || a.isDefault || a.run == nil {
			continue
		}
		if err := a.run(st); err != nil {
			return err
		}
		if st.breakPending {
			st.breakPending = false
			return nil
		}
		if st.continuePending {
			return nil
		}
	}
	return nil
}

// parseCaseLabel recognizes an integer case label; non-integer labels are
// ignored, reporting false, and are never added as a match candidate.
func parseCaseLabel(expr string) (int64, bool) {
	v, ok := parseNumberLiteral(expr)
	if !ok || v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}
