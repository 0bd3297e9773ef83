package interp

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"cinterp/internal/mem"
)

// evalNumeric evaluates expr to an integer-valued result, truncating
// floats toward zero and taking a pointer's address. Strings and arrays
// cannot be converted and produce an error.
func (st *execState) evalNumeric(expr string) (int64, error) {
	v, err := st.evalValue(expr)
	if err != nil {
		return 0, err
	}
	return v.Numeric()
}

// evalValue evaluates expr with a single bottom-up precedence walk over
// the expression text, scanned right-to-left per level so that
// left-associative operators fall out of recursing on the same level
// against the left half of a rightmost split.
func (st *execState) evalValue(expr string) (Value, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Value{}, cannotEvaluate(expr)
	}
	return st.evalLevel(expr, 1)
}

// evalCondition evaluates a boolean condition: && and || are
// short-circuited by splitting on their first (leftmost) top-level
// occurrence, ! recurses negating its operand, and anything else delegates
// to the numeric/value expression grammar.
func (st *execState) evalCondition(cond string) (bool, error) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return false, cannotEvaluate(cond)
	}

	if idx := indexTopLevelToken(cond, "||"); idx >= 0 {
		left, right := cond[:idx], cond[idx+2:]
		lb, err := st.evalCondition(left)
		if err != nil {
			return false, err
		}
		if lb {
			return true, nil
		}
		return st.evalCondition(right)
	}

	if idx := indexTopLevelToken(cond, "&&"); idx >= 0 {
		left, right := cond[:idx], cond[idx+2:]
		lb, err := st.evalCondition(left)
		if err != nil {
			return false, err
		}
		if !lb {
			return false, nil
		}
		return st.evalCondition(right)
	}

	if strings.HasPrefix(cond, "!") && !strings.HasPrefix(cond, "!=") {
		b, err := st.evalCondition(cond[1:])
		if err != nil {
			return false, err
		}
		return !b, nil
	}

	if strings.HasPrefix(cond, "(") {
		runes := []rune(cond)
		if close := findMatching(runes, 0, '(', ')'); close == len(runes)-1 {
			return st.evalCondition(string(runes[1:close]))
		}
	}

	v, err := st.evalValue(cond)
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}

// indexTopLevelToken returns the first (leftmost) top-level index of a
// two-character token in s, or -1.
func indexTopLevelToken(s string, token string) int {
	runes := []rune(s)
	mask := computeMask(runes)
	tk := []rune(token)
	for i := 0; i+len(tk) <= len(runes); i++ {
		if !mask[i] {
			continue
		}
		match := true
		for j, tr := range tk {
			if runes[i+j] != tr {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// computeMask returns, for each rune index, whether that position sits at
// paren/brace/bracket depth 0 and outside any string/char literal,
// evaluated using the delimiter state as of just before that rune.
func computeMask(runes []rune) []bool {
	mask := make([]bool, len(runes))
	var d delimDepth
	for i, r := range runes {
		mask[i] = d.top()
		d.step(r)
	}
	return mask
}

type opSpec struct {
	token    string
	excluded func(runes []rune, i int) bool
}

// findOpRTL scans runes from right to left for the rightmost top-level
// match among specs (checked in list order at each position, so list
// longer/more-specific tokens before shorter ones at the same level).
func findOpRTL(runes []rune, mask []bool, specs []opSpec) (idx int, token string, ok bool) {
	for i := len(runes) - 1; i >= 0; i-- {
		if !mask[i] {
			continue
		}
		for _, spec := range specs {
			tk := []rune(spec.token)
			if i+len(tk) > len(runes) {
				continue
			}
			match := true
			for j, tr := range tk {
				if runes[i+j] != tr {
					match = false
					break
				}
			}
			if !match {
				continue
			}
			if spec.excluded != nil && spec.excluded(runes, i) {
				continue
			}
			return i, spec.token, true
		}
	}
	return -1, "", false
}

func pairExcluded(pair rune) func(runes []rune, i int) bool {
	return func(runes []rune, i int) bool {
		if i > 0 && runes[i-1] == pair {
			return true
		}
		if i+1 < len(runes) && runes[i+1] == pair {
			return true
		}
		return false
	}
}

// isUnaryPosition reports whether the operator at index i (+, -, &, or *)
// must be unary rather than binary: at the start of the expression, after
// another operator or open delimiter, or immediately after the exponent
// marker of a scientific-notation float literal. Binary & and * reuse
// this alongside +/- since all four need a real left operand to be
// binary at all.
func isUnaryPosition(runes []rune, i int) bool {
	if i == 0 {
		return true
	}
	j := i - 1
	for j >= 0 && runes[j] == ' ' {
		j--
	}
	if j < 0 {
		return true
	}
	prev := runes[j]
	if (prev == 'e' || prev == 'E') && j > 0 && unicode.IsDigit(runes[j-1]) {
		return true
	}
	if isIdentRune(prev) || prev == ')' || prev == ']' {
		return false
	}
	return true
}

// evalLevel walks down the precedence table from level 1 (ternary,
// loosest) to level 11 (primary).
func (st *execState) evalLevel(expr string, level int) (Value, error) {
	runes := []rune(expr)
	mask := computeMask(runes)

	switch level {
	case 1: // ?: ternary, right-associative
		if qIdx, colonIdx, ok := findTernary(runes, mask); ok {
			cond, err := st.evalCondition(string(runes[:qIdx]))
			if err != nil {
				return Value{}, err
			}
			if cond {
				return st.evalValue(string(runes[qIdx+1 : colonIdx]))
			}
			return st.evalValue(string(runes[colonIdx+1:]))
		}
		return st.evalLevel(expr, 2)

	case 2: // |
		specs := []opSpec{{"|", pairExcluded('|')}}
		if idx, _, ok := findOpRTL(runes, mask, specs); ok {
			return st.combineBinary(string(runes[:idx]), string(runes[idx+1:]), level, "|")
		}
		return st.evalLevel(expr, 3)

	case 3: // ^
		specs := []opSpec{{"^", nil}}
		if idx, _, ok := findOpRTL(runes, mask, specs); ok {
			return st.combineBinary(string(runes[:idx]), string(runes[idx+1:]), level, "^")
		}
		return st.evalLevel(expr, 4)

	case 4: // & (binary)
		ampExcluded := pairExcluded('&')
		specs := []opSpec{{"&", func(r []rune, i int) bool {
			return ampExcluded(r, i) || isUnaryPosition(r, i)
		}}}
		if idx, _, ok := findOpRTL(runes, mask, specs); ok {
			return st.combineBinary(string(runes[:idx]), string(runes[idx+1:]), level, "&")
		}
		return st.evalLevel(expr, 5)

	case 5: // == !=
		specs := []opSpec{{"==", nil}, {"!=", nil}}
		if idx, tok, ok := findOpRTL(runes, mask, specs); ok {
			return st.combineBinary(string(runes[:idx]), string(runes[idx+len(tok):]), level, tok)
		}
		return st.evalLevel(expr, 6)

	case 6: // < <= > >=
		specs := []opSpec{
			{"<=", nil}, {">=", nil},
			{"<", func(r []rune, i int) bool {
				return (i+1 < len(r) && (r[i+1] == '<' || r[i+1] == '=')) || (i > 0 && r[i-1] == '<')
			}},
			{">", func(r []rune, i int) bool {
				return (i+1 < len(r) && (r[i+1] == '>' || r[i+1] == '=')) || (i > 0 && r[i-1] == '>')
			}},
		}
		if idx, tok, ok := findOpRTL(runes, mask, specs); ok {
			return st.combineBinary(string(runes[:idx]), string(runes[idx+len(tok):]), level, tok)
		}
		return st.evalLevel(expr, 7)

	case 7: // << >>
		specs := []opSpec{{"<<", nil}, {">>", nil}}
		if idx, tok, ok := findOpRTL(runes, mask, specs); ok {
			return st.combineBinary(string(runes[:idx]), string(runes[idx+len(tok):]), level, tok)
		}
		return st.evalLevel(expr, 8)

	case 8: // + - (binary)
		specs := []opSpec{
			{"+", isUnaryPosition},
			{"-", isUnaryPosition},
		}
		if idx, tok, ok := findOpRTL(runes, mask, specs); ok {
			return st.combineBinary(string(runes[:idx]), string(runes[idx+1:]), level, tok)
		}
		return st.evalLevel(expr, 9)

	case 9: // * / %
		specs := []opSpec{{"*", isUnaryPosition}, {"/", nil}, {"%", nil}}
		if idx, tok, ok := findOpRTL(runes, mask, specs); ok {
			return st.combineBinary(string(runes[:idx]), string(runes[idx+1:]), level, tok)
		}
		return st.evalLevel(expr, 10)

	case 10: // unary - ~ ! * & ++ --
		return st.evalUnary(expr)

	default: // 11: primary
		return st.evalPrimary(expr)
	}
}

func findTernary(runes []rune, mask []bool) (qIdx, colonIdx int, ok bool) {
	for i := 0; i < len(runes); i++ {
		if !mask[i] || runes[i] != '?' {
			continue
		}
		depth := 1
		for j := i + 1; j < len(runes); j++ {
			if !mask[j] {
				continue
			}
			switch runes[j] {
			case '?':
				depth++
			case ':':
				depth--
				if depth == 0 {
					return i, j, true
				}
			}
		}
		return 0, 0, false
	}
	return 0, 0, false
}

// combineBinary evaluates both operand substrings at the same precedence
// level (so that repeated same-level operators keep peeling off the left,
// producing left associativity) and applies op.
func (st *execState) combineBinary(leftExpr, rightExpr string, level int, op string) (Value, error) {
	left, err := st.evalLevel(leftExpr, level)
	if err != nil {
		return Value{}, err
	}
	right, err := st.evalLevel(rightExpr, level)
	if err != nil {
		return Value{}, err
	}
	return applyBinaryOp(op, left, right)
}

func applyBinaryOp(op string, left, right Value) (Value, error) {
	switch op {
	case "==":
		return BoolVal(valuesEqual(left, right)), nil
	case "!=":
		return BoolVal(!valuesEqual(left, right)), nil
	case "<", "<=", ">", ">=":
		return compareNumeric(op, left, right)
	}

	if op == "+" && (left.Kind == KindString || right.Kind == KindString) {
		return Value{}, cannotEvaluate("+ on string operand")
	}

	if op == "+" || op == "-" || op == "*" || op == "/" {
		if left.Kind == KindFloat || right.Kind == KindFloat {
			lf, err := left.NumericFloat()
			if err != nil {
				return Value{}, err
			}
			rf, err := right.NumericFloat()
			if err != nil {
				return Value{}, err
			}
			switch op {
			case "+":
				return FloatVal(lf + rf), nil
			case "-":
				return FloatVal(lf - rf), nil
			case "*":
				return FloatVal(lf * rf), nil
			case "/":
				if rf == 0 {
					return Value{}, ErrDivByZero
				}
				return FloatVal(lf / rf), nil
			}
		}
	}

	li, err := left.Numeric()
	if err != nil {
		return Value{}, err
	}
	ri, err := right.Numeric()
	if err != nil {
		return Value{}, err
	}

	switch op {
	case "|":
		return IntVal(li | ri), nil
	case "^":
		return IntVal(li ^ ri), nil
	case "&":
		return IntVal(li & ri), nil
	case "<<":
		return IntVal(li << uint(ri)), nil
	case ">>":
		return IntVal(li >> uint(ri)), nil
	case "+":
		return IntVal(li + ri), nil
	case "-":
		return IntVal(li - ri), nil
	case "*":
		return IntVal(li * ri), nil
	case "/":
		if ri == 0 {
			return Value{}, ErrDivByZero
		}
		return IntVal(li / ri), nil
	case "%":
		if ri == 0 {
			return Value{}, ErrDivByZero
		}
		return IntVal(li % ri), nil
	}
	return Value{}, cannotEvaluate(op)
}

func valuesEqual(left, right Value) bool {
	if left.Kind == KindString || right.Kind == KindString {
		return left.Kind == KindString && right.Kind == KindString && left.Str == right.Str
	}
	ln, errL := left.Numeric()
	rn, errR := right.Numeric()
	if errL == nil && errR == nil {
		if left.Kind == KindFloat || right.Kind == KindFloat {
			lf, _ := left.NumericFloat()
			rf, _ := right.NumericFloat()
			return lf == rf
		}
		return ln == rn
	}
	return false
}

func compareNumeric(op string, left, right Value) (Value, error) {
	var lf, rf float64
	var err error
	if left.Kind == KindFloat || right.Kind == KindFloat {
		lf, err = left.NumericFloat()
		if err != nil {
			return Value{}, err
		}
		rf, err = right.NumericFloat()
		if err != nil {
			return Value{}, err
		}
	} else {
		li, err := left.Numeric()
		if err != nil {
			return Value{}, err
		}
		ri, err := right.Numeric()
		if err != nil {
			return Value{}, err
		}
		lf, rf = float64(li), float64(ri)
	}
	switch op {
	case "<":
		return BoolVal(lf < rf), nil
	case "<=":
		return BoolVal(lf <= rf), nil
	case ">":
		return BoolVal(lf > rf), nil
	case ">=":
		return BoolVal(lf >= rf), nil
	}
	return Value{}, cannotEvaluate(op)
}

func (st *execState) evalUnary(expr string) (Value, error) {
	trimmed := strings.TrimSpace(expr)

	switch {
	case strings.HasPrefix(trimmed, "++"):
		return st.evalPrefixStep(trimmed[2:], 1)
	case strings.HasPrefix(trimmed, "--"):
		return st.evalPrefixStep(trimmed[2:], -1)
	case strings.HasPrefix(trimmed, "-"):
		v, err := st.evalLevel(trimmed[1:], 10)
		if err != nil {
			return Value{}, err
		}
		if v.Kind == KindFloat {
			return FloatVal(-v.Float), nil
		}
		n, err := v.Numeric()
		if err != nil {
			return Value{}, err
		}
		return IntVal(-n), nil
	case strings.HasPrefix(trimmed, "~"):
		v, err := st.evalLevel(trimmed[1:], 10)
		if err != nil {
			return Value{}, err
		}
		n, err := v.Numeric()
		if err != nil {
			return Value{}, err
		}
		return IntVal(^n), nil
	case strings.HasPrefix(trimmed, "!"):
		b, err := st.evalCondition(trimmed[1:])
		if err != nil {
			return Value{}, err
		}
		return BoolVal(!b), nil
	case strings.HasPrefix(trimmed, "*"):
		return st.evalDereference(trimmed[1:])
	case strings.HasPrefix(trimmed, "&"):
		return st.evalAddressOf(trimmed[1:])
	default:
		return st.evalLevel(trimmed, 11)
	}
}

func (st *execState) evalPrefixStep(name string, delta int64) (Value, error) {
	name = strings.TrimSpace(name)
	v, ok := st.env.get(name)
	if !ok {
		return Value{}, varNotFound(name)
	}
	var updated Value
	if v.Kind == KindFloat {
		updated = FloatVal(v.Float + float64(delta))
	} else {
		n, err := v.Numeric()
		if err != nil {
			return Value{}, err
		}
		updated = IntVal(n + delta)
	}
	st.env.set(name, updated)
	st.mem.UpdateByName(name, updated)
	return updated, nil
}

func (st *execState) evalDereference(inner string) (Value, error) {
	v, err := st.evalValue(inner)
	if err != nil {
		return Value{}, err
	}
	if v.Kind != KindPointer {
		return Value{}, cannotEvaluate("* on non-pointer " + inner)
	}
	raw, err := st.mem.Read(v.Addr)
	if err != nil {
		return Value{}, translateMemErr(err)
	}
	return raw.(Value), nil
}

func (st *execState) evalAddressOf(inner string) (Value, error) {
	inner = strings.TrimSpace(inner)

	if name, idxExpr, ok := splitIndex(inner); ok {
		idx, err := st.evalNumeric(idxExpr)
		if err != nil {
			return Value{}, err
		}
		base, ok := st.mem.AddressOfBase(name)
		if !ok {
			return Value{}, varNotFound(name)
		}
		return PointerVal(base + idx*8), nil
	}

	if !isIdentifier(inner) {
		return Value{}, cannotEvaluate("& on non-identifier " + inner)
	}
	v, ok := st.env.get(inner)
	if !ok {
		return Value{}, varNotFound(inner)
	}
	addr, err := st.mem.AddressOf(inner, v)
	if err != nil {
		return Value{}, err
	}
	return PointerVal(addr), nil
}

func (st *execState) evalPrimary(expr string) (Value, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Value{}, cannotEvaluate(expr)
	}

	runes := []rune(expr)
	if runes[0] == '(' {
		if close := findMatching(runes, 0, '(', ')'); close == len(runes)-1 {
			return st.evalValue(string(runes[1:close]))
		}
	}

	if expr[0] == '"' && strings.HasSuffix(expr, `"`) && len(expr) >= 2 {
		return StringVal(applyEscapes(expr[1 : len(expr)-1])), nil
	}

	if expr[0] == '\'' && strings.HasSuffix(expr, "'") && len(expr) >= 2 {
		r, err := parseCharLiteral(expr)
		if err != nil {
			return Value{}, err
		}
		return CharVal(r), nil
	}

	if name, argsText, ok := splitCallSyntax(expr); ok {
		if v, handled, err := st.evalBuiltinCall(name, argsText); handled {
			return v, err
		}
	}

	if name, idxExpr, ok := splitIndex(expr); ok {
		arr, ok := st.env.get(name)
		if !ok {
			return Value{}, varNotFound(name)
		}
		if arr.Kind != KindArray {
			return Value{}, cannotEvaluate(expr)
		}
		idx, err := st.evalNumeric(idxExpr)
		if err != nil {
			return Value{}, err
		}
		if idx < 0 || int(idx) >= len(arr.Array) {
			return Value{}, cannotEvaluate(expr)
		}
		return arr.Array[idx], nil
	}

	if isIdentifier(expr) {
		if v, ok := st.env.get(expr); ok {
			return v, nil
		}
		return Value{}, cannotEvaluate(expr)
	}

	if v, ok := parseNumberLiteral(expr); ok {
		return v, nil
	}

	return Value{}, cannotEvaluate(expr)
}

// splitCallSyntax recognizes "name(args)" spanning the whole of s, and
// returns name, the raw argument-list text, and true if s has that shape.
func splitCallSyntax(s string) (name, argsText string, ok bool) {
	runes := []rune(s)
	i := 0
	for i < len(runes) && isIdentRune(runes[i]) {
		i++
	}
	if i == 0 || i >= len(runes) || runes[i] != '(' {
		return "", "", false
	}
	close := findMatching(runes, i, '(', ')')
	if close != len(runes)-1 {
		return "", "", false
	}
	return string(runes[:i]), string(runes[i+1 : close]), true
}

// splitIndex recognizes "name[index-expr]" spanning the whole of s, and
// returns name, the index expression text, and true if s has that shape.
func splitIndex(s string) (name, idxExpr string, ok bool) {
	runes := []rune(s)
	i := 0
	for i < len(runes) && isIdentRune(runes[i]) {
		i++
	}
	if i == 0 || i >= len(runes) || runes[i] != '[' {
		return "", "", false
	}
	close := findMatching(runes, i, '[', ']')
	if close != len(runes)-1 {
		return "", "", false
	}
	return string(runes[:i]), string(runes[i+1 : close]), true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	if unicode.IsDigit(r[0]) {
		return false
	}
	for _, c := range r {
		if !isIdentRune(c) {
			return false
		}
	}
	return true
}

func parseNumberLiteral(s string) (Value, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntVal(i), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatVal(f), true
	}
	return Value{}, false
}

func parseCharLiteral(s string) (rune, error) {
	inner := s[1 : len(s)-1]
	inner = applyEscapes(inner)
	r := []rune(inner)
	if len(r) != 1 {
		return 0, cannotEvaluate(s)
	}
	return r[0], nil
}

// applyEscapes expands the fixed escape set: \n \t \r \0 \\, plus \' and
// \" so quoted literals round-trip.
func applyEscapes(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			switch runes[i+1] {
			case 'n':
				b.WriteRune('\n')
				i++
				continue
			case 't':
				b.WriteRune('\t')
				i++
				continue
			case 'r':
				b.WriteRune('\r')
				i++
				continue
			case '0':
				b.WriteRune(0)
				i++
				continue
			case '\\':
				b.WriteRune('\\')
				i++
				continue
			case '\'':
				b.WriteRune('\'')
				i++
				continue
			case '"':
				b.WriteRune('"')
				i++
				continue
			}
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// translateMemErr maps internal/mem's address-space errors onto the
// sentinel taxonomy in errors.go, so callers can errors.Is against
// ErrSegFault regardless of which layer detected the fault.
func translateMemErr(err error) error {
	var segErr mem.SegFaultError
	if errors.As(err, &segErr) {
		return segFault(segErr.Addr)
	}
	return err
}
