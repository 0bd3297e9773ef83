package interp

import (
	"math"
	"strings"

	"cinterp/internal/mem"
)

var typeKeywords = []string{"int", "float", "double", "char", "long", "short"}

// execStatement dispatches a single ;-stripped statement by trying each
// recognized statement shape in priority order: the first match wins.
func (st *execState) execStatement(stmt string) error {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return nil
	}
	st.trace("stmt %s", stmt)

	switch stmt {
	case "break":
		st.breakPending = true
		return nil
	case "continue":
		st.continuePending = true
		return nil
	}

	if args, ok := extractCallArgs(stmt, "printf"); ok {
		return st.execPrintf(args)
	}
	if hasCall(stmt, "scanf") || hasCall(stmt, "gets") {
		return nil
	}
	if args, ok := extractCallArgs(stmt, "puts"); ok {
		return st.execPuts(args)
	}
	if handled, err := st.execLibraryCallStatement(stmt); handled {
		return err
	}
	if isDeclaration(stmt) {
		return st.execDeclaration(stmt)
	}
	if eqIdx, compound, ok := findAssignOp(stmt); ok {
		if compound != "" {
			return st.execCompoundAssign(stmt, eqIdx, compound)
		}
		return st.execAssignment(stmt, eqIdx)
	}
	if isIncDecStatement(stmt) {
		return st.execIncDec(stmt)
	}
	if hasKeywordPrefix(stmt, "return") {
		return nil
	}
	return cannotEvaluate(stmt)
}

// hasCall, findCall, extractCallArgs recognize a function-call occurrence
// of name within s: a whole-word identifier immediately followed by '(',
// honoring string/char literals and nesting.
func findCall(s, name string) int {
	var d delimDepth
	runes := []rune(s)
	nameRunes := []rune(name)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if d.step(r) {
			continue
		}
		if r != nameRunes[0] || i+len(nameRunes) > len(runes) {
			continue
		}
		match := true
		for j, nr := range nameRunes {
			if runes[i+j] != nr {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		before := rune(0)
		if i > 0 {
			before = runes[i-1]
		}
		if isIdentRune(before) {
			continue
		}
		after := i + len(nameRunes)
		if after >= len(runes) || runes[after] != '(' {
			continue
		}
		return i
	}
	return -1
}

func hasCall(s, name string) bool {
	return findCall(s, name) >= 0
}

// extractCallArgs returns the raw text inside name(...)'s parentheses, the
// first time name is called in s.
func extractCallArgs(s, name string) (string, bool) {
	idx := findCall(s, name)
	if idx < 0 {
		return "", false
	}
	runes := []rune(s)
	open := idx + len([]rune(name))
	close := findMatching(runes, open, '(', ')')
	if close < 0 {
		return "", false
	}
	return string(runes[open+1 : close]), true
}

// hasTopLevelAssign reports whether stmt contains a plain or compound
// assignment operator at top level (used to decide whether a string/math/
// rand call statement is a bare call or the right-hand side of an
// assignment the declaration/assignment rules should handle instead).
func hasTopLevelAssign(stmt string) bool {
	_, _, ok := findAssignOp(stmt)
	return ok
}

// findAssignOp locates the assignment operator in stmt, distinguishing
// plain "=" from a compound "+= -= *= /= %=" and excluding "== != <= >=".
// eqIdx is the index of the arithmetic character for a compound op, or of
// "=" itself for a plain assignment.
func findAssignOp(stmt string) (eqIdx int, compoundOp string, ok bool) {
	runes := []rune(stmt)
	mask := computeMask(runes)
	for i, r := range runes {
		if r != '=' || !mask[i] {
			continue
		}
		if i+1 < len(runes) && runes[i+1] == '=' {
			continue
		}
		if i > 0 {
			switch runes[i-1] {
			case '!', '<', '>':
				continue
			case '+', '-', '*', '/', '%':
				return i - 1, string(runes[i-1]), true
			}
		}
		return i, "", true
	}
	return -1, "", false
}

func isDeclaration(stmt string) bool {
	s := strings.TrimSpace(stmt)
	for _, kw := range typeKeywords {
		if hasKeywordPrefix(s, kw) {
			return true
		}
	}
	return false
}

func isIncDecStatement(stmt string) bool {
	return strings.HasPrefix(stmt, "++") || strings.HasPrefix(stmt, "--") ||
		strings.HasSuffix(stmt, "++") || strings.HasSuffix(stmt, "--")
}

// execDeclaration handles a leading type keyword followed by one or more
// comma-separated declarators.
func (st *execState) execDeclaration(stmt string) error {
	s := strings.TrimSpace(stmt)
	matchedKW := ""
	for _, kw := range typeKeywords {
		if hasKeywordPrefix(s, kw) {
			matchedKW = kw
			break
		}
	}
	var baseKind Kind
	switch matchedKW {
	case "float", "double":
		baseKind = KindFloat
	case "char":
		baseKind = KindChar
	default: // int, long, short
		baseKind = KindInt
	}
	rest := strings.TrimSpace(s[len(matchedKW):])

	for _, declarator := range splitTopLevel(rest, ',') {
		declarator = strings.TrimSpace(declarator)
		if declarator == "" {
			continue
		}
		if err := st.execDeclarator(baseKind, declarator); err != nil {
			return err
		}
	}
	return nil
}

func (st *execState) execDeclarator(baseKind Kind, decl string) error {
	runes := []rune(decl)
	i := 0
	isPointer := false
	for i < len(runes) && (runes[i] == '*' || runes[i] == ' ') {
		if runes[i] == '*' {
			isPointer = true
		}
		i++
	}
	nameStart := i
	for i < len(runes) && isIdentRune(runes[i]) {
		i++
	}
	if i == nameStart {
		return syntaxErrorf("declaration")
	}
	name := string(runes[nameStart:i])
	for i < len(runes) && runes[i] == ' ' {
		i++
	}

	if i < len(runes) && runes[i] == '[' {
		close := findMatching(runes, i, '[', ']')
		if close < 0 {
			return syntaxErrorf("declaration")
		}
		size, err := st.evalNumeric(string(runes[i+1 : close]))
		if err != nil {
			return err
		}
		return st.declareArray(name, baseKind, int(size))
	}

	hasInit := i < len(runes) && runes[i] == '='
	var initVal Value
	if hasInit {
		v, err := st.evalValue(strings.TrimSpace(string(runes[i+1:])))
		if err != nil {
			return err
		}
		initVal = v
	}

	if isPointer {
		if hasInit {
			addr, err := initVal.Numeric()
			if err != nil {
				return err
			}
			st.bindScalar(name, PointerVal(addr))
			return nil
		}
		st.bindScalar(name, NullPointer)
		return nil
	}

	if hasInit {
		coerced, err := coerceToKind(baseKind, initVal)
		if err != nil {
			return err
		}
		st.bindScalar(name, coerced)
		return nil
	}

	def := defaultForKind(baseKind)
	st.bindScalar(name, def)
	// Uninitialized non-pointer scalars are mirrored into memory
	// immediately, not lazily on first &.
	if _, err := st.mem.AddressOf(name, def); err != nil {
		return err
	}
	return nil
}

func (st *execState) declareArray(name string, baseKind Kind, size int) error {
	if size < 0 {
		return syntaxErrorf("array size")
	}
	def := defaultForKind(baseKind)
	items := make([]Value, size)
	for i := range items {
		items[i] = def
	}
	arr := ArrayVal(items)
	st.env.set(name, arr)

	base, err := st.mem.Allocate(arr)
	if err != nil {
		return err
	}
	st.mem.BindAddress(name, base)
	for i := 0; i < size; i++ {
		if err := st.mem.AllocateAt(base+int64(i)*mem.Stride, def); err != nil {
			return err
		}
	}
	return nil
}

func defaultForKind(kind Kind) Value {
	switch kind {
	case KindFloat:
		return FloatVal(0)
	case KindChar:
		return CharVal(0)
	default:
		return IntVal(0)
	}
}

func coerceToKind(kind Kind, v Value) (Value, error) {
	switch kind {
	case KindFloat:
		f, err := v.NumericFloat()
		if err != nil {
			return Value{}, err
		}
		return FloatVal(f), nil
	case KindChar:
		if v.Kind == KindChar {
			return v, nil
		}
		n, err := v.Numeric()
		if err != nil {
			return Value{}, err
		}
		return CharVal(rune(n)), nil
	default: // int, long, short
		if v.Kind == KindString || v.Kind == KindArray {
			return v, nil
		}
		n, err := v.Numeric()
		if err != nil {
			return Value{}, err
		}
		return IntVal(n), nil
	}
}

// bindScalar updates the environment and, if name already has a recorded
// address, mirrors the write into memory too, so reads through either
// path stay in agreement.
func (st *execState) bindScalar(name string, v Value) {
	st.env.set(name, v)
	st.mem.UpdateByName(name, v)
}

// coerceToExisting assigns by the existing variable's type: a plain
// assignment to an already-declared name takes on that name's Kind rather
// than the right-hand side's.
func coerceToExisting(existing, val Value) (Value, error) {
	switch existing.Kind {
	case KindFloat:
		f, err := val.NumericFloat()
		if err != nil {
			return Value{}, err
		}
		return FloatVal(f), nil
	case KindChar:
		if val.Kind == KindChar {
			return val, nil
		}
		n, err := val.Numeric()
		if err != nil {
			return Value{}, err
		}
		return CharVal(rune(n)), nil
	case KindPointer:
		addr, err := val.Numeric()
		if err != nil {
			return Value{}, err
		}
		return PointerVal(addr), nil
	case KindString:
		if val.Kind == KindString {
			return val, nil
		}
		return existing, nil
	case KindBool:
		return BoolVal(val.Truthy()), nil
	case KindArray:
		return val, nil
	default: // int
		n, err := val.Numeric()
		if err != nil {
			return Value{}, err
		}
		return IntVal(n), nil
	}
}

// execAssignment handles the three plain-assignment shapes: through-
// pointer, array-element, and plain variable.
func (st *execState) execAssignment(stmt string, eqIdx int) error {
	lhs := strings.TrimSpace(stmt[:eqIdx])
	rhsExpr := strings.TrimSpace(stmt[eqIdx+1:])

	if strings.HasPrefix(lhs, "*") {
		ptr, err := st.evalValue(strings.TrimSpace(lhs[1:]))
		if err != nil {
			return err
		}
		if ptr.Kind != KindPointer {
			return cannotEvaluate(lhs)
		}
		val, err := st.evalValue(rhsExpr)
		if err != nil {
			return err
		}
		if err := st.mem.Write(ptr.Addr, val); err != nil {
			return translateMemErr(err)
		}
		st.refreshAliasesOf(ptr.Addr, val)
		return nil
	}

	if name, idxExpr, ok := splitIndex(lhs); ok {
		arr, found := st.env.get(name)
		if !found || arr.Kind != KindArray {
			return varNotFound(name)
		}
		idx, err := st.evalNumeric(idxExpr)
		if err != nil {
			return err
		}
		if idx < 0 || int(idx) >= len(arr.Array) {
			return segFault(idx)
		}
		val, err := st.evalValue(rhsExpr)
		if err != nil {
			return err
		}
		arr.Array[idx] = val
		st.env.set(name, arr)
		if base, hasBase := st.mem.AddressOfBase(name); hasBase {
			if err := st.mem.Write(base+idx*mem.Stride, val); err != nil {
				return translateMemErr(err)
			}
		}
		return nil
	}

	if !isIdentifier(lhs) {
		return cannotEvaluate(lhs)
	}
	val, err := st.evalValue(rhsExpr)
	if err != nil {
		return err
	}
	existing, found := st.env.get(lhs)
	stored := val
	if found {
		coerced, cerr := coerceToExisting(existing, val)
		if cerr != nil {
			return cerr
		}
		stored = coerced
	}
	st.bindScalar(lhs, stored)
	return nil
}

// refreshAliasesOf keeps scalars in agreement after a through-pointer
// write: every variable whose recorded address equals addr gets its
// environment entry refreshed too.
func (st *execState) refreshAliasesOf(addr int64, val Value) {
	for name := range st.env.vars {
		if base, ok := st.mem.AddressOfBase(name); ok && base == addr {
			st.env.vars[name] = val
		}
	}
}

// execCompoundAssign handles "lhs op= expr" sugar: numeric-only, always
// stored back as Int.
func (st *execState) execCompoundAssign(stmt string, opIdx int, op string) error {
	lhs := strings.TrimSpace(stmt[:opIdx])
	rhsExpr := strings.TrimSpace(stmt[opIdx+2:])
	if !isIdentifier(lhs) {
		return cannotEvaluate(lhs)
	}
	cur, found := st.env.get(lhs)
	if !found {
		return varNotFound(lhs)
	}
	curN, err := cur.Numeric()
	if err != nil {
		return err
	}
	rhsN, err := st.evalNumeric(rhsExpr)
	if err != nil {
		return err
	}

	var result int64
	switch op {
	case "+":
		result = curN + rhsN
	case "-":
		result = curN - rhsN
	case "*":
		result = curN * rhsN
	case "/":
		if rhsN == 0 {
			return ErrDivByZero
		}
		result = curN / rhsN
	case "%":
		if rhsN == 0 {
			return ErrDivByZero
		}
		result = curN % rhsN
	default:
		return syntaxErrorf("compound assignment")
	}
	st.bindScalar(lhs, IntVal(result))
	return nil
}

// execIncDec applies an increment/decrement-by-one, blind to pre/post
// position, preserving the variable's numeric type.
func (st *execState) execIncDec(stmt string) error {
	var name string
	var delta int64
	switch {
	case strings.HasPrefix(stmt, "++"):
		name, delta = strings.TrimSpace(stmt[2:]), 1
	case strings.HasPrefix(stmt, "--"):
		name, delta = strings.TrimSpace(stmt[2:]), -1
	case strings.HasSuffix(stmt, "++"):
		name, delta = strings.TrimSpace(stmt[:len(stmt)-2]), 1
	case strings.HasSuffix(stmt, "--"):
		name, delta = strings.TrimSpace(stmt[:len(stmt)-2]), -1
	default:
		return syntaxErrorf("statement")
	}
	v, ok := st.env.get(name)
	if !ok {
		return varNotFound(name)
	}
	var updated Value
	if v.Kind == KindFloat {
		updated = FloatVal(v.Float + float64(delta))
	} else {
		n, err := v.Numeric()
		if err != nil {
			return err
		}
		updated = IntVal(n + delta)
	}
	st.bindScalar(name, updated)
	return nil
}

func (st *execState) execPrintf(argsText string) error {
	parts := splitTopLevel(argsText, ',')
	if len(parts) == 0 {
		return syntaxErrorf("printf")
	}
	formatRaw := strings.TrimSpace(parts[0])
	if len(formatRaw) < 2 || formatRaw[0] != '"' || formatRaw[len(formatRaw)-1] != '"' {
		return syntaxErrorf("printf")
	}
	format := applyEscapes(formatRaw[1 : len(formatRaw)-1])

	var args []Value
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := st.evalValue(p)
		if err != nil {
			return err
		}
		args = append(args, v)
	}
	out, err := formatPrintf(format, args)
	if err != nil {
		return err
	}
	st.out.WriteString(out)
	return nil
}

func (st *execState) execPuts(argsText string) error {
	v, err := st.evalValue(strings.TrimSpace(argsText))
	if err != nil {
		return err
	}
	st.out.WriteString(v.Format())
	st.out.WriteByte('\n')
	return nil
}

var stringCallNames = []string{"strlen", "strcpy", "strcat", "strcmp"}
var mathCallNames = []string{"sqrt", "pow", "fabs", "abs", "ceil", "floor", "exp", "log", "sin", "cos", "tan"}

// execLibraryCallStatement handles string, math, and rand/srand library
// calls when the statement is a bare call with no assignment
// target; an assignment-shaped statement ("int n = strlen(s);") is left
// for the declaration/assignment rules, whose expression evaluation
// already supports these calls as primaries (see evalBuiltinCall).
func (st *execState) execLibraryCallStatement(stmt string) (bool, error) {
	if hasTopLevelAssign(stmt) {
		return false, nil
	}
	if args, ok := extractCallArgs(stmt, "strcpy"); ok {
		return true, st.execStrcpy(args)
	}
	if args, ok := extractCallArgs(stmt, "strcat"); ok {
		return true, st.execStrcat(args)
	}
	for _, name := range stringCallNames {
		if args, ok := extractCallArgs(stmt, name); ok {
			_, _, err := st.evalBuiltinCall(name, args)
			return true, err
		}
	}
	for _, name := range mathCallNames {
		if args, ok := extractCallArgs(stmt, name); ok {
			_, _, err := st.evalBuiltinCall(name, args)
			return true, err
		}
	}
	if hasCall(stmt, "srand") {
		return true, nil
	}
	if args, ok := extractCallArgs(stmt, "rand"); ok {
		_, _, err := st.evalBuiltinCall("rand", args)
		return true, err
	}
	return false, nil
}

func (st *execState) execStrcpy(argsText string) error {
	args := splitTopLevel(argsText, ',')
	if len(args) != 2 {
		return syntaxErrorf("strcpy")
	}
	dest := strings.TrimSpace(args[0])
	src, err := st.evalValue(strings.TrimSpace(args[1]))
	if err != nil {
		return err
	}
	if !isIdentifier(dest) {
		return cannotEvaluate(dest)
	}
	st.bindScalar(dest, StringVal(src.Format()))
	return nil
}

func (st *execState) execStrcat(argsText string) error {
	args := splitTopLevel(argsText, ',')
	if len(args) != 2 {
		return syntaxErrorf("strcat")
	}
	dest := strings.TrimSpace(args[0])
	if !isIdentifier(dest) {
		return cannotEvaluate(dest)
	}
	cur, ok := st.env.get(dest)
	if !ok {
		return varNotFound(dest)
	}
	src, err := st.evalValue(strings.TrimSpace(args[1]))
	if err != nil {
		return err
	}
	st.bindScalar(dest, StringVal(cur.Format()+src.Format()))
	return nil
}

// evalBuiltinCall computes the value-producing library calls that may
// appear as a primary expression: string inspection, math, and rand.
// strcpy/strcat are statement-only (see execLibraryCallStatement) since
// their entire purpose is the mutation, not a return value.
func (st *execState) evalBuiltinCall(name, argsText string) (Value, bool, error) {
	args := splitTopLevel(argsText, ',')
	if len(args) == 1 && strings.TrimSpace(args[0]) == "" {
		args = nil
	}
	arg := func(i int) (Value, error) {
		if i >= len(args) {
			return Value{}, syntaxErrorf(name)
		}
		return st.evalValue(strings.TrimSpace(args[i]))
	}
	argf := func(i int) (float64, error) {
		v, err := arg(i)
		if err != nil {
			return 0, err
		}
		return v.NumericFloat()
	}

	switch name {
	case "strlen":
		v, err := arg(0)
		if err != nil {
			return Value{}, true, err
		}
		return IntVal(int64(len(v.Format()))), true, nil
	case "strcmp":
		// Declared but a no-op: never yields a meaningful comparison result.
		return IntVal(0), true, nil
	case "sqrt":
		f, err := argf(0)
		if err != nil {
			return Value{}, true, err
		}
		return FloatVal(math.Sqrt(f)), true, nil
	case "pow":
		base, err := argf(0)
		if err != nil {
			return Value{}, true, err
		}
		exp, err := argf(1)
		if err != nil {
			return Value{}, true, err
		}
		return FloatVal(math.Pow(base, exp)), true, nil
	case "fabs":
		f, err := argf(0)
		if err != nil {
			return Value{}, true, err
		}
		return FloatVal(math.Abs(f)), true, nil
	case "abs":
		v, err := arg(0)
		if err != nil {
			return Value{}, true, err
		}
		n, err := v.Numeric()
		if err != nil {
			return Value{}, true, err
		}
		if n < 0 {
			n = -n
		}
		return IntVal(n), true, nil
	case "ceil":
		f, err := argf(0)
		if err != nil {
			return Value{}, true, err
		}
		return FloatVal(math.Ceil(f)), true, nil
	case "floor":
		f, err := argf(0)
		if err != nil {
			return Value{}, true, err
		}
		return FloatVal(math.Floor(f)), true, nil
	case "exp":
		f, err := argf(0)
		if err != nil {
			return Value{}, true, err
		}
		return FloatVal(math.Exp(f)), true, nil
	case "log":
		f, err := argf(0)
		if err != nil {
			return Value{}, true, err
		}
		return FloatVal(math.Log(f)), true, nil
	case "sin":
		f, err := argf(0)
		if err != nil {
			return Value{}, true, err
		}
		return FloatVal(math.Sin(f)), true, nil
	case "cos":
		f, err := argf(0)
		if err != nil {
			return Value{}, true, err
		}
		return FloatVal(math.Cos(f)), true, nil
	case "tan":
		f, err := argf(0)
		if err != nil {
			return Value{}, true, err
		}
		return FloatVal(math.Tan(f)), true, nil
	case "rand":
		return IntVal(st.nextRand()), true, nil
	case "srand":
		return IntVal(0), true, nil
	}
	return Value{}, false, nil
}

// nextRand produces a deterministic pseudo-random value hashed from the
// current output length and the configured seed, so identical programs
// with the same seed reproduce identical sequences.
func (st *execState) nextRand() int64 {
	n := int64(st.out.Len())
	h := (n*2654435761 + st.in.randSeed) % 32768
	if h < 0 {
		h += 32768
	}
	return h
}
