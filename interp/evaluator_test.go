package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState() *execState {
	return newExecState(New())
}

func TestEvalValuePrecedence(t *testing.T) {
	st := newTestState()

	v, err := st.evalValue("(2+3)*4")
	require.NoError(t, err)
	assert.Equal(t, int64(20), v.Int)

	v, err = st.evalValue("10-3-2")
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.Int, "left-associative subtraction")

	v, err = st.evalValue("1 ? 2 : 3")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int)

	v, err = st.evalValue("0 ? 2 : 3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Int)
}

func TestEvalValuePrecedencePlusTimes(t *testing.T) {
	st := newTestState()
	v, err := st.evalValue("2+3*4")
	require.NoError(t, err)
	assert.Equal(t, int64(14), v.Int)
}

func TestEvalValueScientificNotationTieBreak(t *testing.T) {
	st := newTestState()
	v, err := st.evalValue("1e-5")
	require.NoError(t, err)
	assert.Equal(t, 1e-5, v.Float)
}

func TestEvalValueUnaryMinusAfterOperator(t *testing.T) {
	st := newTestState()
	v, err := st.evalValue("3*-5")
	require.NoError(t, err)
	assert.Equal(t, int64(-15), v.Int)
}

func TestEvalValueBitwise(t *testing.T) {
	st := newTestState()

	v, err := st.evalValue("6&3")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int)

	v, err = st.evalValue("6|1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Int)

	v, err = st.evalValue("5^1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), v.Int)

	v, err = st.evalValue("1<<3")
	require.NoError(t, err)
	assert.Equal(t, int64(8), v.Int)

	v, err = st.evalValue("~0")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v.Int)
}

func TestEvalConditionShortCircuit(t *testing.T) {
	st := newTestState()

	cond, err := st.evalCondition("1 || (1/0)")
	require.NoError(t, err, "right side of || must not be evaluated once left is true")
	assert.True(t, cond)

	cond, err = st.evalCondition("0 && (1/0)")
	require.NoError(t, err, "right side of && must not be evaluated once left is false")
	assert.False(t, cond)

	cond, err = st.evalCondition("!0")
	require.NoError(t, err)
	assert.True(t, cond)
}

func TestEvalDivisionByZero(t *testing.T) {
	st := newTestState()
	_, err := st.evalValue("1/0")
	assert.ErrorIs(t, err, ErrDivByZero)
}

func TestEvalIdentifierNotFound(t *testing.T) {
	st := newTestState()
	_, err := st.evalValue("undeclared_name")
	assert.ErrorIs(t, err, ErrCannotEvaluate)
}

func TestEvalAddressOfAndDereference(t *testing.T) {
	st := newTestState()
	st.env.set("x", IntVal(7))

	addr, err := st.evalValue("&x")
	require.NoError(t, err)
	require.Equal(t, KindPointer, addr.Kind)

	st.env.set("p", addr)
	v, err := st.evalValue("*p")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Int)
}

func TestEvalDereferenceSegFault(t *testing.T) {
	st := newTestState()
	st.env.set("p", PointerVal(0xdead))
	_, err := st.evalValue("*p")
	assert.ErrorIs(t, err, ErrSegFault)
}

func TestEvalAddressOfAndDereferenceInsideLargerExpression(t *testing.T) {
	st := newTestState()
	st.env.set("x", IntVal(7))

	v, err := st.evalValue("*(&x) + 1")
	require.NoError(t, err)
	assert.Equal(t, int64(8), v.Int)
}

func TestEvalBitwiseAndStillBinaryBetweenOperands(t *testing.T) {
	st := newTestState()
	v, err := st.evalValue("6 & 3")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int)
}

func TestEvalBuiltinCallsAsPrimary(t *testing.T) {
	st := newTestState()
	st.env.set("s", StringVal("hello"))

	v, err := st.evalValue("strlen(s)")
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.Int)

	v, err = st.evalValue("sqrt(16)")
	require.NoError(t, err)
	assert.Equal(t, 4.0, v.Float)

	v, err = st.evalValue("abs(-5)")
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.Int)
}
