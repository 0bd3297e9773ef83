package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrintfSpecifiers(t *testing.T) {
	// Specifiers are filled in the fixed printfSpecifiers order (%c before
	// %s), not left to right, so the arguments follow that order.
	out, err := formatPrintf("%d-%s-%c", []Value{IntVal(5), CharVal('Q'), StringVal("x")})
	require.NoError(t, err)
	assert.Equal(t, "5-x-Q", out)
}

func TestFormatPrintfHexAndOctal(t *testing.T) {
	out, err := formatPrintf("0x%x", []Value{IntVal(255)})
	require.NoError(t, err)
	assert.Equal(t, "0xff", out)

	out, err = formatPrintf("%x", []Value{IntVal(255)})
	require.NoError(t, err)
	assert.Equal(t, "ff", out, "%x renders bare hex, no 0x prefix of its own")

	out, err = formatPrintf("%o", []Value{IntVal(8)})
	require.NoError(t, err)
	assert.Equal(t, "10", out)
}

func TestFormatPrintfPointer(t *testing.T) {
	out, err := formatPrintf("%p", []Value{PointerVal(0x1000)})
	require.NoError(t, err)
	assert.Equal(t, "0x1000", out)

	out, err = formatPrintf("%d", []Value{PointerVal(0x1000)})
	require.NoError(t, err)
	assert.Equal(t, "0x1000", out, "pointer values render as 0x<hex> for every specifier except %x/%o")

	out, err = formatPrintf("%x", []Value{PointerVal(0x1000)})
	require.NoError(t, err)
	assert.Equal(t, "1000", out)
}

func TestFormatPrintfStopsWhenArgsExhausted(t *testing.T) {
	out, err := formatPrintf("%d %d", []Value{IntVal(1)})
	require.NoError(t, err)
	assert.Equal(t, "1 %d", out, "a specifier with no remaining argument is left untouched")
}

func TestFormatPrintfNoSpecifiersIsIdentity(t *testing.T) {
	out, err := formatPrintf("plain text, no specifiers", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text, no specifiers", out)
}
