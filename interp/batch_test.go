package interp_test

import (
	"context"
	"testing"

	"cinterp/interp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretAllRunsIndependently(t *testing.T) {
	sources := []string{
		`int main(){ printf("a"); return 0; }`,
		`int main(){ printf("b"); return 0; }`,
		`int add(int a, int b){ return a+b; }`, // no main: this one should fail
	}

	results, err := interp.InterpretAll(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].OK)
	assert.Equal(t, "a", results[0].Output)

	assert.True(t, results[1].OK)
	assert.Equal(t, "b", results[1].Output)

	assert.False(t, results[2].OK)
	assert.Contains(t, results[2].Error, "No main function found")
}

func TestInterpretAllHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sources := []string{`int main(){ printf("a"); return 0; }`}
	_, err := interp.InterpretAll(ctx, sources)
	assert.Error(t, err)
}

func TestInterpretAllEmptyInput(t *testing.T) {
	results, err := interp.InterpretAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
