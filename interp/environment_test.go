package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentGetSet(t *testing.T) {
	e := newEnvironment()
	_, ok := e.get("x")
	assert.False(t, ok)

	e.set("x", IntVal(5))
	v, ok := e.get("x")
	assert.True(t, ok)
	assert.Equal(t, int64(5), v.Int)
}

func TestEnvironmentFlatScopeSurvivesAcrossBlocks(t *testing.T) {
	// There is exactly one flat scope for the whole program: a variable
	// declared in one block remains visible after.
	st := newExecState(New())
	assert.NoError(t, st.execBlock("for(int i=0;i<1;i++){ int loop_local = 2; }"))
	v, ok := st.env.get("loop_local")
	assert.True(t, ok)
	assert.Equal(t, int64(2), v.Int)
}
