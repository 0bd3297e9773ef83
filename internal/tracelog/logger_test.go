package tracelog_test

import (
	"bytes"
	"testing"

	"cinterp/internal/tracelog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func newBufLogger() (*tracelog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := &tracelog.Logger{}
	log.SetOutput(nopCloser{&buf})
	return log, &buf
}

func TestPrintfFormatsLeveledLine(t *testing.T) {
	log, buf := newBufLogger()
	log.Printf("TRACE", "stmt %s", "x=1")
	assert.Equal(t, "TRACE: stmt x=1\n", buf.String())
}

func TestLeveledfClosesOverLevel(t *testing.T) {
	log, buf := newBufLogger()
	trace := log.Leveledf("TRACE")
	trace("main body %d bytes", 12)
	assert.Equal(t, "TRACE: main body 12 bytes\n", buf.String())
}

func TestErrorfSetsExitCode(t *testing.T) {
	log, buf := newBufLogger()
	require.Equal(t, 0, log.ExitCode())
	log.Errorf("boom")
	assert.Equal(t, 1, log.ExitCode())
	assert.Contains(t, buf.String(), "ERROR: boom")
}

func TestErrorIfIgnoresNil(t *testing.T) {
	log, buf := newBufLogger()
	log.ErrorIf(nil)
	assert.Equal(t, 0, log.ExitCode())
	assert.Empty(t, buf.String())
}
