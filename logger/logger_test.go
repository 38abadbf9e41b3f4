package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultLoggerIsUsable(t *testing.T) {
	// The package-level logger must never be nil, even before Initialize.
	require.NotNil(t, Logger)
	assert.NotPanics(t, func() {
		Info("message before initialize")
		Debugw("structured", "key", "value")
	})
}

func TestInitializeConsole(t *testing.T) {
	err := Initialize(false)
	require.NoError(t, err)
	assert.False(t, JSONOutput)
	assert.NotNil(t, Logger)
}

func TestInitializeJSON(t *testing.T) {
	err := Initialize(true)
	require.NoError(t, err)
	assert.True(t, JSONOutput)
	assert.NotNil(t, Logger)
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, Initialize(false))
	require.NoError(t, SetLevel(zapcore.DebugLevel))
	assert.NotPanics(t, func() {
		Debugf("debug after level change: %d", 1)
	})
}

func TestHelpersDoNotPanic(t *testing.T) {
	require.NoError(t, Initialize(true))
	assert.NotPanics(t, func() {
		Info("a")
		Infof("%s", "b")
		Infow("c", "k", "v")
		Warn("a")
		Warnf("%s", "b")
		Warnw("c", "k", "v")
		Error("a")
		Errorf("%s", "b")
		Errorw("c", "k", "v")
		Debug("a")
		Debugf("%s", "b")
		Debugw("c", "k", "v")
		Cleanup()
	})
}
