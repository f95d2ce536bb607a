package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			require.NoError(t, Initialize(level, false))
			assert.NotNil(t, GetLogger())
		})
	}
}

func TestInitializeJSON(t *testing.T) {
	require.NoError(t, Initialize("info", true))
	assert.NotNil(t, GetLogger())
}

func TestInitializeInvalidLevel(t *testing.T) {
	assert.Error(t, Initialize("loud", false))
}

func TestHelpersAreNilSafe(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	assert.NotPanics(t, func() {
		Debug("debug")
		Info("info")
		Warn("warn")
		Error("error")
		Sync()
	})
}
