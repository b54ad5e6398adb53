package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewDefaultsToInfoLevel(t *testing.T) {
	log, err := New(false)
	require.NoError(t, err)
	defer log.Sync()

	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestNewDebugEnablesDebugLevel(t *testing.T) {
	log, err := New(true)
	require.NoError(t, err)
	defer log.Sync()

	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestForCameraTagsNcam(t *testing.T) {
	base, err := New(false)
	require.NoError(t, err)
	defer base.Sync()

	child := ForCamera(base, 3)
	assert.NotNil(t, child)
}
