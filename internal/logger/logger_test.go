package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(zap.NewNop()) })

	Debug("debug msg", nil)
	Info("session resolved", map[string]any{"user_id": "u1"})
	Warn("store unavailable", map[string]any{"error": "dial tcp"})
	Error("callback failed", nil)

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "session resolved", entries[1].Message)
	assert.Equal(t, "u1", entries[1].ContextMap()["user_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestInitFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init("not-a-level"))
	t.Cleanup(func() { Set(zap.NewNop()) })

	assert.False(t, L().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, L().Core().Enabled(zapcore.InfoLevel))
}
