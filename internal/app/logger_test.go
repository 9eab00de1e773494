package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerNamesComponents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewZapLoggerFrom(zap.New(core))

	logger.Infof("web", "listening on %s", ":8080")
	logger.Errorf("carview", "load failed: %v", "boom")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "web", entries[0].LoggerName)
	assert.Equal(t, "listening on :8080", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "carview", entries[1].LoggerName)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestNewZapLoggerRejectsBadLevel(t *testing.T) {
	_, err := NewZapLogger(LogOptions{Level: "loud"})
	assert.Error(t, err)

	logger, err := NewZapLogger(LogOptions{Level: "warn", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	logger.Infof("test", "suppressed")
}
