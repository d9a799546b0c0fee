package observ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		env, level string
		want       zapcore.Level
	}{
		{"production", "warn", zapcore.WarnLevel},
		{"development", "debug", zapcore.DebugLevel},
		{"development", "chatty", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		logger, err := NewLogger(tt.env, tt.level, "")
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(tt.want), "%s/%s", tt.env, tt.level)
		assert.False(t, logger.Core().Enabled(tt.want-1), "%s/%s", tt.env, tt.level)
	}
}

func TestNewLoggerFormatOverride(t *testing.T) {
	logger, err := NewLogger("development", "info", "json")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
