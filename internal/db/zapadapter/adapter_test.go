package zapadapter

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLogger(zap.New(core))

	ctx := NewContextWithID(context.Background(), "req-42")
	l.Log(ctx, tracelog.LogLevelWarn, "Query", map[string]any{"sql": "select 1"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "req-42", entry.ContextMap()["request_id"])
	assert.Equal(t, "select 1", entry.ContextMap()["sql"])
}

func TestLogLevelMapping(t *testing.T) {
	tcases := []struct {
		in   tracelog.LogLevel
		want zapcore.Level
	}{
		{tracelog.LogLevelTrace, zapcore.DebugLevel},
		{tracelog.LogLevelDebug, zapcore.DebugLevel},
		{tracelog.LogLevelInfo, zapcore.InfoLevel},
		{tracelog.LogLevelWarn, zapcore.WarnLevel},
		{tracelog.LogLevelError, zapcore.ErrorLevel},
	}

	for _, tc := range tcases {
		t.Run(tc.in.String(), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			NewLogger(zap.New(core)).Log(context.Background(), tc.in, "msg", nil)
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tc.want, logs.All()[0].Level)
			_, hasID := logs.All()[0].ContextMap()["request_id"]
			assert.False(t, hasID)
		})
	}
}
