package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"panic": zapcore.PanicLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestFromContextFallsBackToGlobal covers the helpers around context storage.
func TestFromContextFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	require.Same(t, Logger(), FromContext(ctx))

	scoped := zap.NewNop().Sugar()
	ctx = ToContext(ctx, scoped)
	require.Same(t, scoped, FromContext(ctx))

	// WithName and WithKV derive new loggers instead of mutating.
	named := WithName(ctx, "component")
	require.NotSame(t, scoped, FromContext(named))

	tagged := WithKV(ctx, "key", "value")
	require.NotSame(t, scoped, FromContext(tagged))
}
