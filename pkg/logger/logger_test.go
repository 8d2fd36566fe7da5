package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, DEBUG, ParseLevel("debug"))
	require.Equal(t, WARNING, ParseLevel("warn"))
	require.Equal(t, ERROR, ParseLevel("error"))
	require.Equal(t, SILENCE, ParseLevel("none"))
	require.Equal(t, INFO, ParseLevel(""))
}

func TestToZapLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, toZapLevel(DEBUG))
	require.Equal(t, zapcore.WarnLevel, toZapLevel(WARNING))
	require.Equal(t, zapcore.ErrorLevel, toZapLevel(ERROR))
}

func TestNopLogger(t *testing.T) {
	l := NewLogger(SILENCE)
	require.NotPanics(t, func() {
		l.Infof("hello %s", "world")
		l.With("key", "value").Errorf("failed")
	})
}
