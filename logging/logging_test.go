package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/juros-engine/config"
	"github.com/warp/juros-engine/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := logging.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := logging.ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_OverrideWins(t *testing.T) {
	logger, err := logging.New(config.LoggingConfig{Level: "error", Format: "console"}, "debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(config.LoggingConfig{Format: "xml"}, "")
	assert.ErrorContains(t, err, "invalid log format")
}

func TestNew_WritesToOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "juros.log")

	logger, err := logging.New(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	require.NoError(t, err)

	logger.Info("coefficient lookup", zap.String("op", "test"), zap.Int("year", 1974))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"coefficient lookup"`)
	assert.Contains(t, string(data), `"year":1974`)
}
