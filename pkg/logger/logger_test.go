package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"adaptive_edu_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		name  string
		mode  string
		level string
		want  zapcore.Level
	}{
		{"debug mode default", "debug", "", zapcore.DebugLevel},
		{"release mode default", "release", "", zapcore.InfoLevel},
		{"explicit level wins", "debug", "warn", zapcore.WarnLevel},
		{"unparsable falls back to mode", "release", "loud", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{Server: config.ServerConfig{Mode: tc.mode}, Log: config.LogConfig{Level: tc.level}}
			assert.Equal(t, tc.want, ResolveLevel(cfg))
		})
	}
}

func TestNewCore_WritesToConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var console bytes.Buffer
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{File: path, MaxSizeMB: 1, Console: true},
	}

	log := zap.New(NewCore(cfg, zapcore.AddSync(&console)))
	log.Debug("hidden")
	log.Info("recommendation served")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"recommendation served"`)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, console.String(), "recommendation served")
}

func TestNewCore_NoOutputsIsNop(t *testing.T) {
	cfg := &config.Config{Log: config.LogConfig{}}

	core := NewCore(cfg, nil)

	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}
