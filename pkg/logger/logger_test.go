package logger

import (
	"bytes"
	"codementor_backend/internal/config"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		mode  string
		want  zapcore.Level
	}{
		{"debug mode default", "", "debug", zap.DebugLevel},
		{"release mode default", "", "release", zap.InfoLevel},
		{"explicit level wins", "warn", "debug", zap.WarnLevel},
		{"unknown level", "loud", "release", zap.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveLevel(tt.level, tt.mode))
		})
	}
}

func TestNew_WritesConsoleAndJSONFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	var console bytes.Buffer

	log := New(config.LogConfig{Level: "info", File: file, MaxSizeMB: 1}, "debug", &console)
	log.Debug("hidden")
	log.Info("guidance generated", zap.Uint("user_id", 7))
	require.NoError(t, log.Sync())

	assert.Contains(t, console.String(), "guidance generated")
	assert.NotContains(t, console.String(), "hidden")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "codementor", entry["logger"])
	assert.Equal(t, "guidance generated", entry["msg"])
	assert.EqualValues(t, 7, entry["user_id"])
}

func TestNew_ConsoleOnlyWithoutFile(t *testing.T) {
	var console bytes.Buffer
	log := New(config.LogConfig{}, "release", &console)
	log.Debug("hidden")
	log.Warn("redis disabled")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "redis disabled")
}
