package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"identity-api/config"
)

func TestNewCore_JSONLevel(t *testing.T) {
	var buf bytes.Buffer
	l := zap.New(newCore(config.Log{Level: "warn", JSON: true}, zapcore.AddSync(&buf)))

	l.Info("dropped")
	l.Warn("kept", zap.String("user_id", "42"))
	require.NoError(t, l.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "42", entry["user_id"])
	assert.Contains(t, entry, "ts")
}

func TestNewCore_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := zap.New(newCore(config.Log{Level: "loud", JSON: true}, zapcore.AddSync(&buf)))

	l.Debug("dropped")
	l.Info("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewCore_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identityapi.log")
	var buf bytes.Buffer
	l := zap.New(newCore(config.Log{Level: "info", JSON: true, File: path}, zapcore.AddSync(&buf)))

	l.Info("rotated")
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "rotated")
	assert.Contains(t, buf.String(), "rotated")
}
