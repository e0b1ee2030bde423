package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("level", func(t *testing.T) {
		log, err := New(Config{Level: "DEBUG", Encoding: "console"})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		log, err := New(Config{Level: "loud"})
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("writes json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(Config{Level: "info", Encoding: "xml", OutputPath: path})
		require.NoError(t, err)

		log.Info("story generated")
		require.NoError(t, log.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"story generated"`)
		assert.Contains(t, string(data), `"level":"INFO"`)
	})
}
