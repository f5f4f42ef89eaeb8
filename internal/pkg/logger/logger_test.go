package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aurabox/internal/config"
)

func TestInitFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "aurabox.log")
	require.NoError(t, Init(&config.LogConfig{Level: "debug", Format: "json", Output: "file", FilePath: path}))
	defer func() { log.Logger = zerolog.Nop() }()

	l := Component("widget")
	l.Info().Msg("mounted")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"widget"`)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitInvalidLevel(t *testing.T) {
	require.NoError(t, Init(&config.LogConfig{Level: "loud", Output: "stderr"}))
	defer func() { log.Logger = zerolog.Nop() }()
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
