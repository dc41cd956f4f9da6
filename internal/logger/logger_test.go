package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNew_JSONComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.WithComponent("tmdb").Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, `"component":"tmdb"`)
	assert.Contains(t, out, `"message":"hello"`)
}

func TestNew_WritesLogFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Path: dir, Output: &buf})

	log.Info().Msg("to disk")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to disk")
}

