package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("OMDB_API_KEY", "")

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.Metadata.TMDB.BaseURL)
	assert.Equal(t, "http://www.omdbapi.com", cfg.Metadata.OMDB.BaseURL)
	assert.Equal(t, 10, cfg.Metadata.TMDB.Timeout)
	assert.Equal(t, "*", cfg.CORS.Origin)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Database.MirrorEnabled)
}

func TestLoad_EnvAliases(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "tmdb-key")
	t.Setenv("OMDB_API_KEY", "omdb-key")
	t.Setenv("PORT", "8081")
	t.Setenv("CORS_ORIGIN", "http://localhost:3000")
	t.Setenv("LOG_LEVEL", "debug")

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "tmdb-key", cfg.Metadata.TMDB.APIKey)
	assert.Equal(t, "omdb-key", cfg.Metadata.OMDB.APIKey)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "http://localhost:3000", cfg.CORS.Origin)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  port: 9090\n  environment: test\nmetadata:\n  tmdb:\n    timeout: 3\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, EnvTest, cfg.Server.Environment)
	assert.Equal(t, 3, cfg.Metadata.TMDB.Timeout)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.Metadata.TMDB.BaseURL)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "development without key is allowed",
			mutate: func(c *Config) { c.Metadata.TMDB.APIKey = "" },
		},
		{
			name: "production without key fails",
			mutate: func(c *Config) {
				c.Metadata.TMDB.APIKey = ""
				c.Server.Environment = EnvProduction
			},
			wantErr: ErrTMDBKeyRequired,
		},
		{
			name: "production with key passes",
			mutate: func(c *Config) {
				c.Metadata.TMDB.APIKey = "abc"
				c.Server.Environment = EnvProduction
			},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: ErrInvalidPort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestConfig_Warnings(t *testing.T) {
	cfg := Default()
	cfg.Metadata.TMDB.APIKey = ""
	cfg.Metadata.OMDB.APIKey = ""
	assert.Len(t, cfg.Warnings(), 2)

	cfg.Metadata.TMDB.APIKey = "k"
	cfg.Metadata.OMDB.APIKey = "k"
	assert.Empty(t, cfg.Warnings())
}

func TestServerConfig_Address(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 5000}
	assert.Equal(t, "127.0.0.1:5000", s.Address())
}
