package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Version is the API version reported by the health and banner endpoints.
const Version = "1.0.0"

// Runtime environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

var (
	ErrTMDBKeyRequired = errors.New("TMDB_API_KEY is required")
	ErrInvalidPort     = errors.New("PORT must be between 1 and 65535")
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Metadata  MetadataConfig  `mapstructure:"metadata"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	API       APIConfig       `mapstructure:"api"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// MetadataConfig groups the upstream provider settings.
type MetadataConfig struct {
	TMDB TMDBConfig `mapstructure:"tmdb"`
	OMDB OMDBConfig `mapstructure:"omdb"`
}

// TMDBConfig holds primary provider settings. Timeout is in seconds.
type TMDBConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	Language     string `mapstructure:"language"`
	Timeout      int    `mapstructure:"timeout"`
}

// OMDBConfig holds secondary ratings provider settings. Timeout is in seconds.
type OMDBConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

// CORSConfig holds the cross-origin policy.
type CORSConfig struct {
	Origin      string `mapstructure:"origin"`
	Credentials bool   `mapstructure:"credentials"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// DatabaseConfig holds the mirror table configuration.
type DatabaseConfig struct {
	MirrorEnabled bool   `mapstructure:"mirror_enabled"`
	Path          string `mapstructure:"path"`
}

// APIConfig holds request limits. The rate limit values are reported but not enforced.
type APIConfig struct {
	RateLimitWindowMS int `mapstructure:"rate_limit_window_ms"`
	RateLimitMax      int `mapstructure:"rate_limit_max"`
	TimeoutMS         int `mapstructure:"timeout_ms"`
}

// SchedulerConfig holds background task configuration.
type SchedulerConfig struct {
	MirrorWarmCron string `mapstructure:"mirror_warm_cron"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        5000,
			Environment: EnvDevelopment,
		},
		Metadata: MetadataConfig{
			TMDB: TMDBConfig{
				APIKey:       EmbeddedTMDBKey,
				BaseURL:      "https://api.themoviedb.org/3",
				ImageBaseURL: "https://image.tmdb.org/t/p",
				Language:     "en-US",
				Timeout:      10,
			},
			OMDB: OMDBConfig{
				APIKey:  EmbeddedOMDBKey,
				BaseURL: "http://www.omdbapi.com",
				Timeout: 10,
			},
		},
		CORS: CORSConfig{
			Origin: "*",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Database: DatabaseConfig{
			MirrorEnabled: true,
			Path:          "./data/moviestack.db",
		},
		API: APIConfig{
			RateLimitWindowMS: 15 * 60 * 1000,
			RateLimitMax:      100,
			TimeoutMS:         30000,
		},
		Scheduler: SchedulerConfig{
			MirrorWarmCron: "0 */6 * * *",
		},
	}
}

// Load reads configuration from .env, the config file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.moviestack")
	}

	v.SetEnvPrefix("MOVIESTACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnvAliases(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults mirrors Default() into viper so env-only keys unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.environment", d.Server.Environment)

	v.SetDefault("metadata.tmdb.api_key", d.Metadata.TMDB.APIKey)
	v.SetDefault("metadata.tmdb.base_url", d.Metadata.TMDB.BaseURL)
	v.SetDefault("metadata.tmdb.image_base_url", d.Metadata.TMDB.ImageBaseURL)
	v.SetDefault("metadata.tmdb.language", d.Metadata.TMDB.Language)
	v.SetDefault("metadata.tmdb.timeout", d.Metadata.TMDB.Timeout)
	v.SetDefault("metadata.omdb.api_key", d.Metadata.OMDB.APIKey)
	v.SetDefault("metadata.omdb.base_url", d.Metadata.OMDB.BaseURL)
	v.SetDefault("metadata.omdb.timeout", d.Metadata.OMDB.Timeout)

	v.SetDefault("cors.origin", d.CORS.Origin)
	v.SetDefault("cors.credentials", d.CORS.Credentials)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", d.Logging.Path)
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("database.mirror_enabled", d.Database.MirrorEnabled)
	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("api.rate_limit_window_ms", d.API.RateLimitWindowMS)
	v.SetDefault("api.rate_limit_max", d.API.RateLimitMax)
	v.SetDefault("api.timeout_ms", d.API.TimeoutMS)

	v.SetDefault("scheduler.mirror_warm_cron", d.Scheduler.MirrorWarmCron)
}

// bindEnvAliases binds the conventional unprefixed variable names used by
// existing deployments (TMDB_API_KEY, PORT, ...) alongside the prefixed ones.
func bindEnvAliases(v *viper.Viper) error {
	aliases := map[string][]string{
		"server.host":                  {"MOVIESTACK_SERVER_HOST", "HOST"},
		"server.port":                  {"MOVIESTACK_SERVER_PORT", "PORT"},
		"server.environment":           {"MOVIESTACK_SERVER_ENVIRONMENT", "MOVIESTACK_ENVIRONMENT", "NODE_ENV"},
		"metadata.tmdb.api_key":        {"MOVIESTACK_METADATA_TMDB_API_KEY", "TMDB_API_KEY"},
		"metadata.tmdb.base_url":       {"MOVIESTACK_METADATA_TMDB_BASE_URL", "TMDB_BASE_URL"},
		"metadata.tmdb.image_base_url": {"MOVIESTACK_METADATA_TMDB_IMAGE_BASE_URL", "TMDB_IMAGE_BASE_URL"},
		"metadata.omdb.api_key":        {"MOVIESTACK_METADATA_OMDB_API_KEY", "OMDB_API_KEY"},
		"metadata.omdb.base_url":       {"MOVIESTACK_METADATA_OMDB_BASE_URL", "OMDB_BASE_URL"},
		"cors.origin":                  {"MOVIESTACK_CORS_ORIGIN", "CORS_ORIGIN"},
		"cors.credentials":             {"MOVIESTACK_CORS_CREDENTIALS", "CORS_CREDENTIALS"},
		"logging.level":                {"MOVIESTACK_LOGGING_LEVEL", "LOG_LEVEL"},
		"logging.format":               {"MOVIESTACK_LOGGING_FORMAT", "LOG_FORMAT"},
	}

	for key, envs := range aliases {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks the configuration. A missing TMDB key only fails in production;
// elsewhere the server runs on sample data.
func (c *Config) Validate() error {
	var errs []error

	if c.Metadata.TMDB.APIKey == "" && c.IsProduction() {
		errs = append(errs, ErrTMDBKeyRequired)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// Warnings returns non-fatal configuration problems worth logging at startup.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Metadata.TMDB.APIKey == "" {
		warnings = append(warnings, "TMDB_API_KEY not found, using sample data only")
	}
	if c.Metadata.OMDB.APIKey == "" {
		warnings = append(warnings, "OMDB_API_KEY not found, ratings enrichment disabled")
	}
	return warnings
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
