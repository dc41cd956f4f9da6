package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the name of the rotated log file written under Config.Path.
const LogFileName = "moviestack.log"

// Logger wraps zerolog for application logging.
type Logger struct {
	zerolog.Logger
	rotator *lumberjack.Logger
}

// Config holds logger configuration.
type Config struct {
	Level      string
	Format     string // "console" or "json"
	Path       string // directory for log files, empty disables file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Output overrides stdout. Used by tests.
	Output io.Writer
}

// IsDevBuild reports whether the binary was started through "go run".
func IsDevBuild() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return strings.Contains(exe, "go-build")
}

// New creates a logger. Dev builds log at debug unless trace is requested.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	var console io.Writer = out
	if cfg.Format != "json" {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level := parseLevel(cfg.Level)
	if IsDevBuild() && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	output := console
	rotator := newRotator(cfg)
	if rotator != nil {
		output = io.MultiWriter(console, rotator)
	}

	zl := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: zl, rotator: rotator}
}

func newRotator(cfg Config) *lumberjack.Logger {
	if cfg.Path == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Path, LogFileName),
		MaxSize:    orDefault(cfg.MaxSizeMB, 10),
		MaxBackups: orDefault(cfg.MaxBackups, 5),
		MaxAge:     orDefault(cfg.MaxAgeDays, 30),
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithComponent returns a child logger tagged with a component field.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With().Str("component", component).Logger(),
	}
}
