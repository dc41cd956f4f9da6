package config

// Embedded API keys injected at build time via ldflags.
// These serve as defaults and can be overridden by environment
// variables or config file.
//
// Build with:
//   go build -ldflags "-X 'github.com/amartyachowdhury/movie-stack/internal/config.EmbeddedTMDBKey=xxx' \
//                      -X 'github.com/amartyachowdhury/movie-stack/internal/config.EmbeddedOMDBKey=yyy'"
var (
	EmbeddedTMDBKey string
	EmbeddedOMDBKey string
)
