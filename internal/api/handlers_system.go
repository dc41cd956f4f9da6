package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amartyachowdhury/movie-stack/internal/api/envelope"
	"github.com/amartyachowdhury/movie-stack/internal/config"
)

// HealthStatus is the data payload of the health endpoints.
type HealthStatus struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	Version        string `json:"version"`
	TMDBConfigured bool   `json:"tmdbConfigured"`
	OMDBConfigured bool   `json:"omdbConfigured"`
}

// Banner is the body of the root route. It is not enveloped.
type Banner struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// healthCheck always reports 200; missing provider credentials only degrade data.
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope.Success("API is healthy", HealthStatus{
		Status:         "running",
		Timestamp:      time.Now().UTC().Format(time.RFC3339Nano),
		Version:        config.Version,
		TMDBConfigured: s.metadataService.TMDBConfigured(),
		OMDBConfigured: s.metadataService.OMDBConfigured(),
	}))
}

func (s *Server) banner(c echo.Context) error {
	return c.JSON(http.StatusOK, Banner{
		Success: true,
		Message: "Movie Stack API",
		Version: config.Version,
		Endpoints: map[string]string{
			"health": apiPrefix + "/health",
			"movies": apiPrefix + "/movies",
			"genres": apiPrefix + "/genres",
		},
	})
}
