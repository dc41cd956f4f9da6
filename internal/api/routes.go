package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amartyachowdhury/movie-stack/internal/api/handlers"
	"github.com/amartyachowdhury/movie-stack/internal/metadata"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/", s.banner)
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group(apiPrefix)
	if timeout := s.requestTimeout(); timeout > 0 {
		api.Use(middleware.ContextTimeout(timeout))
	}

	api.GET("/health", s.healthCheck)

	metadata.NewHandlers(s.metadataService).RegisterRoutes(api)

	if s.scheduler != nil {
		handlers.NewSchedulerHandler(s.scheduler).RegisterRoutes(api)
	}
}
