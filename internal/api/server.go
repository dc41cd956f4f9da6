// Package api wires the HTTP surface: middleware, routes and the terminal
// error handler that renders every failure as an envelope.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	apimw "github.com/amartyachowdhury/movie-stack/internal/api/middleware"
	"github.com/amartyachowdhury/movie-stack/internal/api/validation"
	"github.com/amartyachowdhury/movie-stack/internal/config"
	"github.com/amartyachowdhury/movie-stack/internal/metadata"
	"github.com/amartyachowdhury/movie-stack/internal/metrics"
	"github.com/amartyachowdhury/movie-stack/internal/scheduler"
)

const (
	apiPrefix = "/api"
	bodyLimit = "10M"
)

// Server handles HTTP requests for the movie API.
type Server struct {
	echo   *echo.Echo
	logger zerolog.Logger
	cfg    *config.Config

	metadataService *metadata.Service
	scheduler       *scheduler.Scheduler
}

// NewServer creates a new API server instance. sched may be nil when no
// background tasks are configured.
func NewServer(cfg *config.Config, metadataService *metadata.Service, sched *scheduler.Scheduler, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:            e,
		logger:          logger.With().Str("component", "api").Logger(),
		cfg:             cfg,
		metadataService: metadataService,
		scheduler:       sched,
	}

	e.Validator = validation.New()
	e.HTTPErrorHandler = s.handleError

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	s.echo.Use(apimw.SecurityHeaders(apiPrefix))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     corsOrigins(s.cfg.CORS.Origin),
		AllowCredentials: s.cfg.CORS.Credentials,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders:    []string{echo.HeaderXRequestID, "X-Data-Source"},
	}))

	s.echo.Use(middleware.BodyLimit(bodyLimit))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogError:     true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			metrics.RecordAPIRequest(v.Method, routeLabel(c), v.Status, v.Latency)

			var event *zerolog.Event
			switch {
			case v.Status >= http.StatusInternalServerError:
				event = s.logger.Error().Err(v.Error)
			case v.Error != nil:
				event = s.logger.Warn().Err(v.Error)
			default:
				event = s.logger.Info()
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("requestId", v.RequestID).
				Str("ip", v.RemoteIP).
				Str("userAgent", v.UserAgent).
				Msg("request")
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
}

// corsOrigins splits a comma separated origin list.
func corsOrigins(origin string) []string {
	var origins []string
	for _, o := range strings.Split(origin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// routeLabel returns the matched route template, keeping metric cardinality bounded.
func routeLabel(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return "unmatched"
}

func (s *Server) requestTimeout() time.Duration {
	return time.Duration(s.cfg.API.TimeoutMS) * time.Millisecond
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("Starting HTTP server")
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
