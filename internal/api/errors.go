package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amartyachowdhury/movie-stack/internal/api/envelope"
)

// redactedMessage replaces internal error messages in production.
const redactedMessage = "Something went wrong!"

// handleError is the terminal echo error handler. Every failure leaves as an
// envelope with data null.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := s.errorResponse(err, c)

	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).
			Str("method", c.Request().Method).
			Str("uri", c.Request().RequestURI).
			Int("status", status).
			Msg("Unhandled error")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		s.logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

func (s *Server) errorResponse(err error, c echo.Context) (int, envelope.Response) {
	var vErr *envelope.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, envelope.Validation(vErr.Message, vErr.Fields)
	}

	if errors.Is(err, echo.ErrNotFound) {
		return http.StatusNotFound, envelope.Error(fmt.Sprintf("Route %s not found", c.Request().RequestURI))
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		resp := envelope.Error(httpMessage(httpErr))
		if httpErr.Code >= http.StatusInternalServerError {
			s.attachDetail(&resp, err)
		}
		return httpErr.Code, resp
	}

	message := redactedMessage
	if !s.cfg.IsProduction() {
		message = err.Error()
	}
	resp := envelope.Error(message)
	s.attachDetail(&resp, err)
	return http.StatusInternalServerError, resp
}

// attachDetail adds the raw error in development mode only.
func (s *Server) attachDetail(resp *envelope.Response, err error) {
	if s.cfg.IsDevelopment() {
		resp.Error = err.Error()
	}
}

func httpMessage(he *echo.HTTPError) string {
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	if he.Message == nil {
		return http.StatusText(he.Code)
	}
	return fmt.Sprint(he.Message)
}
