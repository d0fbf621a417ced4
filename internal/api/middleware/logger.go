package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/chapool/hd-wallet/internal/util"
)

// RequestID reuses an incoming X-Request-ID or generates a uuid, echoes it in the response
// and stores it in the request context.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.SetRequest(req.WithContext(util.WithRequestID(req.Context(), id)))

			return next(c)
		}
	}
}

// Logger attaches a request scoped zerolog logger to the context and logs each request
// at level once it completes.
func Logger(level zerolog.Level) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			logger := log.With().
				Str("id", util.RequestIDFromContext(req.Context())).
				Str("method", req.Method).
				Str("path", c.Path()).
				Logger()

			c.SetRequest(req.WithContext(util.WithLogger(req.Context(), logger)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.WithLevel(level).
				Int("status", c.Response().Status).
				Str("uri", req.RequestURI).
				Dur("duration", time.Since(start)).
				Int64("bytes_out", c.Response().Size).
				Msg("http_request")

			return nil
		}
	}
}
