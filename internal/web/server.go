package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dshills/codelens/internal/logging"
	"github.com/dshills/codelens/internal/metrics"
	"github.com/dshills/codelens/internal/workbench"
)

const shutdownTimeout = 10 * time.Second

// Options configures the HTTP server.
type Options struct {
	Workbench *workbench.Workbench
	Metrics   *metrics.Metrics
	Defaults  Defaults
	Logger    *slog.Logger
}

// NewServer builds the echo instance with middleware and routes.
func NewServer(opts Options) (*echo.Echo, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())

	h, err := NewHandler(opts.Workbench, opts.Defaults, logger)
	if err != nil {
		return nil, err
	}
	h.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))

	return e, nil
}

// requestLogger writes one slog line per request. Form values are never
// logged since they carry credentials.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

// Run serves e on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()
	logger.Info("codelens listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
