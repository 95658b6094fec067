// Package server exposes the tracker over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/safedep/dry/log"
	"github.com/safedep/tally/tracker"
	"golang.org/x/time/rate"
)

// Config configures the HTTP server.
type Config struct {
	// Address is the listen address, e.g. ":7000".
	Address string
	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64
	// RequestLog enables echo's request logger.
	RequestLog bool
}

// Server serves the tracker routes.
type Server struct {
	echo    *echo.Echo
	tracker *tracker.Tracker
	address string
}

// New creates a Server with all routes registered.
func New(t *tracker.Tracker, cfg Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if cfg.RequestLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())
	if cfg.RateLimit > 0 {
		e.Use(rateLimitMiddleware(cfg.RateLimit))
	}

	s := &Server{
		echo:    e,
		tracker: t,
		address: cfg.Address,
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.healthz)

	s.echo.POST("/register", s.register)
	s.echo.POST("/recordSession", s.recordSession)

	s.echo.GET("/totalActivity", s.totalActivity)
	s.echo.GET("/inactiveUsers", s.inactiveUsers)
	s.echo.GET("/monthlyActivity", s.monthlyActivity)
	s.echo.GET("/userStatus", s.userStatus)
	s.echo.GET("/lastSession", s.lastSession)
	s.echo.GET("/stats", s.stats)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured address and blocks until the server
// stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	log.Infof("listening on %s", s.address)

	err := s.echo.Start(s.address)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func rateLimitMiddleware(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			ip := strings.TrimSpace(c.RealIP())
			if ip == "" {
				ip = "unknown"
			}
			return ip, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.String(http.StatusTooManyRequests, "Rate limit exceeded")
		},
	})
}
