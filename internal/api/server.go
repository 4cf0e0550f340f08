package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const shutdownGrace = 10 * time.Second

// StatusReporter supplies the runtime facts exposed on /status.
type StatusReporter interface {
	BackendName() string
	MaxFiles() int
	MaxLinesPerFile() int
}

// Server hosts the webhook endpoint plus the health and status probes.
type Server struct {
	echo    *echo.Echo
	port    int
	version string
	status  StatusReporter
}

// NewServer builds the echo server with its middleware stack and routes.
// webhookHandler handles POST /webhook/github, manualHandler handles
// POST /review/manual.
func NewServer(port int, version string, allowedOrigins []string, webhookHandler, manualHandler echo.HandlerFunc, status StatusReporter) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(20))))

	s := &Server{
		echo:    e,
		port:    port,
		version: version,
		status:  status,
	}

	e.GET("/health", s.health)
	e.GET("/status", s.statusHandler)
	e.POST("/webhook/github", webhookHandler)
	e.POST("/review/manual", manualHandler)

	return s
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.version,
	})
}

func (s *Server) statusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":             "running",
		"ai_backend":         s.status.BackendName(),
		"max_files":          s.status.MaxFiles(),
		"max_lines_per_file": s.status.MaxLinesPerFile(),
	})
}

// Start runs the server until an interrupt or termination signal, then
// shuts down gracefully.
func (s *Server) Start() error {
	go func() {
		addr := fmt.Sprintf(":%d", s.port)
		log.Info().Str("addr", addr).Msg("server listening")
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	return s.echo.Shutdown(ctx)
}
