// Package server assembles the HTTP surface: echo with the shared middleware
// stack, the API route groups, and the health endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/routes/client"
	"github.com/Ramsey-B/fern/pkg/routes/health"
	"github.com/Ramsey-B/fern/pkg/routes/itemalias"
	"github.com/Ramsey-B/fern/pkg/routes/learning"
	"github.com/Ramsey-B/fern/pkg/routes/order"
)

// Version is stamped at build time
var Version = "dev"

// Server is the assembled HTTP server plus the optional order consumer.
type Server struct {
	cfg      config.Config
	logger   ectologger.Logger
	echo     *echo.Echo
	checker  *health.Checker
	consumer *kafka.Consumer
}

// New assembles the server. consumer may be nil when the Kafka consumer is
// disabled; it is started and stopped with the server when present.
func New(cfg config.Config, logger ectologger.Logger, db *sqlx.DB, consumer *kafka.Consumer) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	api := e.Group("/api/v1")
	order.Register(api.Group("/orders"))
	client.Register(api.Group("/clients"))
	itemalias.Register(api.Group("/item-aliases"))
	learning.Register(api.Group("/learning"))

	var consumerHealth interface{ Health() bool }
	if consumer != nil {
		consumerHealth = consumer
	}
	checker := health.NewChecker(db, consumerHealth, Version)
	checker.RegisterRoutes(e)

	return &Server{
		cfg:      cfg,
		logger:   logger,
		echo:     e,
		checker:  checker,
		consumer: consumer,
	}
}

// Echo exposes the underlying echo instance for tests
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start runs the consumer and the HTTP listener. Blocks until the listener
// exits.
func (s *Server) Start(ctx context.Context) error {
	if s.consumer != nil {
		if err := s.consumer.Start(ctx); err != nil {
			return err
		}
	}
	s.checker.SetReady(true)

	s.echo.Server.ReadTimeout = time.Duration(s.cfg.HttpServerReadTimeoutSeconds) * time.Second
	s.echo.Server.WriteTimeout = time.Duration(s.cfg.HttpServerWriteTimeoutSeconds) * time.Second
	s.echo.Server.IdleTimeout = time.Duration(s.cfg.HttpServerIdleTimeoutSeconds) * time.Second
	s.echo.Server.ReadHeaderTimeout = time.Duration(s.cfg.ReadHeaderTimeoutSeconds) * time.Second
	s.echo.Server.MaxHeaderBytes = s.cfg.MaxHeaderBytes

	s.logger.WithContext(ctx).WithFields(map[string]any{"port": s.cfg.Port}).Info("HTTP server starting")
	err := s.echo.Start(fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains the listener and stops the consumer
func (s *Server) Shutdown(ctx context.Context) error {
	s.checker.SetReady(false)

	if err := s.echo.Shutdown(ctx); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to shut down HTTP server")
	}
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			s.logger.WithContext(ctx).WithError(err).Error("Failed to stop consumer")
			return err
		}
	}
	return nil
}
