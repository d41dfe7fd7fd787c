package server

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ArrudaAsaph/jogue-a-velha/internal/config"
	"github.com/ArrudaAsaph/jogue-a-velha/internal/domain"
	"github.com/ArrudaAsaph/jogue-a-velha/internal/hub"
)

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	registry    *hub.Registry
	broadcaster *hub.Broadcaster
	store       domain.StateStore
	clock       clockwork.Clock
	redisPing   func(ctx context.Context) error
	startTime   time.Time
}

func NewServer(cfg *config.Config, registry *hub.Registry, broadcaster *hub.Broadcaster, store domain.StateStore, clock clockwork.Clock, redisPing func(ctx context.Context) error) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:        e,
		config:      cfg,
		registry:    registry,
		broadcaster: broadcaster,
		store:       store,
		clock:       clock,
		redisPing:   redisPing,
		startTime:   clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
