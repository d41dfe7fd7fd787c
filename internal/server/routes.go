package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// WebSocket endpoint. The bare variants are registered so a missing
	// room id is answered with a policy-violation close frame instead of
	// an HTTP 404.
	s.echo.GET("/ws", s.handleWebSocket)
	s.echo.GET("/ws/", s.handleWebSocket)
	s.echo.GET("/ws/:room_id", s.handleWebSocket)
}
