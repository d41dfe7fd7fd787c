// Package server implements the HTTP server using Echo framework.
//
// Routes: /ws/{room_id} (WebSocket room endpoint), /health/live and
// /health/ready (probes), /metrics (Prometheus).
package server
