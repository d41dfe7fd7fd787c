// Package hub implements the real-time room fan-out layer.
//
// A Registry tracks live WebSocket clients grouped by room, a Broadcaster
// delivers messages to every member of a room (pruning dead connections),
// and a Session drives the per-connection request protocol. Per-connection
// write goroutines keep slow clients from blocking the broadcast path.
package hub
