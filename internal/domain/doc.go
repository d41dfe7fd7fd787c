// Package domain defines the narrow interfaces the real-time hub depends on.
//
// StateStore and EventBus isolate the hub's concurrency logic from Redis so
// it can be tested with in-memory fakes.
package domain
