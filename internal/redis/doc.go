// Package redis implements the Redis-backed adapters behind the hub's
// narrow interfaces.
//
// RoomStore holds the per-room snapshot under "sala:{room_id}" and EventBus
// carries game events over Pub/Sub on the shared channel. Both treat their
// payloads as opaque: the schema belongs to the REST service.
package redis
