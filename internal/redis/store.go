package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ArrudaAsaph/jogue-a-velha/internal/metrics"
)

const roomKeyPrefix = "sala:"

func roomKey(roomID string) string {
	return roomKeyPrefix + roomID
}

// RoomStore implements domain.StateStore over Redis. One snapshot per room,
// stored under "sala:{room_id}". The snapshot schema is owned by the REST
// service; this store treats it as opaque bytes.
type RoomStore struct {
	rdb   *goredis.Client
	group singleflight.Group
}

func NewRoomStore(client *Client) *RoomStore {
	return &RoomStore{rdb: client.rdb}
}

// GetRoomState fetches the current snapshot for a room. Concurrent fetches
// for the same room collapse into a single round trip; nothing is cached
// across requests.
func (s *RoomStore) GetRoomState(ctx context.Context, roomID string) (json.RawMessage, bool, error) {
	v, err, _ := s.group.Do(roomKey(roomID), func() (any, error) {
		data, err := s.rdb.Get(ctx, roomKey(roomID)).Bytes()
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		metrics.RedisOpsTotal.WithLabelValues("get_room_state", "error").Inc()
		return nil, false, fmt.Errorf("fetch room state: %w", err)
	}

	data, _ := v.([]byte)
	if data == nil {
		metrics.RedisOpsTotal.WithLabelValues("get_room_state", "miss").Inc()
		return nil, false, nil
	}
	metrics.RedisOpsTotal.WithLabelValues("get_room_state", "success").Inc()
	return data, true, nil
}

// SaveRoomState persists a snapshot for a room.
func (s *RoomStore) SaveRoomState(ctx context.Context, roomID string, state json.RawMessage) error {
	if err := s.rdb.Set(ctx, roomKey(roomID), []byte(state), 0).Err(); err != nil {
		metrics.RedisOpsTotal.WithLabelValues("save_room_state", "error").Inc()
		return fmt.Errorf("save room state: %w", err)
	}
	metrics.RedisOpsTotal.WithLabelValues("save_room_state", "success").Inc()
	return nil
}
