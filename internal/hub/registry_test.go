package hub

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_JoinAndMembers(t *testing.T) {
	registry := NewRegistry()
	c, _ := newTestClient(t, "R1")

	registry.Join("R1", c)

	members := registry.Members("R1")
	require.Len(t, members, 1)
	assert.Same(t, c, members[0])
	assert.Equal(t, 1, registry.ClientCount())
	assert.Equal(t, 1, registry.RoomCount())
}

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	c, _ := newTestClient(t, "R1")

	registry.Join("R1", c)
	registry.Join("R1", c)

	assert.Len(t, registry.Members("R1"), 1)
	assert.Equal(t, 1, registry.ClientCount())
}

func TestRegistry_LeaveRemovesEmptyRoom(t *testing.T) {
	registry := NewRegistry()
	a, _ := newTestClient(t, "R1")
	b, _ := newTestClient(t, "R1")

	registry.Join("R1", a)
	registry.Join("R1", b)

	last := registry.Leave("R1", a)
	assert.False(t, last)
	assert.Len(t, registry.Members("R1"), 1)
	assert.Equal(t, 1, registry.RoomCount())

	last = registry.Leave("R1", b)
	assert.True(t, last)
	assert.Empty(t, registry.Members("R1"))
	assert.Equal(t, 0, registry.RoomCount())
	assert.Equal(t, 0, registry.ClientCount())
}

func TestRegistry_LeaveUnknownClient(t *testing.T) {
	registry := NewRegistry()
	c, _ := newTestClient(t, "R1")

	assert.False(t, registry.Leave("R1", c))
	assert.False(t, registry.Leave("nope", c))
}

func TestRegistry_MembersReturnsCopy(t *testing.T) {
	registry := NewRegistry()
	c, _ := newTestClient(t, "R1")
	registry.Join("R1", c)

	members := registry.Members("R1")
	members[0] = nil

	require.Len(t, registry.Members("R1"), 1)
	assert.Same(t, c, registry.Members("R1")[0])
}

func TestRegistry_Drain(t *testing.T) {
	registry := NewRegistry()
	a, _ := newTestClient(t, "R1")
	b, _ := newTestClient(t, "R2")
	registry.Join("R1", a)
	registry.Join("R2", b)

	clients := registry.Drain()

	assert.Len(t, clients, 2)
	assert.Equal(t, 0, registry.ClientCount())
	assert.Equal(t, 0, registry.RoomCount())
}

func TestRegistry_ConcurrentJoinLeave(t *testing.T) {
	registry := NewRegistry()

	const n = 16
	clients := make([]*Client, n)
	for i := range clients {
		clients[i], _ = newTestClient(t, "R1")
	}

	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go func(i int, c *Client) {
			defer wg.Done()
			room := fmt.Sprintf("R%d", i%4)
			registry.Join(room, c)
			registry.Members(room)
			registry.Leave(room, c)
		}(i, c)
	}
	wg.Wait()

	assert.Equal(t, 0, registry.ClientCount())
	assert.Equal(t, 0, registry.RoomCount())
}
