package hub

import (
	"sync"

	"github.com/ArrudaAsaph/jogue-a-velha/internal/metrics"
)

// Registry tracks live clients grouped by room. It is the single shared
// mutable structure of the hub; the lock is held only for bookkeeping,
// never while writing to sockets.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	total int
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Join adds a client to a room, creating the room entry on first join.
// Joining the same client twice is a no-op.
func (r *Registry) Join(roomID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, exists := r.rooms[roomID]
	if !exists {
		clients = make(map[*Client]struct{})
		r.rooms[roomID] = clients
	}
	if _, present := clients[c]; present {
		return
	}
	clients[c] = struct{}{}
	r.total++
	r.updateGauges()
}

// Leave removes a client from a room, dropping the room entry once empty.
// Returns true when the client was the room's last member.
func (r *Registry) Leave(roomID string, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, exists := r.rooms[roomID]
	if !exists {
		return false
	}
	if _, present := clients[c]; !present {
		return false
	}
	delete(clients, c)
	r.total--

	last := len(clients) == 0
	if last {
		delete(r.rooms, roomID)
	}
	r.updateGauges()
	return last
}

// Members returns a copied snapshot of a room's current clients so callers
// can iterate without holding the lock.
func (r *Registry) Members(roomID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients, exists := r.rooms[roomID]
	if !exists {
		return nil
	}
	members := make([]*Client, 0, len(clients))
	for c := range clients {
		members = append(members, c)
	}
	return members
}

// ClientCount returns the total number of connected clients.
func (r *Registry) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}

// RoomCount returns the number of rooms with at least one client.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Drain removes and returns every client, leaving the registry empty.
// Used during shutdown.
func (r *Registry) Drain() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	var clients []*Client
	for roomID, members := range r.rooms {
		for c := range members {
			clients = append(clients, c)
		}
		delete(r.rooms, roomID)
	}
	r.total = 0
	r.updateGauges()
	return clients
}

// caller must hold r.mu
func (r *Registry) updateGauges() {
	metrics.HubActiveRooms.Set(float64(len(r.rooms)))
	metrics.HubConnectedClients.Set(float64(r.total))
}
