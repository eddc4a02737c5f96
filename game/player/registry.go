package player

import "sync"

// Player is the per-connection record created on the first successful room
// join and updated on each subsequent join.
type Player struct {
	Username string
	Room     string
}

// Registry maps live connection ids to player records. All methods are safe
// for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	players map[string]Player
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		players: make(map[string]Player),
	}
}

// Register creates or replaces the record for the connection.
func (r *Registry) Register(connID, username, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[connID] = Player{Username: username, Room: room}
}

// Lookup returns the record for the connection and whether one exists.
func (r *Registry) Lookup(connID string) (Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[connID]
	return p, ok
}

// Remove deletes the record for the connection, if any.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, connID)
}

// Count returns the number of registered players.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
