package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/tokenboard/server/game/engine"
)

// ErrGameNotFound is returned when no live game exists for an id.
var ErrGameNotFound = errors.New("game not found")

// Manager handles game lifecycle: lookup, lazy creation, and delayed
// expiry. All methods are safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	games  map[string]*engine.Game
	timers map[string]*time.Timer
}

// NewManager creates an empty game manager.
func NewManager() *Manager {
	return &Manager{
		games:  make(map[string]*engine.Game),
		timers: make(map[string]*time.Timer),
	}
}

// Get retrieves a live game by id.
func (m *Manager) Get(id string) (*engine.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	game, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// GetOrCreate returns the game for the id, creating a fresh one if none
// exists. The second return reports whether a new game was created.
func (m *Manager) GetOrCreate(id string) (*engine.Game, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if game, ok := m.games[id]; ok {
		return game, false
	}
	game := engine.NewGame()
	m.games[id] = game
	return game, true
}

// Delete removes the game and cancels any pending expiry timer.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if timer, ok := m.timers[id]; ok {
		timer.Stop()
		delete(m.timers, id)
	}
	if _, ok := m.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(m.games, id)
	return nil
}

// ScheduleExpiry arranges for the game to be deleted after the delay.
// Timers are keyed by game id; rescheduling replaces the previous timer.
func (m *Manager) ScheduleExpiry(id string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if timer, ok := m.timers[id]; ok {
		timer.Stop()
	}
	m.timers[id] = time.AfterFunc(delay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.games, id)
		delete(m.timers, id)
	})
}

// Count returns the number of live games.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

// NewGameID mints a short random hex token identifying both a game record
// and the channel used for that game's traffic.
func NewGameID() string {
	bytes := make([]byte, 3)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
