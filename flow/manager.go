package flow

import (
	"context"
	"errors"
	"sync"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
)

// Manager tracks live sequencers by session key. It applies a base set
// of options (store, hooks, logger) to every session it creates.
type Manager struct {
	base []Option

	mu       sync.Mutex
	sessions map[string]*Sequencer
}

// NewManager creates a manager whose sessions share the base options.
func NewManager(base ...Option) *Manager {
	return &Manager{
		base:     base,
		sessions: make(map[string]*Sequencer),
	}
}

// Create starts a new session under key. An existing live session with
// the same key returns checkout.ErrConflict.
func (m *Manager) Create(ctx context.Context, key string, opts ...Option) (*Sequencer, error) {
	m.mu.Lock()
	if _, exists := m.sessions[key]; exists {
		m.mu.Unlock()
		return nil, checkout.ErrConflict
	}
	m.mu.Unlock()

	s, err := NewSequencer(key, append(append([]Option{}, m.base...), opts...)...)
	if err != nil {
		return nil, err
	}

	// Pick up persisted progress when the store has an entry; otherwise
	// begin at the first step.
	resumed, err := s.Resume(ctx)
	if err != nil && !errors.Is(err, checkout.ErrNoStore) {
		return nil, err
	}
	if !resumed {
		s.Start(ctx)
	}

	m.mu.Lock()
	if _, exists := m.sessions[key]; exists {
		m.mu.Unlock()
		return nil, checkout.ErrConflict
	}
	m.sessions[key] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the live sequencer for key.
func (m *Manager) Get(key string) (*Sequencer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	return s, ok
}

// Remove drops a session from the manager without touching its
// persisted progress.
func (m *Manager) Remove(key string) {
	m.mu.Lock()
	delete(m.sessions, key)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
