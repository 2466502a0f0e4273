// Package memory provides a fully in-memory store backend.
// Safe for concurrent access. Intended for unit testing and development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/announce"
	"github.com/chanderbhanswami/vardhman-mills-sub017/cart"
	"github.com/chanderbhanswami/vardhman-mills-sub017/flow"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// Ensure Store implements store.Store at compile time.
// We can't import store here (import cycle), so we verify each subsystem.
var (
	_ flow.Store     = (*Store)(nil)
	_ cart.Store     = (*Store)(nil)
	_ announce.Store = (*Store)(nil)
)

// Store is a fully in-memory implementation of store.Store.
type Store struct {
	mu sync.RWMutex

	progress      map[string]*flow.State
	carts         map[string]*cart.Cart
	announcements map[string]*announce.Announcement
	campaigns     map[string]*announce.Campaign
	dismissals    map[string]map[string]bool // sessionKey → announcement ID set
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		progress:      make(map[string]*flow.State),
		carts:         make(map[string]*cart.Cart),
		announcements: make(map[string]*announce.Announcement),
		campaigns:     make(map[string]*announce.Campaign),
		dismissals:    make(map[string]map[string]bool),
	}
}

// ──────────────────────────────────────────────────
// Lifecycle — Migrate / Ping / Close
// ──────────────────────────────────────────────────

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Progress Store
// ──────────────────────────────────────────────────

// SaveProgress persists session state under the given key.
func (m *Store) SaveProgress(_ context.Context, key string, st *flow.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.progress[key] = st.Clone()
	return nil
}

// LoadProgress retrieves the session state for a key.
func (m *Store) LoadProgress(_ context.Context, key string) (*flow.State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.progress[key]
	if !ok {
		return nil, false, nil
	}
	// Return a copy so callers can mutate without racing with the store.
	return st.Clone(), true, nil
}

// ClearProgress removes the persisted entry for a key.
func (m *Store) ClearProgress(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.progress, key)
	return nil
}

// ──────────────────────────────────────────────────
// Cart Store
// ──────────────────────────────────────────────────

// SaveCart persists a cart keyed by its session key.
func (m *Store) SaveCart(_ context.Context, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *c
	cp.Lines = make([]cart.Line, len(c.Lines))
	copy(cp.Lines, c.Lines)
	cp.UpdatedAt = time.Now().UTC()
	m.carts[c.Key] = &cp
	return nil
}

// GetCart retrieves the cart for a session key.
func (m *Store) GetCart(_ context.Context, key string) (*cart.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.carts[key]
	if !ok {
		return nil, checkout.ErrCartNotFound
	}
	cp := *c
	cp.Lines = make([]cart.Line, len(c.Lines))
	copy(cp.Lines, c.Lines)
	return &cp, nil
}

// DeleteCart removes the cart for a session key.
func (m *Store) DeleteCart(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.carts, key)
	return nil
}

// ──────────────────────────────────────────────────
// Announce Store
// ──────────────────────────────────────────────────

// SaveAnnouncement persists an announcement.
func (m *Store) SaveAnnouncement(_ context.Context, a *announce.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *a
	cp.UpdatedAt = time.Now().UTC()
	m.announcements[a.ID.String()] = &cp
	return nil
}

// GetAnnouncement retrieves an announcement by ID.
func (m *Store) GetAnnouncement(_ context.Context, annID id.AnnouncementID) (*announce.Announcement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.announcements[annID.String()]
	if !ok {
		return nil, checkout.ErrAnnouncementNotFound
	}
	cp := *a
	return &cp, nil
}

// ListAnnouncements returns all stored announcements sorted by priority
// (highest first), then creation time.
func (m *Store) ListAnnouncements(_ context.Context) ([]*announce.Announcement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*announce.Announcement, 0, len(m.announcements))
	for _, a := range m.announcements {
		cp := *a
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, k int) bool {
		if result[i].Priority != result[k].Priority {
			return result[i].Priority > result[k].Priority
		}
		return result[i].CreatedAt.Before(result[k].CreatedAt)
	})

	return result, nil
}

// DeleteAnnouncement removes an announcement by ID.
func (m *Store) DeleteAnnouncement(_ context.Context, annID id.AnnouncementID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.announcements, annID.String())
	return nil
}

// SaveCampaign persists a campaign.
func (m *Store) SaveCampaign(_ context.Context, c *announce.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *c
	cp.Announcements = make([]id.AnnouncementID, len(c.Announcements))
	copy(cp.Announcements, c.Announcements)
	cp.UpdatedAt = time.Now().UTC()
	m.campaigns[c.ID.String()] = &cp
	return nil
}

// GetCampaign retrieves a campaign by ID.
func (m *Store) GetCampaign(_ context.Context, campID id.CampaignID) (*announce.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.campaigns[campID.String()]
	if !ok {
		return nil, checkout.ErrCampaignNotFound
	}
	cp := *c
	cp.Announcements = make([]id.AnnouncementID, len(c.Announcements))
	copy(cp.Announcements, c.Announcements)
	return &cp, nil
}

// ListCampaigns returns all stored campaigns sorted by creation time.
func (m *Store) ListCampaigns(_ context.Context) ([]*announce.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*announce.Campaign, 0, len(m.campaigns))
	for _, c := range m.campaigns {
		cp := *c
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].CreatedAt.Before(result[k].CreatedAt)
	})

	return result, nil
}

// DeleteCampaign removes a campaign by ID.
func (m *Store) DeleteCampaign(_ context.Context, campID id.CampaignID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.campaigns, campID.String())
	return nil
}

// SaveDismissal records that a session dismissed an announcement.
func (m *Store) SaveDismissal(_ context.Context, sessionKey string, annID id.AnnouncementID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.dismissals[sessionKey]
	if !ok {
		set = make(map[string]bool)
		m.dismissals[sessionKey] = set
	}
	set[annID.String()] = true
	return nil
}

// IsDismissed reports whether a session dismissed an announcement.
func (m *Store) IsDismissed(_ context.Context, sessionKey string, annID id.AnnouncementID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.dismissals[sessionKey][annID.String()], nil
}
