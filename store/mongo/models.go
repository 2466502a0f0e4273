package mongo

import (
	"fmt"
	"time"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/announce"
	"github.com/chanderbhanswami/vardhman-mills-sub017/cart"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// progressModel stores the session state as the same JSON blob the
// other backends use.
type progressModel struct {
	Key       string    `bson:"_id"`
	State     []byte    `bson:"state"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type lineModel struct {
	ItemID    string `bson:"item_id"`
	ProductID string `bson:"product_id"`
	VariantID string `bson:"variant_id,omitempty"`
	Name      string `bson:"name,omitempty"`
	Quantity  int    `bson:"quantity"`
	UnitPrice int64  `bson:"unit_price"`
}

type cartModel struct {
	Key       string      `bson:"_id"`
	ID        string      `bson:"id"`
	Currency  string      `bson:"currency"`
	Lines     []lineModel `bson:"lines"`
	CreatedAt time.Time   `bson:"created_at"`
	UpdatedAt time.Time   `bson:"updated_at"`
}

type announcementModel struct {
	ID        string     `bson:"_id"`
	Message   string     `bson:"message"`
	Href      string     `bson:"href,omitempty"`
	Variant   string     `bson:"variant"`
	Priority  int        `bson:"priority"`
	StartsAt  *time.Time `bson:"starts_at,omitempty"`
	EndsAt    *time.Time `bson:"ends_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

type campaignModel struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	Schedule      string    `bson:"schedule"`
	Announcements []string  `bson:"announcements"`
	NextIndex     int       `bson:"next_index"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

type dismissalModel struct {
	SessionKey     string    `bson:"session_key"`
	AnnouncementID string    `bson:"announcement_id"`
	DismissedAt    time.Time `bson:"dismissed_at"`
}

// ── conversions ──────────────────────────────────────────────────

func toCartModel(c *cart.Cart) *cartModel {
	m := &cartModel{
		Key:       c.Key,
		ID:        c.ID.String(),
		Currency:  c.Currency,
		Lines:     make([]lineModel, len(c.Lines)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for i, l := range c.Lines {
		m.Lines[i] = lineModel(l)
	}
	return m
}

func fromCartModel(m *cartModel) (*cart.Cart, error) {
	cartID, err := id.ParseCartID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse cart id: %w", err)
	}
	c := &cart.Cart{
		Entity:   checkout.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:       cartID,
		Key:      m.Key,
		Currency: m.Currency,
		Lines:    make([]cart.Line, len(m.Lines)),
	}
	for i, l := range m.Lines {
		c.Lines[i] = cart.Line(l)
	}
	return c, nil
}

func toAnnouncementModel(a *announce.Announcement) *announcementModel {
	return &announcementModel{
		ID:        a.ID.String(),
		Message:   a.Message,
		Href:      a.Href,
		Variant:   string(a.Variant),
		Priority:  a.Priority,
		StartsAt:  a.StartsAt,
		EndsAt:    a.EndsAt,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func fromAnnouncementModel(m *announcementModel) (*announce.Announcement, error) {
	annID, err := id.ParseAnnouncementID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse announcement id: %w", err)
	}
	return &announce.Announcement{
		Entity:   checkout.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:       annID,
		Message:  m.Message,
		Href:     m.Href,
		Variant:  announce.Variant(m.Variant),
		Priority: m.Priority,
		StartsAt: m.StartsAt,
		EndsAt:   m.EndsAt,
	}, nil
}

func toCampaignModel(c *announce.Campaign) *campaignModel {
	m := &campaignModel{
		ID:            c.ID.String(),
		Name:          c.Name,
		Schedule:      c.Schedule,
		Announcements: make([]string, len(c.Announcements)),
		NextIndex:     c.NextIndex,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	for i, annID := range c.Announcements {
		m.Announcements[i] = annID.String()
	}
	return m
}

func fromCampaignModel(m *campaignModel) (*announce.Campaign, error) {
	campID, err := id.ParseCampaignID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse campaign id: %w", err)
	}
	c := &announce.Campaign{
		Entity:        checkout.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:            campID,
		Name:          m.Name,
		Schedule:      m.Schedule,
		Announcements: make([]id.AnnouncementID, len(m.Announcements)),
		NextIndex:     m.NextIndex,
	}
	for i, raw := range m.Announcements {
		annID, err := id.ParseAnnouncementID(raw)
		if err != nil {
			return nil, fmt.Errorf("parse campaign rotation id: %w", err)
		}
		c.Announcements[i] = annID
	}
	return c, nil
}
