// Package announce implements the storefront announcement bar: a live
// feed of banners pushed from the backend over WebSocket, campaign
// rotation on cron schedules, per-session dismissals, and fan-out to
// UI subscribers through the stream broker.
package announce

import (
	"time"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// Variant classifies a banner for styling and cache policy.
type Variant string

const (
	// VariantInfo is a plain informational banner.
	VariantInfo Variant = "info"
	// VariantPromo is a promotional banner.
	VariantPromo Variant = "promo"
	// VariantFlashSale is a time-boxed sale banner.
	VariantFlashSale Variant = "flash_sale"
)

// Announcement is one banner shown in the announcement bar.
type Announcement struct {
	checkout.Entity

	ID       id.AnnouncementID `json:"id"`
	Message  string            `json:"message"`
	Href     string            `json:"href,omitempty"`
	Variant  Variant           `json:"variant"`
	Priority int               `json:"priority"`
	StartsAt *time.Time        `json:"startsAt,omitempty"`
	EndsAt   *time.Time        `json:"endsAt,omitempty"`
}

// ActiveAt reports whether the announcement should be visible at t.
func (a *Announcement) ActiveAt(t time.Time) bool {
	if a.StartsAt != nil && t.Before(*a.StartsAt) {
		return false
	}
	if a.EndsAt != nil && !t.Before(*a.EndsAt) {
		return false
	}
	return true
}

// Campaign rotates through a set of announcements on a cron schedule.
type Campaign struct {
	checkout.Entity

	ID            id.CampaignID       `json:"id"`
	Name          string              `json:"name"`
	Schedule      string              `json:"schedule"`
	Announcements []id.AnnouncementID `json:"announcements"`
	// NextIndex is the rotation cursor, advanced each time the
	// schedule fires.
	NextIndex int `json:"nextIndex"`
}
