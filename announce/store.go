package announce

import (
	"context"

	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// Store defines the persistence contract for announcements, campaigns,
// and per-session dismissals.
type Store interface {
	// SaveAnnouncement persists an announcement, replacing any previous
	// version.
	SaveAnnouncement(ctx context.Context, a *Announcement) error

	// GetAnnouncement retrieves an announcement by ID.
	// Returns checkout.ErrAnnouncementNotFound when absent.
	GetAnnouncement(ctx context.Context, annID id.AnnouncementID) (*Announcement, error)

	// ListAnnouncements returns all stored announcements.
	ListAnnouncements(ctx context.Context) ([]*Announcement, error)

	// DeleteAnnouncement removes an announcement. Deleting a missing
	// announcement is not an error.
	DeleteAnnouncement(ctx context.Context, annID id.AnnouncementID) error

	// SaveCampaign persists a campaign, replacing any previous version.
	SaveCampaign(ctx context.Context, c *Campaign) error

	// GetCampaign retrieves a campaign by ID.
	// Returns checkout.ErrCampaignNotFound when absent.
	GetCampaign(ctx context.Context, campID id.CampaignID) (*Campaign, error)

	// ListCampaigns returns all stored campaigns.
	ListCampaigns(ctx context.Context) ([]*Campaign, error)

	// DeleteCampaign removes a campaign. Deleting a missing campaign is
	// not an error.
	DeleteCampaign(ctx context.Context, campID id.CampaignID) error

	// SaveDismissal records that a session dismissed an announcement.
	SaveDismissal(ctx context.Context, sessionKey string, annID id.AnnouncementID) error

	// IsDismissed reports whether a session dismissed an announcement.
	IsDismissed(ctx context.Context, sessionKey string, annID id.AnnouncementID) (bool, error)
}
