package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/announce"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// SaveAnnouncement stores the announcement as a JSON string and indexes
// its ID for enumeration.
func (s *Store) SaveAnnouncement(ctx context.Context, a *announce.Announcement) error {
	annID := a.ID.String()
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("checkout/redis: marshal announcement: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, announcementKey(annID), data, 0)
	pipe.SAdd(ctx, announcementIDsKey, annID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("checkout/redis: save announcement: %w", err)
	}
	return nil
}

// GetAnnouncement retrieves an announcement by ID.
func (s *Store) GetAnnouncement(ctx context.Context, annID id.AnnouncementID) (*announce.Announcement, error) {
	data, err := s.client.Get(ctx, announcementKey(annID.String())).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, checkout.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("checkout/redis: get announcement: %w", err)
	}

	var a announce.Announcement
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("checkout/redis: unmarshal announcement: %w", err)
	}
	return &a, nil
}

// ListAnnouncements returns all announcements, highest priority first,
// oldest first within the same priority.
func (s *Store) ListAnnouncements(ctx context.Context) ([]*announce.Announcement, error) {
	ids, err := s.client.SMembers(ctx, announcementIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("checkout/redis: list announcement ids: %w", err)
	}

	result := make([]*announce.Announcement, 0, len(ids))
	for _, annID := range ids {
		data, err := s.client.Get(ctx, announcementKey(annID)).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				// Index entry without a value; skip the orphan.
				continue
			}
			return nil, fmt.Errorf("checkout/redis: list announcements: %w", err)
		}
		var a announce.Announcement
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("checkout/redis: unmarshal announcement: %w", err)
		}
		result = append(result, &a)
	}

	sort.Slice(result, func(i, k int) bool {
		if result[i].Priority != result[k].Priority {
			return result[i].Priority > result[k].Priority
		}
		return result[i].CreatedAt.Before(result[k].CreatedAt)
	})
	return result, nil
}

// DeleteAnnouncement removes an announcement and its index entry.
func (s *Store) DeleteAnnouncement(ctx context.Context, annID id.AnnouncementID) error {
	aID := annID.String()
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, announcementKey(aID))
	pipe.SRem(ctx, announcementIDsKey, aID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("checkout/redis: delete announcement: %w", err)
	}
	return nil
}

// SaveCampaign stores the campaign as a JSON string and indexes its ID.
func (s *Store) SaveCampaign(ctx context.Context, c *announce.Campaign) error {
	campID := c.ID.String()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("checkout/redis: marshal campaign: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, campaignKey(campID), data, 0)
	pipe.SAdd(ctx, campaignIDsKey, campID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("checkout/redis: save campaign: %w", err)
	}
	return nil
}

// GetCampaign retrieves a campaign by ID.
func (s *Store) GetCampaign(ctx context.Context, campID id.CampaignID) (*announce.Campaign, error) {
	data, err := s.client.Get(ctx, campaignKey(campID.String())).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, checkout.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("checkout/redis: get campaign: %w", err)
	}

	var c announce.Campaign
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("checkout/redis: unmarshal campaign: %w", err)
	}
	return &c, nil
}

// ListCampaigns returns all campaigns, oldest first.
func (s *Store) ListCampaigns(ctx context.Context) ([]*announce.Campaign, error) {
	ids, err := s.client.SMembers(ctx, campaignIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("checkout/redis: list campaign ids: %w", err)
	}

	result := make([]*announce.Campaign, 0, len(ids))
	for _, campID := range ids {
		data, err := s.client.Get(ctx, campaignKey(campID)).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				continue
			}
			return nil, fmt.Errorf("checkout/redis: list campaigns: %w", err)
		}
		var c announce.Campaign
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("checkout/redis: unmarshal campaign: %w", err)
		}
		result = append(result, &c)
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].CreatedAt.Before(result[k].CreatedAt)
	})
	return result, nil
}

// DeleteCampaign removes a campaign and its index entry.
func (s *Store) DeleteCampaign(ctx context.Context, campID id.CampaignID) error {
	cID := campID.String()
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, campaignKey(cID))
	pipe.SRem(ctx, campaignIDsKey, cID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("checkout/redis: delete campaign: %w", err)
	}
	return nil
}

// SaveDismissal adds the announcement to the session's dismissal Set.
func (s *Store) SaveDismissal(ctx context.Context, sessionKey string, annID id.AnnouncementID) error {
	if err := s.client.SAdd(ctx, dismissalKey(sessionKey), annID.String()).Err(); err != nil {
		return fmt.Errorf("checkout/redis: save dismissal: %w", err)
	}
	return nil
}

// IsDismissed reports whether the session dismissed the announcement.
func (s *Store) IsDismissed(ctx context.Context, sessionKey string, annID id.AnnouncementID) (bool, error) {
	dismissed, err := s.client.SIsMember(ctx, dismissalKey(sessionKey), annID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("checkout/redis: is dismissed: %w", err)
	}
	return dismissed, nil
}
