package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/announce"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// SaveAnnouncement upserts an announcement document.
func (s *Store) SaveAnnouncement(ctx context.Context, a *announce.Announcement) error {
	_, err := s.db.Collection(colAnnouncements).ReplaceOne(ctx,
		bson.M{"_id": a.ID.String()}, toAnnouncementModel(a),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("checkout/mongo: save announcement: %w", err)
	}
	return nil
}

// GetAnnouncement retrieves an announcement by ID.
func (s *Store) GetAnnouncement(ctx context.Context, annID id.AnnouncementID) (*announce.Announcement, error) {
	var m announcementModel
	err := s.db.Collection(colAnnouncements).FindOne(ctx, bson.M{"_id": annID.String()}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, checkout.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("checkout/mongo: get announcement: %w", err)
	}

	a, err := fromAnnouncementModel(&m)
	if err != nil {
		return nil, fmt.Errorf("checkout/mongo: get announcement: %w", err)
	}
	return a, nil
}

// ListAnnouncements returns all announcements, highest priority first,
// oldest first within the same priority.
func (s *Store) ListAnnouncements(ctx context.Context) ([]*announce.Announcement, error) {
	findOpts := options.Find().SetSort(bson.D{
		{Key: "priority", Value: -1},
		{Key: "created_at", Value: 1},
	})
	cursor, err := s.db.Collection(colAnnouncements).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("checkout/mongo: list announcements: %w", err)
	}
	defer cursor.Close(ctx)

	var models []announcementModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("checkout/mongo: list announcements decode: %w", err)
	}

	result := make([]*announce.Announcement, 0, len(models))
	for i := range models {
		a, convErr := fromAnnouncementModel(&models[i])
		if convErr != nil {
			return nil, fmt.Errorf("checkout/mongo: list announcements convert: %w", convErr)
		}
		result = append(result, a)
	}
	return result, nil
}

// DeleteAnnouncement removes an announcement by ID.
func (s *Store) DeleteAnnouncement(ctx context.Context, annID id.AnnouncementID) error {
	_, err := s.db.Collection(colAnnouncements).DeleteOne(ctx, bson.M{"_id": annID.String()})
	if err != nil {
		return fmt.Errorf("checkout/mongo: delete announcement: %w", err)
	}
	return nil
}

// SaveCampaign upserts a campaign document.
func (s *Store) SaveCampaign(ctx context.Context, c *announce.Campaign) error {
	_, err := s.db.Collection(colCampaigns).ReplaceOne(ctx,
		bson.M{"_id": c.ID.String()}, toCampaignModel(c),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("checkout/mongo: save campaign: %w", err)
	}
	return nil
}

// GetCampaign retrieves a campaign by ID.
func (s *Store) GetCampaign(ctx context.Context, campID id.CampaignID) (*announce.Campaign, error) {
	var m campaignModel
	err := s.db.Collection(colCampaigns).FindOne(ctx, bson.M{"_id": campID.String()}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, checkout.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("checkout/mongo: get campaign: %w", err)
	}

	c, err := fromCampaignModel(&m)
	if err != nil {
		return nil, fmt.Errorf("checkout/mongo: get campaign: %w", err)
	}
	return c, nil
}

// ListCampaigns returns all campaigns, oldest first.
func (s *Store) ListCampaigns(ctx context.Context) ([]*announce.Campaign, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.db.Collection(colCampaigns).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("checkout/mongo: list campaigns: %w", err)
	}
	defer cursor.Close(ctx)

	var models []campaignModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("checkout/mongo: list campaigns decode: %w", err)
	}

	result := make([]*announce.Campaign, 0, len(models))
	for i := range models {
		c, convErr := fromCampaignModel(&models[i])
		if convErr != nil {
			return nil, fmt.Errorf("checkout/mongo: list campaigns convert: %w", convErr)
		}
		result = append(result, c)
	}
	return result, nil
}

// DeleteCampaign removes a campaign by ID.
func (s *Store) DeleteCampaign(ctx context.Context, campID id.CampaignID) error {
	_, err := s.db.Collection(colCampaigns).DeleteOne(ctx, bson.M{"_id": campID.String()})
	if err != nil {
		return fmt.Errorf("checkout/mongo: delete campaign: %w", err)
	}
	return nil
}

// SaveDismissal upserts the (session, announcement) pair; repeats are
// absorbed by the unique index.
func (s *Store) SaveDismissal(ctx context.Context, sessionKey string, annID id.AnnouncementID) error {
	m := dismissalModel{
		SessionKey:     sessionKey,
		AnnouncementID: annID.String(),
		DismissedAt:    now(),
	}
	_, err := s.db.Collection(colDismissals).ReplaceOne(ctx,
		bson.M{"session_key": sessionKey, "announcement_id": annID.String()}, m,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("checkout/mongo: save dismissal: %w", err)
	}
	return nil
}

// IsDismissed reports whether the session dismissed the announcement.
func (s *Store) IsDismissed(ctx context.Context, sessionKey string, annID id.AnnouncementID) (bool, error) {
	count, err := s.db.Collection(colDismissals).CountDocuments(ctx,
		bson.M{"session_key": sessionKey, "announcement_id": annID.String()},
	)
	if err != nil {
		return false, fmt.Errorf("checkout/mongo: is dismissed: %w", err)
	}
	return count > 0, nil
}
