package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/announce"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// SaveAnnouncement upserts an announcement row.
func (s *Store) SaveAnnouncement(ctx context.Context, a *announce.Announcement) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO checkout_announcements
			(id, message, href, variant, priority, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id)
		DO UPDATE SET message = EXCLUDED.message,
		              href = EXCLUDED.href,
		              variant = EXCLUDED.variant,
		              priority = EXCLUDED.priority,
		              starts_at = EXCLUDED.starts_at,
		              ends_at = EXCLUDED.ends_at,
		              updated_at = EXCLUDED.updated_at`,
		a.ID.String(), a.Message, a.Href, string(a.Variant), a.Priority,
		a.StartsAt, a.EndsAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("checkout/postgres: save announcement: %w", err)
	}
	return nil
}

// GetAnnouncement retrieves an announcement by ID.
func (s *Store) GetAnnouncement(ctx context.Context, annID id.AnnouncementID) (*announce.Announcement, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, message, href, variant, priority, starts_at, ends_at, created_at, updated_at
		FROM checkout_announcements WHERE id = $1`,
		annID.String(),
	)
	a, err := scanAnnouncement(row)
	if err != nil {
		if isNoRows(err) {
			return nil, checkout.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("checkout/postgres: get announcement: %w", err)
	}
	return a, nil
}

// ListAnnouncements returns all announcements, highest priority first,
// oldest first within the same priority.
func (s *Store) ListAnnouncements(ctx context.Context) ([]*announce.Announcement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, message, href, variant, priority, starts_at, ends_at, created_at, updated_at
		FROM checkout_announcements
		ORDER BY priority DESC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("checkout/postgres: list announcements: %w", err)
	}
	defer rows.Close()

	var result []*announce.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("checkout/postgres: scan announcement: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checkout/postgres: list announcements: %w", err)
	}
	return result, nil
}

// DeleteAnnouncement removes an announcement by ID.
func (s *Store) DeleteAnnouncement(ctx context.Context, annID id.AnnouncementID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM checkout_announcements WHERE id = $1`,
		annID.String(),
	)
	if err != nil {
		return fmt.Errorf("checkout/postgres: delete announcement: %w", err)
	}
	return nil
}

// SaveCampaign upserts a campaign row. The announcement rotation is
// stored as a JSONB array of IDs.
func (s *Store) SaveCampaign(ctx context.Context, c *announce.Campaign) error {
	anns, err := json.Marshal(c.Announcements)
	if err != nil {
		return fmt.Errorf("checkout/postgres: marshal campaign rotation: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO checkout_campaigns
			(id, name, schedule, announcements, next_index, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name,
		              schedule = EXCLUDED.schedule,
		              announcements = EXCLUDED.announcements,
		              next_index = EXCLUDED.next_index,
		              updated_at = EXCLUDED.updated_at`,
		c.ID.String(), c.Name, c.Schedule, anns, c.NextIndex, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("checkout/postgres: save campaign: %w", err)
	}
	return nil
}

// GetCampaign retrieves a campaign by ID.
func (s *Store) GetCampaign(ctx context.Context, campID id.CampaignID) (*announce.Campaign, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, schedule, announcements, next_index, created_at, updated_at
		FROM checkout_campaigns WHERE id = $1`,
		campID.String(),
	)
	c, err := scanCampaign(row)
	if err != nil {
		if isNoRows(err) {
			return nil, checkout.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("checkout/postgres: get campaign: %w", err)
	}
	return c, nil
}

// ListCampaigns returns all campaigns, oldest first.
func (s *Store) ListCampaigns(ctx context.Context) ([]*announce.Campaign, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, schedule, announcements, next_index, created_at, updated_at
		FROM checkout_campaigns
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("checkout/postgres: list campaigns: %w", err)
	}
	defer rows.Close()

	var result []*announce.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("checkout/postgres: scan campaign: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checkout/postgres: list campaigns: %w", err)
	}
	return result, nil
}

// DeleteCampaign removes a campaign by ID.
func (s *Store) DeleteCampaign(ctx context.Context, campID id.CampaignID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM checkout_campaigns WHERE id = $1`,
		campID.String(),
	)
	if err != nil {
		return fmt.Errorf("checkout/postgres: delete campaign: %w", err)
	}
	return nil
}

// SaveDismissal records a dismissal; repeats are ignored.
func (s *Store) SaveDismissal(ctx context.Context, sessionKey string, annID id.AnnouncementID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO checkout_dismissals (session_key, announcement_id, dismissed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_key, announcement_id) DO NOTHING`,
		sessionKey, annID.String(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("checkout/postgres: save dismissal: %w", err)
	}
	return nil
}

// IsDismissed reports whether the session dismissed the announcement.
func (s *Store) IsDismissed(ctx context.Context, sessionKey string, annID id.AnnouncementID) (bool, error) {
	var dismissed bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM checkout_dismissals
			WHERE session_key = $1 AND announcement_id = $2
		)`,
		sessionKey, annID.String(),
	).Scan(&dismissed)
	if err != nil {
		return false, fmt.Errorf("checkout/postgres: is dismissed: %w", err)
	}
	return dismissed, nil
}

// rowScanner abstracts pgx.Row and pgx.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnouncement(row rowScanner) (*announce.Announcement, error) {
	var (
		a     announce.Announcement
		annID string
		href  *string
	)
	err := row.Scan(&annID, &a.Message, &href, &a.Variant, &a.Priority,
		&a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.ID, err = id.ParseAnnouncementID(annID)
	if err != nil {
		return nil, err
	}
	if href != nil {
		a.Href = *href
	}
	return &a, nil
}

func scanCampaign(row rowScanner) (*announce.Campaign, error) {
	var (
		c      announce.Campaign
		campID string
		anns   []byte
	)
	err := row.Scan(&campID, &c.Name, &c.Schedule, &anns, &c.NextIndex,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ID, err = id.ParseCampaignID(campID)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(anns, &c.Announcements); err != nil {
		return nil, err
	}
	return &c, nil
}
