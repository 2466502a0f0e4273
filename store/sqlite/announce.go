package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/announce"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// SaveAnnouncement upserts an announcement row.
func (s *Store) SaveAnnouncement(ctx context.Context, a *announce.Announcement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkout_announcements
			(id, message, href, variant, priority, starts_at, ends_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET message = excluded.message,
		              href = excluded.href,
		              variant = excluded.variant,
		              priority = excluded.priority,
		              starts_at = excluded.starts_at,
		              ends_at = excluded.ends_at,
		              updated_at = excluded.updated_at`,
		a.ID.String(), a.Message, a.Href, string(a.Variant), a.Priority,
		formatNullTime(a.StartsAt), formatNullTime(a.EndsAt),
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("checkout/sqlite: save announcement: %w", err)
	}
	return nil
}

// GetAnnouncement retrieves an announcement by ID.
func (s *Store) GetAnnouncement(ctx context.Context, annID id.AnnouncementID) (*announce.Announcement, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, message, href, variant, priority, starts_at, ends_at, created_at, updated_at
		FROM checkout_announcements WHERE id = ?`,
		annID.String(),
	)
	a, err := scanAnnouncement(row)
	if err != nil {
		if isNoRows(err) {
			return nil, checkout.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("checkout/sqlite: get announcement: %w", err)
	}
	return a, nil
}

// ListAnnouncements returns all announcements, highest priority first,
// oldest first within the same priority.
func (s *Store) ListAnnouncements(ctx context.Context) ([]*announce.Announcement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, href, variant, priority, starts_at, ends_at, created_at, updated_at
		FROM checkout_announcements
		ORDER BY priority DESC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("checkout/sqlite: list announcements: %w", err)
	}
	defer rows.Close()

	var result []*announce.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("checkout/sqlite: scan announcement: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checkout/sqlite: list announcements: %w", err)
	}
	return result, nil
}

// DeleteAnnouncement removes an announcement by ID.
func (s *Store) DeleteAnnouncement(ctx context.Context, annID id.AnnouncementID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM checkout_announcements WHERE id = ?`,
		annID.String(),
	)
	if err != nil {
		return fmt.Errorf("checkout/sqlite: delete announcement: %w", err)
	}
	return nil
}

// SaveCampaign upserts a campaign row. The rotation is stored as a JSON
// array of announcement IDs.
func (s *Store) SaveCampaign(ctx context.Context, c *announce.Campaign) error {
	anns, err := json.Marshal(c.Announcements)
	if err != nil {
		return fmt.Errorf("checkout/sqlite: marshal campaign rotation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkout_campaigns
			(id, name, schedule, announcements, next_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET name = excluded.name,
		              schedule = excluded.schedule,
		              announcements = excluded.announcements,
		              next_index = excluded.next_index,
		              updated_at = excluded.updated_at`,
		c.ID.String(), c.Name, c.Schedule, string(anns), c.NextIndex,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("checkout/sqlite: save campaign: %w", err)
	}
	return nil
}

// GetCampaign retrieves a campaign by ID.
func (s *Store) GetCampaign(ctx context.Context, campID id.CampaignID) (*announce.Campaign, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, schedule, announcements, next_index, created_at, updated_at
		FROM checkout_campaigns WHERE id = ?`,
		campID.String(),
	)
	c, err := scanCampaign(row)
	if err != nil {
		if isNoRows(err) {
			return nil, checkout.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("checkout/sqlite: get campaign: %w", err)
	}
	return c, nil
}

// ListCampaigns returns all campaigns, oldest first.
func (s *Store) ListCampaigns(ctx context.Context) ([]*announce.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, schedule, announcements, next_index, created_at, updated_at
		FROM checkout_campaigns
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("checkout/sqlite: list campaigns: %w", err)
	}
	defer rows.Close()

	var result []*announce.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("checkout/sqlite: scan campaign: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checkout/sqlite: list campaigns: %w", err)
	}
	return result, nil
}

// DeleteCampaign removes a campaign by ID.
func (s *Store) DeleteCampaign(ctx context.Context, campID id.CampaignID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM checkout_campaigns WHERE id = ?`,
		campID.String(),
	)
	if err != nil {
		return fmt.Errorf("checkout/sqlite: delete campaign: %w", err)
	}
	return nil
}

// SaveDismissal records a dismissal; repeats are ignored.
func (s *Store) SaveDismissal(ctx context.Context, sessionKey string, annID id.AnnouncementID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkout_dismissals (session_key, announcement_id, dismissed_at)
		VALUES (?, ?, ?)
		ON CONFLICT (session_key, announcement_id) DO NOTHING`,
		sessionKey, annID.String(), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("checkout/sqlite: save dismissal: %w", err)
	}
	return nil
}

// IsDismissed reports whether the session dismissed the announcement.
func (s *Store) IsDismissed(ctx context.Context, sessionKey string, annID id.AnnouncementID) (bool, error) {
	var dismissed bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM checkout_dismissals
			WHERE session_key = ? AND announcement_id = ?
		)`,
		sessionKey, annID.String(),
	).Scan(&dismissed)
	if err != nil {
		return false, fmt.Errorf("checkout/sqlite: is dismissed: %w", err)
	}
	return dismissed, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnouncement(row rowScanner) (*announce.Announcement, error) {
	var (
		a                  announce.Announcement
		annID, variant     string
		href               sql.NullString
		startsAt, endsAt   sql.NullString
		createdAt, updated string
	)
	err := row.Scan(&annID, &a.Message, &href, &variant, &a.Priority,
		&startsAt, &endsAt, &createdAt, &updated)
	if err != nil {
		return nil, err
	}

	if a.ID, err = id.ParseAnnouncementID(annID); err != nil {
		return nil, err
	}
	a.Variant = announce.Variant(variant)
	if href.Valid {
		a.Href = href.String
	}
	if a.StartsAt, err = parseNullTime(startsAt); err != nil {
		return nil, err
	}
	if a.EndsAt, err = parseNullTime(endsAt); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &a, nil
}

func scanCampaign(row rowScanner) (*announce.Campaign, error) {
	var (
		c                  announce.Campaign
		campID, anns       string
		createdAt, updated string
	)
	err := row.Scan(&campID, &c.Name, &c.Schedule, &anns, &c.NextIndex,
		&createdAt, &updated)
	if err != nil {
		return nil, err
	}

	if c.ID, err = id.ParseCampaignID(campID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(anns), &c.Announcements); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &c, nil
}
