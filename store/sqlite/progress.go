package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/flow"
)

// SaveProgress upserts the session's state as a JSON blob.
func (s *Store) SaveProgress(ctx context.Context, key string, st *flow.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("checkout/sqlite: marshal progress: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkout_progress (session_key, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (session_key)
		DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		key, string(data), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("checkout/sqlite: save progress: %w", err)
	}
	return nil
}

// LoadProgress retrieves the session's persisted state. The second
// return value reports whether an entry existed.
func (s *Store) LoadProgress(ctx context.Context, key string) (*flow.State, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM checkout_progress WHERE session_key = ?`,
		key,
	).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("checkout/sqlite: load progress: %w", err)
	}

	var st flow.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, false, fmt.Errorf("checkout/sqlite: unmarshal progress: %w: %w", checkout.ErrCorruptState, err)
	}
	return &st, true, nil
}

// ClearProgress removes the session's persisted state.
func (s *Store) ClearProgress(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM checkout_progress WHERE session_key = ?`,
		key,
	)
	if err != nil {
		return fmt.Errorf("checkout/sqlite: clear progress: %w", err)
	}
	return nil
}
