package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/flow"
)

// SaveProgress upserts the session's state as a JSONB blob.
func (s *Store) SaveProgress(ctx context.Context, key string, st *flow.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("checkout/postgres: marshal progress: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO checkout_progress (session_key, state, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_key)
		DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`,
		key, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("checkout/postgres: save progress: %w", err)
	}
	return nil
}

// LoadProgress retrieves the session's persisted state. The second
// return value reports whether an entry existed.
func (s *Store) LoadProgress(ctx context.Context, key string) (*flow.State, bool, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT state FROM checkout_progress WHERE session_key = $1`,
		key,
	).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("checkout/postgres: load progress: %w", err)
	}

	var st flow.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, false, fmt.Errorf("checkout/postgres: unmarshal progress: %w: %w", checkout.ErrCorruptState, err)
	}
	return &st, true, nil
}

// ClearProgress removes the session's persisted state.
func (s *Store) ClearProgress(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM checkout_progress WHERE session_key = $1`,
		key,
	)
	if err != nil {
		return fmt.Errorf("checkout/postgres: clear progress: %w", err)
	}
	return nil
}
