package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/flow"
)

// SaveProgress stores the session's state as a JSON string, refreshing
// the TTL when one is configured.
func (s *Store) SaveProgress(ctx context.Context, key string, st *flow.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("checkout/redis: marshal progress: %w", err)
	}
	if err := s.client.Set(ctx, progressKey(key), data, s.sessionTTL).Err(); err != nil {
		return fmt.Errorf("checkout/redis: save progress: %w", err)
	}
	return nil
}

// LoadProgress retrieves the session's persisted state. The second
// return value reports whether an entry existed.
func (s *Store) LoadProgress(ctx context.Context, key string) (*flow.State, bool, error) {
	data, err := s.client.Get(ctx, progressKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("checkout/redis: load progress: %w", err)
	}

	var st flow.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, false, fmt.Errorf("checkout/redis: unmarshal progress: %w: %w", checkout.ErrCorruptState, err)
	}
	return &st, true, nil
}

// ClearProgress removes the session's persisted state.
func (s *Store) ClearProgress(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, progressKey(key)).Err(); err != nil {
		return fmt.Errorf("checkout/redis: clear progress: %w", err)
	}
	return nil
}
