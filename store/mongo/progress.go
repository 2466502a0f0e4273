package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/flow"
)

// SaveProgress upserts the session's state blob.
func (s *Store) SaveProgress(ctx context.Context, key string, st *flow.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("checkout/mongo: marshal progress: %w", err)
	}

	m := progressModel{Key: key, State: data, UpdatedAt: time.Now().UTC()}
	_, err = s.db.Collection(colProgress).ReplaceOne(ctx,
		bson.M{"_id": key}, m,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("checkout/mongo: save progress: %w", err)
	}
	return nil
}

// LoadProgress retrieves the session's persisted state. The second
// return value reports whether an entry existed.
func (s *Store) LoadProgress(ctx context.Context, key string) (*flow.State, bool, error) {
	var m progressModel
	err := s.db.Collection(colProgress).FindOne(ctx, bson.M{"_id": key}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("checkout/mongo: load progress: %w", err)
	}

	var st flow.State
	if err := json.Unmarshal(m.State, &st); err != nil {
		return nil, false, fmt.Errorf("checkout/mongo: unmarshal progress: %w: %w", checkout.ErrCorruptState, err)
	}
	return &st, true, nil
}

// ClearProgress removes the session's persisted state.
func (s *Store) ClearProgress(ctx context.Context, key string) error {
	_, err := s.db.Collection(colProgress).DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("checkout/mongo: clear progress: %w", err)
	}
	return nil
}
