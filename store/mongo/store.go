// Package mongo implements store.Store using the official MongoDB
// driver. Each subsystem gets its own collection; Migrate creates the
// indexes. Session state travels as a JSON blob so the storage format
// matches the other backends byte for byte.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/chanderbhanswami/vardhman-mills-sub017/announce"
	"github.com/chanderbhanswami/vardhman-mills-sub017/cart"
	"github.com/chanderbhanswami/vardhman-mills-sub017/flow"
)

// Collection name constants.
const (
	colProgress      = "checkout_progress"
	colCarts         = "checkout_carts"
	colAnnouncements = "checkout_announcements"
	colCampaigns     = "checkout_campaigns"
	colDismissals    = "checkout_dismissals"
)

// Ensure Store implements all subsystem interfaces at compile time.
var (
	_ flow.Store     = (*Store)(nil)
	_ cart.Store     = (*Store)(nil)
	_ announce.Store = (*Store)(nil)
)

// Store is a MongoDB implementation of store.Store.
type Store struct {
	client *mongod.Client
	db     *mongod.Database
	logger *slog.Logger

	// owned is true when New created the client, making Close
	// responsible for disconnecting it.
	owned bool
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New connects to MongoDB and returns a store over the named database.
func New(ctx context.Context, uri, database string, opts ...Option) (*Store, error) {
	client, err := mongod.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("checkout/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("checkout/mongo: ping: %w", err)
	}

	s := &Store{
		client: client,
		db:     client.Database(database),
		logger: slog.Default(),
		owned:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromDatabase creates a Store from an existing database handle.
// The caller owns the client lifecycle; Close becomes a no-op.
func NewFromDatabase(db *mongod.Database, opts ...Option) *Store {
	s := &Store{
		client: db.Client(),
		db:     db,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Database returns the underlying database handle for advanced usage.
func (s *Store) Database() *mongod.Database {
	return s.db
}

// Migrate creates indexes for all checkout collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}

		_, err := s.db.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("checkout/mongo: migrate %s indexes: %w", col, err)
		}
	}

	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client when this store created it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

// ── helpers ──────────────────────────────────────────────────────

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments returns true when err indicates no MongoDB documents found.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all checkout collections.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colAnnouncements: {
			// Listing order: priority DESC, created_at ASC.
			{Keys: bson.D{
				{Key: "priority", Value: -1},
				{Key: "created_at", Value: 1},
			}},
		},
		colCampaigns: {
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
		colDismissals: {
			// Unique compound index on (session_key, announcement_id).
			{
				Keys:    bson.D{{Key: "session_key", Value: 1}, {Key: "announcement_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}
}
