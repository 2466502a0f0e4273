// Package store defines the aggregate persistence interface. Each
// subsystem (flow, cart, announce) defines its own store interface.
// The composite Store composes them all. Backends: Postgres, SQLite,
// Redis, Mongo, and Memory.
package store

import (
	"context"

	"github.com/chanderbhanswami/vardhman-mills-sub017/announce"
	"github.com/chanderbhanswami/vardhman-mills-sub017/cart"
	"github.com/chanderbhanswami/vardhman-mills-sub017/flow"
)

// Store is the aggregate persistence interface.
// Each subsystem store is a composable interface; a single backend
// (postgres, sqlite, redis, mongo, memory) implements all of them.
type Store interface {
	flow.Store
	cart.Store
	announce.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
