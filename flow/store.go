package flow

import "context"

// Store defines the persistence contract for session progress.
//
// Load distinguishes three outcomes: (state, true, nil) when a valid
// entry exists, (nil, false, nil) when no entry exists, and
// (nil, false, err) when the entry exists but cannot be decoded — in
// that case err wraps checkout.ErrCorruptState. Callers must handle
// the corrupt case explicitly; it is never silently treated as absent.
type Store interface {
	// SaveProgress persists the session state under the given key,
	// replacing any previous entry.
	SaveProgress(ctx context.Context, key string, st *State) error

	// LoadProgress retrieves the session state for a key.
	LoadProgress(ctx context.Context, key string) (*State, bool, error)

	// ClearProgress removes the persisted entry for a key. Clearing a
	// missing key is not an error.
	ClearProgress(ctx context.Context, key string) error
}
