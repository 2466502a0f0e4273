package flow

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// saver debounces progress writes. Rapid transitions collapse into a
// single store call after the quiet period; a zero debounce writes
// synchronously.
type saver struct {
	store    Store
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *State
	key     string
}

func newSaver(store Store, logger *slog.Logger, debounce time.Duration) *saver {
	return &saver{store: store, logger: logger, debounce: debounce}
}

// Save schedules a write of st under key. With a zero debounce the
// write happens before Save returns.
func (w *saver) Save(ctx context.Context, key string, st *State) error {
	if w.debounce <= 0 {
		return w.store.SaveProgress(ctx, key, st)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.key = key
	w.pending = st
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushLocked)
	return nil
}

// flushLocked fires from the timer goroutine. The session may be gone
// by now, so failures are logged rather than returned.
func (w *saver) flushLocked() {
	w.mu.Lock()
	st, key := w.pending, w.key
	w.pending = nil
	w.mu.Unlock()

	if st == nil {
		return
	}
	if err := w.store.SaveProgress(context.Background(), key, st); err != nil {
		w.logger.Error("debounced progress save failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// Flush writes any pending state immediately and cancels the timer.
func (w *saver) Flush(ctx context.Context) error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	st, key := w.pending, w.key
	w.pending = nil
	w.mu.Unlock()

	if st == nil {
		return nil
	}
	return w.store.SaveProgress(ctx, key, st)
}

// Discard drops any pending write.
func (w *saver) Discard() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = nil
	w.mu.Unlock()
}
