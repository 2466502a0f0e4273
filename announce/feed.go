package announce

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/chanderbhanswami/vardhman-mills-sub017/backoff"
)

// MessageHandler processes a decoded feed message.
type MessageHandler func(ctx context.Context, msg *FeedMessage)

// Feed is a WebSocket client for the live announcement feed. It reads
// messages pushed by the backend, decodes them with the configured
// codec, and hands them to the handler. Lost connections are retried
// with the configured backoff strategy until the feed is closed.
type Feed struct {
	url     string
	codec   Codec
	delay   backoff.Strategy
	logger  *slog.Logger
	handler MessageHandler

	// Connection state.
	conn   net.Conn
	mu     sync.Mutex
	closed atomic.Bool
}

// NewFeed creates a feed client. It does not connect; call Run.
func NewFeed(url string, codec Codec, delay backoff.Strategy, logger *slog.Logger, handler MessageHandler) *Feed {
	if codec == nil {
		codec = &JSONCodec{}
	}
	if delay == nil {
		delay = backoff.DefaultStrategy()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		url:     url,
		codec:   codec,
		delay:   delay,
		logger:  logger,
		handler: handler,
	}
}

// Run connects to the feed and reads messages until the context is
// canceled or Close is called. Dial failures and dropped connections
// are retried; the attempt counter resets after each successful
// connection.
func (f *Feed) Run(ctx context.Context) {
	attempt := 0
	for {
		if f.closed.Load() || ctx.Err() != nil {
			return
		}

		if err := f.connect(ctx); err != nil {
			attempt++
			f.logger.Warn("announcement feed dial failed",
				slog.String("url", f.url),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			if !f.sleep(ctx, f.delay.Delay(attempt)) {
				return
			}
			continue
		}

		attempt = 0
		f.logger.Info("announcement feed connected",
			slog.String("url", f.url),
			slog.String("codec", f.codec.Name()),
		)

		f.readLoop(ctx)

		if f.closed.Load() || ctx.Err() != nil {
			return
		}
		attempt++
		if !f.sleep(ctx, f.delay.Delay(attempt)) {
			return
		}
	}
}

// connect establishes the WebSocket connection and sends an initial
// ping so the server registers the subscriber.
func (f *Feed) connect(ctx context.Context) error {
	conn, _, _, err := ws.Dial(ctx, f.url)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	hello, err := f.codec.Encode(&FeedMessage{Type: MessagePing})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("encode hello: %w", err)
	}
	if err := wsutil.WriteClientText(conn, hello); err != nil {
		_ = conn.Close()
		return fmt.Errorf("write hello: %w", err)
	}

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()
	return nil
}

// readLoop reads messages from the WebSocket and dispatches them until
// the connection drops.
func (f *Feed) readLoop(ctx context.Context) {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()

	defer func() { _ = conn.Close() }()

	for {
		if f.closed.Load() {
			return
		}

		data, err := wsutil.ReadServerText(conn)
		if err != nil {
			if f.closed.Load() {
				return
			}
			f.logger.Warn("announcement feed read error", slog.String("error", err.Error()))
			return
		}

		msg, err := f.codec.Decode(data)
		if err != nil {
			f.logger.Warn("announcement feed: invalid message", slog.String("error", err.Error()))
			continue
		}
		if msg.Type == MessagePing {
			continue
		}

		f.handler(ctx, msg)
	}
}

// sleep waits for d or until the context is canceled or the feed is
// closed. Returns false when the wait was interrupted.
func (f *Feed) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return !f.closed.Load()
	case <-ctx.Done():
		return false
	}
}

// Close stops the feed and closes the active connection.
func (f *Feed) Close() error {
	if f.closed.Swap(true) {
		return nil // already closed
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}
