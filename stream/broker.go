package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chanderbhanswami/vardhman-mills-sub017/hook"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// Compile-time interface checks.
var (
	_ hook.Hook                  = (*Broker)(nil)
	_ hook.SessionStarted        = (*Broker)(nil)
	_ hook.StepEntered           = (*Broker)(nil)
	_ hook.StepCompleted         = (*Broker)(nil)
	_ hook.ValidationFailed      = (*Broker)(nil)
	_ hook.SessionCompleted      = (*Broker)(nil)
	_ hook.SessionAbandoned      = (*Broker)(nil)
	_ hook.AnnouncementPublished = (*Broker)(nil)
	_ hook.Shutdown              = (*Broker)(nil)
)

// DefaultBufferSize is the default per-subscriber event buffer.
const DefaultBufferSize = 256

// DefaultCredits is the default initial credits for new subscribers.
const DefaultCredits int64 = 1000

// Broker is the real-time stream broker. It implements the hook
// interfaces to receive lifecycle events and fans them out to
// subscribers via topic-based pub/sub.
type Broker struct {
	topics *TopicRegistry
	logger *slog.Logger

	// Subscriber management.
	subscribers sync.Map // subscriberID → *Subscriber

	// Metrics.
	totalPublished atomic.Int64
	totalDropped   atomic.Int64

	// Config.
	bufferSize     int
	defaultCredits int64
}

// BrokerOption configures a Broker.
type BrokerOption func(*Broker)

// WithBufferSize sets the per-subscriber event buffer size.
func WithBufferSize(size int) BrokerOption {
	return func(b *Broker) { b.bufferSize = size }
}

// WithDefaultCredits sets the initial credits for new subscribers.
func WithDefaultCredits(credits int64) BrokerOption {
	return func(b *Broker) { b.defaultCredits = credits }
}

// NewBroker creates a new stream broker.
func NewBroker(logger *slog.Logger, opts ...BrokerOption) *Broker {
	b := &Broker{
		topics:         NewTopicRegistry(),
		logger:         logger,
		bufferSize:     DefaultBufferSize,
		defaultCredits: DefaultCredits,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements hook.Hook.
func (b *Broker) Name() string { return "stream-broker" }

// Topics returns the topic registry for external use.
func (b *Broker) Topics() *TopicRegistry { return b.topics }

// Subscribe creates a new subscriber on the given topics.
func (b *Broker) Subscribe(subscriberID string, topics ...string) *Subscriber {
	sub := NewSubscriber(subscriberID, b.bufferSize, b.defaultCredits)
	b.subscribers.Store(subscriberID, sub)
	for _, topic := range topics {
		b.topics.Subscribe(topic, sub)
	}
	return sub
}

// SubscribeTo adds an existing subscriber to additional topics.
func (b *Broker) SubscribeTo(subscriberID string, topics ...string) {
	val, ok := b.subscribers.Load(subscriberID)
	if !ok {
		return
	}
	sub := val.(*Subscriber) //nolint:errcheck // sync.Map always stores *Subscriber
	for _, topic := range topics {
		b.topics.Subscribe(topic, sub)
	}
}

// Unsubscribe removes a subscriber from specific topics.
func (b *Broker) Unsubscribe(subscriberID string, topics ...string) {
	for _, topic := range topics {
		b.topics.Unsubscribe(topic, subscriberID)
	}
}

// RemoveSubscriber removes a subscriber from all topics and closes it.
func (b *Broker) RemoveSubscriber(subscriberID string) {
	b.topics.UnsubscribeAll(subscriberID)
	if val, ok := b.subscribers.LoadAndDelete(subscriberID); ok {
		val.(*Subscriber).Close() //nolint:errcheck // sync.Map always stores *Subscriber
	}
}

// GetSubscriber returns a subscriber by ID.
func (b *Broker) GetSubscriber(subscriberID string) (*Subscriber, bool) {
	val, ok := b.subscribers.Load(subscriberID)
	if !ok {
		return nil, false
	}
	return val.(*Subscriber), true //nolint:errcheck // sync.Map always stores *Subscriber
}

// Stats returns broker statistics.
func (b *Broker) Stats() BrokerStats {
	count := 0
	b.subscribers.Range(func(_, _ any) bool {
		count++
		return true
	})
	return BrokerStats{
		TopicCount:      b.topics.TopicCount(),
		SubscriberCount: count,
		TotalPublished:  b.totalPublished.Load(),
		TotalDropped:    b.totalDropped.Load(),
	}
}

// BrokerStats contains broker metrics.
type BrokerStats struct {
	TopicCount      int   `json:"topic_count"`
	SubscriberCount int   `json:"subscriber_count"`
	TotalPublished  int64 `json:"total_published"`
	TotalDropped    int64 `json:"total_dropped"`
}

// publish creates an event and broadcasts it to all matching topics.
func (b *Broker) publish(evt *Event) {
	topics := resolveTopics(evt)
	delivered, dropped := b.topics.Broadcast(topics, evt)
	b.totalPublished.Add(int64(delivered))
	b.totalDropped.Add(int64(dropped))
}

// mustMarshal marshals data to JSON, panicking on error (programming error).
func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic("stream: marshal event data: " + err.Error())
	}
	return data
}

// ── Session lifecycle hooks ─────────────────────────

func (b *Broker) OnSessionStarted(_ context.Context, sessionKey string, first step.Step) error {
	b.publish(&Event{
		Type:      EventSessionStarted,
		Timestamp: time.Now().UTC(),
		Topic:     SessionTopic(sessionKey),
		Data: mustMarshal(SessionEventData{
			SessionKey: sessionKey,
			Step:       first.String(),
		}),
	})
	return nil
}

func (b *Broker) OnStepEntered(_ context.Context, sessionKey string, s step.Step) error {
	b.publish(&Event{
		Type:      EventStepEntered,
		Timestamp: time.Now().UTC(),
		Topic:     SessionTopic(sessionKey),
		Data: mustMarshal(SessionEventData{
			SessionKey: sessionKey,
			Step:       s.String(),
		}),
	})
	return nil
}

func (b *Broker) OnStepCompleted(_ context.Context, sessionKey string, s step.Step, elapsed time.Duration) error {
	b.publish(&Event{
		Type:      EventStepCompleted,
		Timestamp: time.Now().UTC(),
		Topic:     SessionTopic(sessionKey),
		Data: mustMarshal(SessionEventData{
			SessionKey: sessionKey,
			Step:       s.String(),
			ElapsedMs:  elapsed.Milliseconds(),
		}),
	})
	return nil
}

func (b *Broker) OnValidationFailed(_ context.Context, sessionKey string, s step.Step, errs []string) error {
	b.publish(&Event{
		Type:      EventValidationFailed,
		Timestamp: time.Now().UTC(),
		Topic:     SessionTopic(sessionKey),
		Data: mustMarshal(SessionEventData{
			SessionKey: sessionKey,
			Step:       s.String(),
			Errors:     errs,
		}),
	})
	return nil
}

func (b *Broker) OnSessionCompleted(_ context.Context, sessionKey string, elapsed time.Duration) error {
	b.publish(&Event{
		Type:      EventSessionCompleted,
		Timestamp: time.Now().UTC(),
		Topic:     SessionTopic(sessionKey),
		Data: mustMarshal(SessionEventData{
			SessionKey: sessionKey,
			ElapsedMs:  elapsed.Milliseconds(),
		}),
	})
	return nil
}

func (b *Broker) OnSessionAbandoned(_ context.Context, sessionKey string, last step.Step) error {
	b.publish(&Event{
		Type:      EventSessionAbandoned,
		Timestamp: time.Now().UTC(),
		Topic:     SessionTopic(sessionKey),
		Data: mustMarshal(SessionEventData{
			SessionKey: sessionKey,
			Step:       last.String(),
		}),
	})
	return nil
}

// ── Announcement hooks ──────────────────────────────

func (b *Broker) OnAnnouncementPublished(_ context.Context, annID id.AnnouncementID, message string) error {
	b.publish(&Event{
		Type:      EventAnnouncementPublished,
		Timestamp: time.Now().UTC(),
		Data: mustMarshal(AnnouncementEventData{
			AnnouncementID: annID.String(),
			Message:        message,
		}),
	})
	return nil
}

// ── Shutdown ────────────────────────────────────────

func (b *Broker) OnShutdown(_ context.Context) error {
	b.subscribers.Range(func(key, value any) bool {
		sub := value.(*Subscriber) //nolint:errcheck // sync.Map always stores *Subscriber
		sub.Close()
		b.subscribers.Delete(key)
		return true
	})
	b.logger.Info("stream broker shut down")
	return nil
}
