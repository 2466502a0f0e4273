// Package stream provides a real-time event broker for checkout and
// announcement lifecycle events. It bridges the hook system to
// connected UI clients via topic-based pub/sub.
package stream

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of lifecycle event.
type EventType string

const (
	// Session events.
	EventSessionStarted   EventType = "session.started"
	EventSessionCompleted EventType = "session.completed"
	EventSessionAbandoned EventType = "session.abandoned"

	// Step events.
	EventStepEntered      EventType = "step.entered"
	EventStepCompleted    EventType = "step.completed"
	EventValidationFailed EventType = "step.validation_failed"

	// Announcement events.
	EventAnnouncementPublished EventType = "announcement.published"
)

// Event is the envelope sent to subscribers on a topic channel.
type Event struct {
	// Type identifies the lifecycle event.
	Type EventType `json:"type"`

	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"ts"`

	// Topic is the channel this event was published on.
	Topic string `json:"topic"`

	// Data is the event-specific payload.
	Data json.RawMessage `json:"data"`
}

// SessionEventData is the payload for session and step lifecycle events.
type SessionEventData struct {
	SessionKey string   `json:"session_key"`
	Step       string   `json:"step,omitempty"`
	ElapsedMs  int64    `json:"elapsed_ms,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// AnnouncementEventData is the payload for announcement events.
type AnnouncementEventData struct {
	AnnouncementID string `json:"announcement_id"`
	Message        string `json:"message"`
}
