package announce

import "time"

// FeedMessage is the wire format of the announcement feed. Banner
// fields travel as primitives; IDs are parsed into typed IDs at the
// service boundary.
type FeedMessage struct {
	Type           MessageType `json:"type" msgpack:"type"`
	AnnouncementID string      `json:"announcementId,omitempty" msgpack:"announcementId,omitempty"`
	Message        string      `json:"message,omitempty" msgpack:"message,omitempty"`
	Href           string      `json:"href,omitempty" msgpack:"href,omitempty"`
	Variant        string      `json:"variant,omitempty" msgpack:"variant,omitempty"`
	Priority       int         `json:"priority,omitempty" msgpack:"priority,omitempty"`
	StartsAt       *time.Time  `json:"startsAt,omitempty" msgpack:"startsAt,omitempty"`
	EndsAt         *time.Time  `json:"endsAt,omitempty" msgpack:"endsAt,omitempty"`
}

// MessageType discriminates feed messages.
type MessageType string

const (
	// MessagePublish carries a new or updated banner.
	MessagePublish MessageType = "publish"
	// MessageRevoke withdraws a banner by ID.
	MessageRevoke MessageType = "revoke"
	// MessagePing is a keepalive; it carries no payload.
	MessagePing MessageType = "ping"
)

// Codec defines the serialization contract for feed messages.
type Codec interface {
	// Encode serializes a message to bytes.
	Encode(msg *FeedMessage) ([]byte, error)

	// Decode deserializes bytes into a message.
	Decode(data []byte) (*FeedMessage, error)

	// Name returns the codec identifier (e.g., "json", "msgpack").
	Name() string
}

// CodecName constants for format negotiation.
const (
	CodecNameJSON    = "json"
	CodecNameMsgpack = "msgpack"
)

// GetCodec returns a codec by name. Defaults to JSON.
func GetCodec(name string) Codec {
	switch name {
	case CodecNameMsgpack:
		return &MsgpackCodec{}
	case CodecNameJSON, "":
		return &JSONCodec{}
	default:
		return &JSONCodec{}
	}
}
