package announce

import "encoding/json"

// JSONCodec encodes/decodes feed messages as JSON.
type JSONCodec struct{}

func (c *JSONCodec) Encode(msg *FeedMessage) ([]byte, error) {
	return json.Marshal(msg)
}

func (c *JSONCodec) Decode(data []byte) (*FeedMessage, error) {
	var m FeedMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *JSONCodec) Name() string { return CodecNameJSON }
