package announce

import "github.com/vmihailenco/msgpack/v5"

// MsgpackCodec encodes/decodes feed messages as MessagePack.
type MsgpackCodec struct{}

func (c *MsgpackCodec) Encode(msg *FeedMessage) ([]byte, error) {
	return msgpack.Marshal(msg)
}

func (c *MsgpackCodec) Decode(data []byte) (*FeedMessage, error) {
	var m FeedMessage
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *MsgpackCodec) Name() string { return CodecNameMsgpack }
