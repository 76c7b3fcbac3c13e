package calendarv1

import (
	"github.com/goccy/go-json"
	"google.golang.org/grpc/encoding"
)

// CodecName — content-subtype, под которым сообщения ходят по gRPC ("application/grpc+json").
const CodecName = "json"

// Codec сериализует сообщения сервиса в JSON вместо protobuf.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(Codec{})
}
