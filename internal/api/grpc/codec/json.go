// Package codec registers a JSON wire codec for gRPC. Clients select it
// with the "application/grpc+json" content type, or grpc.CallContentSubtype(Name).
package codec

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Name is the content-subtype the codec is registered under.
const Name = "json"

// JSON marshals messages as plain JSON documents.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (JSON) Name() string {
	return Name
}

func init() {
	encoding.RegisterCodec(JSON{})
}
