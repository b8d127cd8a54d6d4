// Package json provides a JSON codec implementation.
package json

import (
	"github.com/goccy/go-json"
	"github.com/tidwall/jsonc"

	"github.com/moltdata/molt"
)

// jsonCodec implements molt.Codec for JSON.
type jsonCodec struct {
	lenient bool
}

// New returns a strict JSON codec.
func New() molt.Codec {
	return &jsonCodec{}
}

// NewLenient returns a JSON codec that accepts dirty input on
// unmarshal: comments and trailing commas are stripped before parsing.
// Marshal output is always strict JSON.
func NewLenient() molt.Codec {
	return &jsonCodec{lenient: true}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	if c.lenient {
		data = jsonc.ToJSON(data)
	}
	return json.Unmarshal(data, v)
}
