// Package toml provides a TOML codec implementation.
package toml

import (
	"bytes"

	"github.com/BurntSushi/toml"

	"github.com/moltdata/molt"
)

// tomlCodec implements molt.Codec for TOML.
type tomlCodec struct{}

// New returns a TOML codec.
func New() molt.Codec {
	return &tomlCodec{}
}

// ContentType returns the MIME type for TOML.
func (c *tomlCodec) ContentType() string {
	return "application/toml"
}

// Marshal encodes v as TOML. TOML documents are tables at the top
// level, so v must marshal to a table (struct or map).
func (c *tomlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes TOML data into v.
func (c *tomlCodec) Unmarshal(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}
