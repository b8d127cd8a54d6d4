// Package typed provides a type-preserving JSON codec.
//
// Plain JSON loses the identity of times, big integers and binary
// data: everything comes back as strings and float64s. The typed codec
// wraps another codec and rewrites those values into small envelopes
// of the form {"$molt": "<kind>", "value": ...} on marshal, restoring
// them on unmarshal. Additional kinds can be registered with Register.
package typed

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/moltdata/molt"
	"github.com/moltdata/molt/json"
)

// envelopeKey marks a JSON object as a typed envelope.
const envelopeKey = "$molt"

// Transformer converts one kind between its native Go value and a
// JSON-representable payload.
type Transformer struct {
	// Encode reports whether it claims v, and if so returns the
	// envelope payload.
	Encode func(v any) (payload any, ok bool)

	// Decode rebuilds the native value from an envelope payload.
	Decode func(payload any) (any, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Transformer)
)

// Register binds a transformer to a kind name, replacing any previous
// binding. Built-in kinds are "date", "bigint" and "binary".
func Register(kind string, t Transformer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = t
}

// lookup returns the transformer for a kind.
func lookup(kind string) (Transformer, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[kind]
	return t, ok
}

// kinds returns registered kind names, for deterministic encode probing.
func kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	// Built-ins probe first so custom kinds cannot shadow them by accident.
	for _, k := range []string{"date", "bigint", "binary"} {
		if _, ok := registry[k]; ok {
			out = append(out, k)
		}
	}
	for k := range registry {
		if k == "date" || k == "bigint" || k == "binary" {
			continue
		}
		out = append(out, k)
	}
	return out
}

func init() {
	Register("date", Transformer{
		Encode: func(v any) (any, bool) {
			t, ok := v.(time.Time)
			if !ok {
				return nil, false
			}
			return t.UTC().Format(time.RFC3339Nano), true
		},
		Decode: func(payload any) (any, error) {
			s, ok := payload.(string)
			if !ok {
				return nil, fmt.Errorf("typed: date payload is %T, want string", payload)
			}
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, fmt.Errorf("typed: bad date payload: %w", err)
			}
			return t, nil
		},
	})

	Register("bigint", Transformer{
		Encode: func(v any) (any, bool) {
			n, ok := v.(*big.Int)
			if !ok {
				return nil, false
			}
			return n.String(), true
		},
		Decode: func(payload any) (any, error) {
			s, ok := payload.(string)
			if !ok {
				return nil, fmt.Errorf("typed: bigint payload is %T, want string", payload)
			}
			n, ok := new(big.Int).SetString(s, 10)
			if !ok {
				return nil, fmt.Errorf("typed: bad bigint payload %q", s)
			}
			return n, nil
		},
	})

	Register("binary", Transformer{
		Encode: func(v any) (any, bool) {
			b, ok := v.([]byte)
			if !ok {
				return nil, false
			}
			return base64.StdEncoding.EncodeToString(b), true
		},
		Decode: func(payload any) (any, error) {
			s, ok := payload.(string)
			if !ok {
				return nil, fmt.Errorf("typed: binary payload is %T, want string", payload)
			}
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("typed: bad binary payload: %w", err)
			}
			return b, nil
		},
	})
}

// typedCodec implements molt.Codec over an inner codec.
type typedCodec struct {
	inner molt.Codec
}

// New returns a typed codec over strict JSON.
func New() molt.Codec {
	return &typedCodec{inner: json.New()}
}

// Wrap returns a typed codec over an arbitrary inner codec.
func Wrap(inner molt.Codec) molt.Codec {
	return &typedCodec{inner: inner}
}

// ContentType returns the inner codec's MIME type.
func (c *typedCodec) ContentType() string {
	return c.inner.ContentType()
}

// Marshal rewrites registered kinds into envelopes, then delegates.
func (c *typedCodec) Marshal(v any) ([]byte, error) {
	rewritten, err := encodeValue(v)
	if err != nil {
		return nil, err
	}
	return c.inner.Marshal(rewritten)
}

// Unmarshal delegates to the inner codec, then restores envelopes.
// Restoration only applies to generic (*any) targets; typed targets
// pass through untouched.
func (c *typedCodec) Unmarshal(data []byte, v any) error {
	t, ok := v.(*any)
	if !ok {
		return c.inner.Unmarshal(data, v)
	}

	var raw any
	if err := c.inner.Unmarshal(data, &raw); err != nil {
		return err
	}
	restored, err := decodeValue(raw)
	if err != nil {
		return err
	}
	*t = restored
	return nil
}

func encodeValue(v any) (any, error) {
	for _, kind := range kinds() {
		t, ok := lookup(kind)
		if !ok || t.Encode == nil {
			continue
		}
		if payload, claimed := t.Encode(v); claimed {
			return map[string]any{envelopeKey: kind, "value": payload}, nil
		}
	}

	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			enc, err := encodeValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			enc, err := encodeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	default:
		return v, nil
	}
}

func decodeValue(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if kind, ok := t[envelopeKey].(string); ok && len(t) == 2 {
			tr, found := lookup(kind)
			if found && tr.Decode != nil {
				return tr.Decode(t["value"])
			}
			// Unknown kinds stay as plain maps.
		}
		out := make(map[string]any, len(t))
		for k, item := range t {
			dec, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = dec
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			dec, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = dec
		}
		return out, nil
	default:
		return v, nil
	}
}
