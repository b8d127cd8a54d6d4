// Package pack implements molt's binary pack format: a compact,
// self-describing serialization conformant with the MessagePack wire
// layout, including its reserved timestamp extension.
//
// The package is split into a wire-level core and a host-facing bridge:
//
//   - Decode and Encode operate on the Value model below. They are pure,
//     stateless, and enforce configurable resource limits so that
//     malformed or adversarial input fails deterministically instead of
//     exhausting memory or stack.
//   - Marshal and Unmarshal bridge native Go values (structs, maps,
//     slices, time.Time, *big.Int) to the Value model and back, applying
//     the extension adapters for the two reserved type codes.
//
// Both layers are safe for concurrent use: every call owns its own
// cursor and buffers, and all limits travel with the call's options.
package pack

// Value is a pack model value. Concrete types:
//
//   - Nil     (nil)
//   - Bool    (true/false)
//   - Int     (signed 64-bit integer)
//   - Uint    (unsigned 64-bit integer above math.MaxInt64)
//   - Float   (64-bit IEEE double)
//   - String  (UTF-8 text)
//   - Binary  (raw bytes)
//   - Array   (ordered sequence)
//   - Map     (ordered key/value pairs, arbitrary Value keys)
//   - Ext     (extension: type code + opaque payload)
type Value interface {
	// packValue restricts Value to the variants defined in this package.
	packValue()
}

// Nil is the unit value.
type Nil struct{}

// Bool is a boolean value.
type Bool bool

// Int is a signed integer value. All integers representable in int64
// decode to Int, regardless of the wire tag's signedness.
type Int int64

// Uint is an unsigned integer value above math.MaxInt64. Smaller
// magnitudes are normalized to Int; use UintValue to construct.
type Uint uint64

// Float is a 64-bit float. Float32 wire values widen exactly on decode;
// the encoder always emits the 64-bit form.
type Float float64

// String is UTF-8 text.
type String string

// Binary is a raw byte payload with no encoding assumed.
type Binary []byte

// Array is an ordered sequence of values.
type Array []Value

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is an ordered sequence of key/value pairs. Wire keys may be any
// Value; decode preserves pair order. Encoding order is insertion order
// unless the canonical option is set.
type Map []MapEntry

// Ext carries a signed 8-bit type code and an opaque payload. The
// reserved codes ExtTimestamp and ExtBigInt are promoted by the default
// adapter; all other codes pass through untouched.
type Ext struct {
	Type int8
	Data []byte
}

func (Nil) packValue()    {}
func (Bool) packValue()   {}
func (Int) packValue()    {}
func (Uint) packValue()   {}
func (Float) packValue()  {}
func (String) packValue() {}
func (Binary) packValue() {}
func (Array) packValue()  {}
func (Map) packValue()    {}
func (Ext) packValue()    {}

// UintValue builds an integer value from an unsigned magnitude,
// normalizing values that fit int64 to Int so that logically equal
// integers compare equal after a round trip.
func UintValue(n uint64) Value {
	if n <= 1<<63-1 {
		return Int(n)
	}
	return Uint(n)
}

// Get returns the value for the first entry whose key is String(key).
func (m Map) Get(key string) (Value, bool) {
	for _, e := range m {
		if k, ok := e.Key.(String); ok && string(k) == key {
			return e.Value, true
		}
	}
	return nil, false
}
