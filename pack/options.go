package pack

// Default resource limits. Loosening a limit only admits more input;
// tightening one is a behavior change for previously accepted payloads
// and is called out in release notes.
const (
	DefaultMaxDepth    = 100
	DefaultMaxStrLen   = 1_000_000
	DefaultMaxBinLen   = 10_000_000
	DefaultMaxArrayLen = 100_000
	DefaultMaxMapLen   = 100_000
	DefaultMaxExtLen   = 1_000_000
)

// DecodeOptions bound the resources a single Decode call may consume.
// Every limit is checked against a unit's declared length before any
// payload bytes are read or memory is allocated. Zero or negative
// fields fall back to the defaults, so the zero value is usable.
type DecodeOptions struct {
	// MaxDepth is the maximum Array/Map nesting depth. A value nested
	// exactly MaxDepth containers deep decodes; one deeper fails.
	MaxDepth int

	// Per-kind maximum declared lengths: string bytes, binary bytes,
	// array elements, map pairs, extension payload bytes.
	MaxStrLen   int
	MaxBinLen   int
	MaxArrayLen int
	MaxMapLen   int
	MaxExtLen   int
}

// DefaultDecodeOptions returns the default limits.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		MaxDepth:    DefaultMaxDepth,
		MaxStrLen:   DefaultMaxStrLen,
		MaxBinLen:   DefaultMaxBinLen,
		MaxArrayLen: DefaultMaxArrayLen,
		MaxMapLen:   DefaultMaxMapLen,
		MaxExtLen:   DefaultMaxExtLen,
	}
}

func (o DecodeOptions) normalized() DecodeOptions {
	d := DefaultDecodeOptions()
	if o.MaxDepth > 0 {
		d.MaxDepth = o.MaxDepth
	}
	if o.MaxStrLen > 0 {
		d.MaxStrLen = o.MaxStrLen
	}
	if o.MaxBinLen > 0 {
		d.MaxBinLen = o.MaxBinLen
	}
	if o.MaxArrayLen > 0 {
		d.MaxArrayLen = o.MaxArrayLen
	}
	if o.MaxMapLen > 0 {
		d.MaxMapLen = o.MaxMapLen
	}
	if o.MaxExtLen > 0 {
		d.MaxExtLen = o.MaxExtLen
	}
	return d
}

// EncodeOptions control the wire form of a single Encode call.
type EncodeOptions struct {
	// Canonical orders map entries by ascending encoded key bytes
	// instead of insertion order, so logically equal values produce
	// byte-identical output regardless of construction order.
	Canonical bool

	// MaxDepth bounds container nesting during the walk, checked before
	// descending. It is also the guard against cyclic values. Zero or
	// negative means DefaultMaxDepth.
	MaxDepth int
}

// DefaultEncodeOptions returns insertion-order encoding with the
// default depth limit.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{MaxDepth: DefaultMaxDepth}
}

func (o EncodeOptions) normalized() EncodeOptions {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}
