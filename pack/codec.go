package pack

// Codec adapts the pack format to the suite's codec surface. The zero
// value is not usable; construct with New.
type Codec struct {
	marshal   MarshalOptions
	unmarshal UnmarshalOptions
}

// New returns a pack codec with default options.
func New() *Codec {
	return &Codec{
		marshal:   DefaultMarshalOptions(),
		unmarshal: DefaultUnmarshalOptions(),
	}
}

// NewWithOptions returns a pack codec carrying explicit options.
func NewWithOptions(m MarshalOptions, u UnmarshalOptions) *Codec {
	return &Codec{marshal: m, unmarshal: u}
}

// ContentType returns the MIME type for the pack format.
func (c *Codec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as pack bytes.
func (c *Codec) Marshal(v any) ([]byte, error) {
	return c.marshal.Marshal(v)
}

// Unmarshal decodes pack data into v.
func (c *Codec) Unmarshal(data []byte, v any) error {
	return c.unmarshal.Unmarshal(data, v)
}
