// Package molt unifies the project's data-format transformers behind a
// common detect-and-transform façade.
//
// Every supported format implements the Codec interface. Text formats
// (JSON, YAML, TOML, INI, XML, CSV, tabular) are thin adapters over
// their parsers; the binary pack format is implemented from the wire
// up in the pack package, which is the engineering core of the module.
//
// # Basic Usage
//
//	molt.Register(molt.FormatJSON, json.New())
//	molt.Register(molt.FormatPack, pack.New())
//
//	// Convert JSON to pack bytes.
//	out, _ := molt.Transform(ctx, data, molt.FormatJSON, molt.FormatPack)
//
//	// Or let the façade sniff the input format.
//	out, _ = molt.TransformDetect(ctx, data, molt.FormatPack)
//
// The formats package registers every built-in codec in one call:
//
//	formats.RegisterAll()
//
// # Parse and Stringify
//
// Parse and Stringify are thin aliases over the registered codecs,
// matching the naming the individual transformers expose:
//
//	var v any
//	_ = molt.Parse(molt.FormatYAML, data, &v)
//	out, _ := molt.Stringify(molt.FormatTOML, v)
//
// # Observability
//
// Detection and transformation emit capitan signals (SignalDetect,
// SignalTransformStart, SignalTransformComplete) carrying the formats
// involved, payload sizes, duration and any error.
package molt

// Codec provides content-type aware marshaling for one format.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// Format identifies a supported data format.
type Format string

// Built-in formats.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatINI     Format = "ini"
	FormatXML     Format = "xml"
	FormatCSV     Format = "csv"
	FormatTabular Format = "tabular"
	FormatPack    Format = "pack"
)

// Parse decodes data with the codec registered for f. It is an alias
// for Codec.Unmarshal under the transformers' common naming.
func Parse(f Format, data []byte, v any) error {
	c, ok := Lookup(f)
	if !ok {
		return newFormatError(ErrNotRegistered, f)
	}
	if err := c.Unmarshal(data, v); err != nil {
		return newCodecError(ErrUnmarshal, err)
	}
	return nil
}

// Stringify encodes v with the codec registered for f. It is an alias
// for Codec.Marshal under the transformers' common naming.
func Stringify(f Format, v any) ([]byte, error) {
	c, ok := Lookup(f)
	if !ok {
		return nil, newFormatError(ErrNotRegistered, f)
	}
	out, err := c.Marshal(v)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return out, nil
}
