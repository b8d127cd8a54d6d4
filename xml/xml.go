// Package xml provides an XML codec implementation.
//
// Typed values marshal through encoding/xml as usual. The generic
// document model used by format transforms maps an element to a
// single-key map: attributes become "@name" keys, character data
// becomes "#text", and repeated child elements collapse to a slice.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/moltdata/molt"
)

// xmlCodec implements molt.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec.
func New() molt.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	doc, ok := v.(map[string]any)
	if !ok {
		return xml.Marshal(v)
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	// A single-key map is its own root; anything else gets one.
	if len(doc) == 1 {
		for name, val := range doc {
			if err := encodeElement(enc, name, val); err != nil {
				return nil, err
			}
		}
	} else {
		if err := encodeElement(enc, "doc", doc); err != nil {
			return nil, err
		}
	}

	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	t, ok := v.(*any)
	if !ok {
		return xml.Unmarshal(data, v)
	}

	var n node
	if err := xml.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = map[string]any{n.XMLName.Local: n.value()}
	return nil
}

// node is the raw element tree decoded from generic input.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Chardata string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

func (n node) value() any {
	text := strings.TrimSpace(n.Chardata)
	if len(n.Attrs) == 0 && len(n.Children) == 0 {
		return text
	}

	out := make(map[string]any)
	for _, a := range n.Attrs {
		out["@"+a.Name.Local] = a.Value
	}
	if text != "" {
		out["#text"] = text
	}
	for _, child := range n.Children {
		name := child.XMLName.Local
		val := child.value()
		switch prev := out[name].(type) {
		case nil:
			out[name] = val
		case []any:
			out[name] = append(prev, val)
		default:
			out[name] = []any{prev, val}
		}
	}
	return out
}

func encodeElement(enc *xml.Encoder, name string, v any) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}

	m, ok := v.(map[string]any)
	if !ok {
		if items, ok := v.([]any); ok {
			// A slice repeats the element, one per item.
			for _, item := range items {
				if err := encodeElement(enc, name, item); err != nil {
					return err
				}
			}
			return nil
		}
		return enc.EncodeElement(scalarText(v), start)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var text string
	for _, k := range keys {
		switch {
		case strings.HasPrefix(k, "@"):
			start.Attr = append(start.Attr, xml.Attr{
				Name:  xml.Name{Local: k[1:]},
				Value: scalarText(m[k]),
			})
		case k == "#text":
			text = scalarText(m[k])
		}
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	for _, k := range keys {
		if strings.HasPrefix(k, "@") || k == "#text" {
			continue
		}
		if err := encodeElement(enc, k, m[k]); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}
