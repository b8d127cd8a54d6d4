// Package ini provides an INI codec implementation.
//
// INI has no standard value typing, so the generic model is strings:
// a document maps to section name -> key -> value, with keys outside
// any section placed at the top level.
package ini

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/ini.v1"

	"github.com/moltdata/molt"
)

// iniCodec implements molt.Codec for INI.
type iniCodec struct{}

// New returns an INI codec.
func New() molt.Codec {
	return &iniCodec{}
}

// ContentType returns the MIME type for INI.
func (c *iniCodec) ContentType() string {
	return "text/x-ini"
}

// Marshal encodes v as INI. Accepted shapes are the generic document
// models (maps of sections or flat key/value maps) and structs, which
// are reflected field-by-field.
func (c *iniCodec) Marshal(v any) ([]byte, error) {
	f := ini.Empty()

	switch t := v.(type) {
	case map[string]map[string]string:
		for _, name := range sortedKeys(t) {
			if err := fillSection(f, name, anyMap(t[name])); err != nil {
				return nil, err
			}
		}
	case map[string]any:
		if err := fillDocument(f, t); err != nil {
			return nil, err
		}
	case map[string]string:
		if err := fillSection(f, ini.DefaultSection, anyMap(t)); err != nil {
			return nil, err
		}
	default:
		if err := ini.ReflectFrom(f, v); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes INI data into v.
func (c *iniCodec) Unmarshal(data []byte, v any) error {
	f, err := ini.Load(data)
	if err != nil {
		return err
	}

	switch t := v.(type) {
	case *any:
		*t = documentModel(f)
		return nil
	case *map[string]map[string]string:
		out := make(map[string]map[string]string)
		for _, sec := range f.Sections() {
			if len(sec.Keys()) == 0 {
				continue
			}
			out[sec.Name()] = sec.KeysHash()
		}
		*t = out
		return nil
	default:
		return f.MapTo(v)
	}
}

// fillDocument places scalar values in the default section and map
// values into named sections.
func fillDocument(f *ini.File, doc map[string]any) error {
	for _, k := range sortedKeys(doc) {
		switch sec := doc[k].(type) {
		case map[string]any:
			if err := fillSection(f, k, sec); err != nil {
				return err
			}
		case map[string]string:
			if err := fillSection(f, k, anyMap(sec)); err != nil {
				return err
			}
		default:
			root := f.Section(ini.DefaultSection)
			if _, err := root.NewKey(k, scalarText(doc[k])); err != nil {
				return err
			}
		}
	}
	return nil
}

func fillSection(f *ini.File, name string, kv map[string]any) error {
	sec, err := f.NewSection(name)
	if err != nil {
		return err
	}
	for _, k := range sortedKeys(kv) {
		if _, err := sec.NewKey(k, scalarText(kv[k])); err != nil {
			return err
		}
	}
	return nil
}

// documentModel flattens the default section to the top level and
// nests named sections.
func documentModel(f *ini.File) map[string]any {
	out := make(map[string]any)
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			for k, v := range sec.KeysHash() {
				out[k] = v
			}
			continue
		}
		if len(sec.Keys()) == 0 {
			continue
		}
		nested := make(map[string]any, len(sec.Keys()))
		for k, v := range sec.KeysHash() {
			nested[k] = v
		}
		out[sec.Name()] = nested
	}
	return out
}

func scalarText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func anyMap[V any](m map[string]V) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
