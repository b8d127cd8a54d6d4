// Package testing provides shared fixtures for molt tests.
package testing

import (
	"github.com/moltdata/molt/pack"
)

// SampleUser is a test type with field tags for the pack codec.
type SampleUser struct {
	ID    string   `pack:"id" json:"id" yaml:"id"`
	Name  string   `pack:"name" json:"name" yaml:"name"`
	Age   int      `pack:"age" json:"age" yaml:"age"`
	Tags  []string `pack:"tags" json:"tags" yaml:"tags"`
	Notes string   `pack:"-" json:"-" yaml:"-"`
}

// NewSampleUser returns a populated SampleUser.
func NewSampleUser() *SampleUser {
	return &SampleUser{
		ID:    "u-123",
		Name:  "alice",
		Age:   30,
		Tags:  []string{"admin", "ops"},
		Notes: "never serialized",
	}
}

// SampleDocument returns a generic nested document that every text
// codec can represent.
func SampleDocument() map[string]any {
	return map[string]any{
		"name":    "test",
		"count":   int64(3),
		"enabled": true,
		"nested": map[string]any{
			"key": "value",
		},
	}
}

// SampleRecords returns flat string records for the row-oriented
// codecs (csv, tabular).
func SampleRecords() []map[string]string {
	return []map[string]string{
		{"name": "alice", "age": "30", "city": "berlin"},
		{"name": "bob", "age": "25", "city": "tokyo"},
	}
}

// SampleValue returns a pack value touching every kind within default
// limits.
func SampleValue() pack.Value {
	return pack.Map{
		{Key: pack.String("nil"), Value: pack.Nil{}},
		{Key: pack.String("bool"), Value: pack.Bool(true)},
		{Key: pack.String("int"), Value: pack.Int(-42)},
		{Key: pack.String("float"), Value: pack.Float(3.5)},
		{Key: pack.String("str"), Value: pack.String("text")},
		{Key: pack.String("bin"), Value: pack.Binary([]byte{0, 1, 2})},
		{Key: pack.String("arr"), Value: pack.Array{pack.Int(1), pack.Int(2)}},
		{Key: pack.String("ext"), Value: pack.Ext{Type: 42, Data: []byte{0xff}}},
	}
}
