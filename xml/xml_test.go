package xml

import (
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/xml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/xml")
	}
}

func TestMarshalUnmarshalStruct(t *testing.T) {
	c := New()

	type TestStruct struct {
		Name  string `xml:"name"`
		Value int    `xml:"value"`
	}

	original := TestStruct{Name: "test", Value: 42}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored TestStruct
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored != original {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestUnmarshalGeneric(t *testing.T) {
	c := New()

	input := `<config env="prod"><host>localhost</host><port>8080</port><tag>a</tag><tag>b</tag></config>`

	var v any
	if err := c.Unmarshal([]byte(input), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	want := map[string]any{
		"config": map[string]any{
			"@env": "prod",
			"host": "localhost",
			"port": "8080",
			"tag":  []any{"a", "b"},
		},
	}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("Unmarshal() = %#v, want %#v", v, want)
	}
}

func TestMarshalGeneric(t *testing.T) {
	c := New()

	doc := map[string]any{
		"config": map[string]any{
			"@env": "prod",
			"host": "localhost",
			"tag":  []any{"a", "b"},
		},
	}

	data, err := c.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := `<config env="prod"><host>localhost</host><tag>a</tag><tag>b</tag></config>`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestGenericRoundTrip(t *testing.T) {
	c := New()

	input := `<user id="7"><email>a@example.com</email><name>alice</name></user>`

	var v any
	if err := c.Unmarshal([]byte(input), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	data, err := c.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != input {
		t.Errorf("round-trip = %s, want %s", data, input)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v any
	if err := c.Unmarshal([]byte("<unclosed>"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
