package json

import (
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
	if c.ContentType() != "application/json" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/json")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	type TestStruct struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
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

	if restored.Name != original.Name || restored.Value != original.Value {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestMarshalNil(t *testing.T) {
	c := New()

	data, err := c.Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}

	if string(data) != "null" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v struct{}
	err := c.Unmarshal([]byte("invalid json"), &v)
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestLenient_Comments(t *testing.T) {
	c := NewLenient()

	input := `{
		// server block
		"host": "localhost", /* inline */
		"port": 8080,
	}`

	var v map[string]any
	if err := c.Unmarshal([]byte(input), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v["host"] != "localhost" || v["port"] != float64(8080) {
		t.Errorf("Unmarshal() = %v, want host/port values", v)
	}
}

func TestLenient_StrictRejects(t *testing.T) {
	c := New()

	var v map[string]any
	if err := c.Unmarshal([]byte(`{"a":1,}`), &v); err == nil {
		t.Error("strict codec should reject trailing comma")
	}
}

func TestLenient_InputNotMutated(t *testing.T) {
	c := NewLenient()

	input := []byte(`{"a":1} // note`)
	saved := string(input)

	var v map[string]any
	if err := c.Unmarshal(input, &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if string(input) != saved {
		t.Error("Unmarshal() should not mutate its input")
	}
}
