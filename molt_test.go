package molt_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/moltdata/molt"
)

// testCodec is a simple JSON codec for testing without importing molt/json.
type testCodec struct{}

func (c *testCodec) ContentType() string { return "application/json" }

func (c *testCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *testCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// failCodec fails on demand, for exercising the error paths.
type failCodec struct {
	marshalErr   error
	unmarshalErr error
}

func (c *failCodec) ContentType() string { return "application/x-fail" }

func (c *failCodec) Marshal(any) ([]byte, error) {
	if c.marshalErr != nil {
		return nil, c.marshalErr
	}
	return []byte("ok"), nil
}

func (c *failCodec) Unmarshal([]byte, any) error {
	return c.unmarshalErr
}

func TestTransform(t *testing.T) {
	molt.Reset()
	molt.Register(molt.FormatJSON, &testCodec{})
	molt.Register(molt.Format("json2"), &testCodec{})

	out, err := molt.Transform(context.Background(), []byte(`{"a":1}`), molt.FormatJSON, "json2")
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	want := map[string]any{"a": float64(1)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Transform() = %v, want %v", got, want)
	}
}

func TestTransform_SourceNotRegistered(t *testing.T) {
	molt.Reset()
	molt.Register(molt.FormatJSON, &testCodec{})

	_, err := molt.Transform(context.Background(), []byte(`{}`), molt.FormatYAML, molt.FormatJSON)
	if !errors.Is(err, molt.ErrNotRegistered) {
		t.Errorf("Transform() error = %v, want ErrNotRegistered", err)
	}

	var fe *molt.FormatError
	if !errors.As(err, &fe) {
		t.Fatal("Transform() should return a *FormatError")
	}
	if fe.Format != molt.FormatYAML {
		t.Errorf("FormatError.Format = %q, want %q", fe.Format, molt.FormatYAML)
	}
}

func TestTransform_TargetNotRegistered(t *testing.T) {
	molt.Reset()
	molt.Register(molt.FormatJSON, &testCodec{})

	_, err := molt.Transform(context.Background(), []byte(`{}`), molt.FormatJSON, molt.FormatYAML)
	if !errors.Is(err, molt.ErrNotRegistered) {
		t.Errorf("Transform() error = %v, want ErrNotRegistered", err)
	}
}

func TestTransform_UnmarshalError(t *testing.T) {
	molt.Reset()
	cause := errors.New("bad input")
	molt.Register(molt.FormatJSON, &failCodec{unmarshalErr: cause})
	molt.Register(molt.FormatYAML, &testCodec{})

	_, err := molt.Transform(context.Background(), []byte("x"), molt.FormatJSON, molt.FormatYAML)
	if !errors.Is(err, molt.ErrUnmarshal) {
		t.Errorf("Transform() error = %v, want ErrUnmarshal", err)
	}

	var ce *molt.CodecError
	if !errors.As(err, &ce) {
		t.Fatal("Transform() should return a *CodecError")
	}
	if ce.Cause != cause {
		t.Errorf("CodecError.Cause = %v, want %v", ce.Cause, cause)
	}
}

func TestTransform_MarshalError(t *testing.T) {
	molt.Reset()
	cause := errors.New("cannot represent")
	molt.Register(molt.FormatJSON, &testCodec{})
	molt.Register(molt.FormatYAML, &failCodec{marshalErr: cause})

	_, err := molt.Transform(context.Background(), []byte(`{}`), molt.FormatJSON, molt.FormatYAML)
	if !errors.Is(err, molt.ErrMarshal) {
		t.Errorf("Transform() error = %v, want ErrMarshal", err)
	}
}

func TestTransformDetect(t *testing.T) {
	molt.Reset()
	molt.Register(molt.FormatJSON, &testCodec{})
	molt.Register(molt.Format("json2"), &testCodec{})

	out, err := molt.TransformDetect(context.Background(), []byte(`{"a":true}`), "json2")
	if err != nil {
		t.Fatalf("TransformDetect() error: %v", err)
	}
	if len(out) == 0 {
		t.Error("TransformDetect() returned empty output")
	}
}

func TestTransformDetect_UnknownInput(t *testing.T) {
	molt.Reset()
	molt.Register(molt.FormatJSON, &testCodec{})

	_, err := molt.TransformDetect(context.Background(), []byte(""), molt.FormatJSON)
	if !errors.Is(err, molt.ErrUnknownFormat) {
		t.Errorf("TransformDetect() error = %v, want ErrUnknownFormat", err)
	}
}

func TestParse(t *testing.T) {
	molt.Reset()
	molt.Register(molt.FormatJSON, &testCodec{})

	var v map[string]any
	if err := molt.Parse(molt.FormatJSON, []byte(`{"k":"v"}`), &v); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if v["k"] != "v" {
		t.Errorf("Parse() = %v, want map with k=v", v)
	}

	if err := molt.Parse(molt.FormatYAML, []byte(`{}`), &v); !errors.Is(err, molt.ErrNotRegistered) {
		t.Errorf("Parse() error = %v, want ErrNotRegistered", err)
	}
}

func TestStringify(t *testing.T) {
	molt.Reset()
	molt.Register(molt.FormatJSON, &testCodec{})

	out, err := molt.Stringify(molt.FormatJSON, map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("Stringify() error: %v", err)
	}
	if string(out) != `{"k":"v"}` {
		t.Errorf("Stringify() = %s, want {\"k\":\"v\"}", out)
	}

	if _, err := molt.Stringify(molt.FormatYAML, 1); !errors.Is(err, molt.ErrNotRegistered) {
		t.Errorf("Stringify() error = %v, want ErrNotRegistered", err)
	}
}
