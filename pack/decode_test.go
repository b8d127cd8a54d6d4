package pack

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"
)

func mustDecode(t *testing.T, data []byte) Value {
	t.Helper()
	v, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode(% x) error: %v", data, err)
	}
	return v
}

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Value
	}{
		{"nil", []byte{0xc0}, Nil{}},
		{"false", []byte{0xc2}, Bool(false)},
		{"true", []byte{0xc3}, Bool(true)},
		{"posfixint zero", []byte{0x00}, Int(0)},
		{"posfixint max", []byte{0x7f}, Int(127)},
		{"negfixint", []byte{0xff}, Int(-1)},
		{"negfixint min", []byte{0xe0}, Int(-32)},
		{"uint8", []byte{0xcc, 0xff}, Int(255)},
		{"uint16", []byte{0xcd, 0x01, 0x00}, Int(256)},
		{"uint32", []byte{0xce, 0x00, 0x01, 0x00, 0x00}, Int(65536)},
		{"uint64 small", []byte{0xcf, 0, 0, 0, 0, 0, 0, 0, 7}, Int(7)},
		{"uint64 above int64", []byte{0xcf, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, Uint(math.MaxUint64)},
		{"int8", []byte{0xd0, 0x80}, Int(-128)},
		{"int16", []byte{0xd1, 0xff, 0x00}, Int(-256)},
		{"int32", []byte{0xd2, 0xff, 0xff, 0xff, 0x00}, Int(-256)},
		{"int64", []byte{0xd3, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}, Int(-256)},
		{"float64", []byte{0xcb, 0x3f, 0xf0, 0, 0, 0, 0, 0, 0}, Float(1.0)},
		{"fixstr empty", []byte{0xa0}, String("")},
		{"fixstr", []byte{0xa5, 'h', 'e', 'l', 'l', 'o'}, String("hello")},
		{"str8", append([]byte{0xd9, 5}, []byte("hello")...), String("hello")},
		{"str16", append([]byte{0xda, 0, 5}, []byte("hello")...), String("hello")},
		{"str32", append([]byte{0xdb, 0, 0, 0, 5}, []byte("hello")...), String("hello")},
		{"bin8", []byte{0xc4, 3, 1, 2, 3}, Binary{1, 2, 3}},
		{"bin16", []byte{0xc5, 0, 3, 1, 2, 3}, Binary{1, 2, 3}},
		{"bin32", []byte{0xc6, 0, 0, 0, 3, 1, 2, 3}, Binary{1, 2, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mustDecode(t, tc.data)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Decode(% x) = %#v, want %#v", tc.data, got, tc.want)
			}
		})
	}
}

func TestDecodeFloat32Widens(t *testing.T) {
	data := []byte{0xca, 0x3f, 0xc0, 0x00, 0x00} // 1.5 as float32
	got := mustDecode(t, data)
	if got != Float(1.5) {
		t.Errorf("float32 decode = %v, want 1.5", got)
	}
}

func TestDecodeContainers(t *testing.T) {
	t.Run("fixarray", func(t *testing.T) {
		got := mustDecode(t, []byte{0x93, 0x01, 0xc3, 0xa1, 'x'})
		want := Array{Int(1), Bool(true), String("x")}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %#v, want %#v", got, want)
		}
	})

	t.Run("array16", func(t *testing.T) {
		got := mustDecode(t, []byte{0xdc, 0, 1, 0x2a})
		if !reflect.DeepEqual(got, Array{Int(42)}) {
			t.Errorf("got %#v", got)
		}
	})

	t.Run("array32", func(t *testing.T) {
		got := mustDecode(t, []byte{0xdd, 0, 0, 0, 1, 0x2a})
		if !reflect.DeepEqual(got, Array{Int(42)}) {
			t.Errorf("got %#v", got)
		}
	})

	t.Run("fixmap preserves pair order", func(t *testing.T) {
		data := []byte{0x82, 0xa1, 'b', 0x02, 0xa1, 'a', 0x01}
		got := mustDecode(t, data)
		want := Map{
			{Key: String("b"), Value: Int(2)},
			{Key: String("a"), Value: Int(1)},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %#v, want %#v", got, want)
		}
	})

	t.Run("map16", func(t *testing.T) {
		got := mustDecode(t, []byte{0xde, 0, 1, 0xa1, 'k', 0x01})
		want := Map{{Key: String("k"), Value: Int(1)}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %#v, want %#v", got, want)
		}
	})

	t.Run("map32", func(t *testing.T) {
		got := mustDecode(t, []byte{0xdf, 0, 0, 0, 1, 0xa1, 'k', 0x01})
		want := Map{{Key: String("k"), Value: Int(1)}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %#v, want %#v", got, want)
		}
	})

	t.Run("non-string map keys decode", func(t *testing.T) {
		data := []byte{0x81, 0x01, 0xa1, 'v'}
		got := mustDecode(t, data)
		want := Map{{Key: Int(1), Value: String("v")}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %#v, want %#v", got, want)
		}
	})
}

func TestDecodeExtensions(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Ext
	}{
		{"fixext1", []byte{0xd4, 0x05, 0xaa}, Ext{Type: 5, Data: []byte{0xaa}}},
		{"fixext2", []byte{0xd5, 0x05, 1, 2}, Ext{Type: 5, Data: []byte{1, 2}}},
		{"fixext4", []byte{0xd6, 0xff, 1, 2, 3, 4}, Ext{Type: -1, Data: []byte{1, 2, 3, 4}}},
		{"fixext8", []byte{0xd7, 0x01, 1, 2, 3, 4, 5, 6, 7, 8}, Ext{Type: 1, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}}},
		{"fixext16", append([]byte{0xd8, 0x02}, bytes.Repeat([]byte{9}, 16)...), Ext{Type: 2, Data: bytes.Repeat([]byte{9}, 16)}},
		{"ext8 empty", []byte{0xc7, 0, 0x03}, Ext{Type: 3, Data: []byte{}}},
		{"ext8", []byte{0xc7, 3, 0x03, 1, 2, 3}, Ext{Type: 3, Data: []byte{1, 2, 3}}},
		{"ext16", []byte{0xc8, 0, 3, 0x03, 1, 2, 3}, Ext{Type: 3, Data: []byte{1, 2, 3}}},
		{"ext32", []byte{0xc9, 0, 0, 0, 3, 0x03, 1, 2, 3}, Ext{Type: 3, Data: []byte{1, 2, 3}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mustDecode(t, tc.data)
			if !reflect.DeepEqual(got, Value(tc.want)) {
				t.Errorf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

// wantDecodeError asserts the decode fails with the sentinel at the
// exact offset.
func wantDecodeError(t *testing.T, data []byte, opts DecodeOptions, sentinel error, offset int) {
	t.Helper()
	_, err := opts.Decode(data)
	if err == nil {
		t.Fatalf("Decode(% x) succeeded, want %v", data, sentinel)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error %v is not a *DecodeError", err)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("error %v, want sentinel %v", err, sentinel)
	}
	if de.Offset != offset {
		t.Errorf("offset = %d, want %d (err: %v)", de.Offset, offset, err)
	}
}

func TestDecodeRejections(t *testing.T) {
	defaults := DefaultDecodeOptions()

	t.Run("empty input", func(t *testing.T) {
		wantDecodeError(t, nil, defaults, ErrTruncated, 0)
	})

	t.Run("reserved tag", func(t *testing.T) {
		wantDecodeError(t, []byte{0xc1}, defaults, ErrUnknownTag, 0)
	})

	t.Run("truncated string payload reports tag offset", func(t *testing.T) {
		// fixstr declaring 5 bytes with only 2 remaining; the tag sits
		// at offset 1 behind an enclosing array.
		data := []byte{0x91, 0xa5, 'h', 'i'}
		wantDecodeError(t, data, defaults, ErrTruncated, 1)
	})

	t.Run("truncated length field", func(t *testing.T) {
		wantDecodeError(t, []byte{0xda, 0x01}, defaults, ErrTruncated, 0)
	})

	t.Run("truncated fixed-width int", func(t *testing.T) {
		wantDecodeError(t, []byte{0xcd, 0x01}, defaults, ErrTruncated, 0)
	})

	t.Run("truncated ext type byte", func(t *testing.T) {
		wantDecodeError(t, []byte{0xc7, 0x01}, defaults, ErrTruncated, 0)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		wantDecodeError(t, []byte{0x01, 0x02}, defaults, ErrTrailing, 1)
	})

	t.Run("string over limit", func(t *testing.T) {
		opts := DecodeOptions{MaxStrLen: 2}
		wantDecodeError(t, []byte{0xa5, 'h', 'e', 'l', 'l', 'o'}, opts, ErrLength, 0)
	})

	t.Run("binary over limit", func(t *testing.T) {
		opts := DecodeOptions{MaxBinLen: 2}
		wantDecodeError(t, []byte{0xc4, 5, 1, 2, 3, 4, 5}, opts, ErrLength, 0)
	})

	t.Run("array over limit", func(t *testing.T) {
		opts := DecodeOptions{MaxArrayLen: 2}
		wantDecodeError(t, []byte{0x95, 1, 2, 3, 4, 5}, opts, ErrLength, 0)
	})

	t.Run("map over limit", func(t *testing.T) {
		opts := DecodeOptions{MaxMapLen: 1}
		wantDecodeError(t, []byte{0x82, 0xa1, 'a', 1, 0xa1, 'b', 2}, opts, ErrLength, 0)
	})

	t.Run("ext over limit", func(t *testing.T) {
		opts := DecodeOptions{MaxExtLen: 2}
		wantDecodeError(t, []byte{0xc7, 3, 0x03, 1, 2, 3}, opts, ErrLength, 0)
	})

	t.Run("declared array length exceeding input", func(t *testing.T) {
		// array16 declaring 1000 elements with no payload: rejected
		// before allocating a thousand slots.
		wantDecodeError(t, []byte{0xdc, 0x03, 0xe8}, defaults, ErrTruncated, 0)
	})

	t.Run("declared map length exceeding input", func(t *testing.T) {
		wantDecodeError(t, []byte{0xde, 0x03, 0xe8}, defaults, ErrTruncated, 0)
	})

	t.Run("huge declared length never allocates", func(t *testing.T) {
		// str32 declaring 4GiB; must fail by limit check, not OOM.
		wantDecodeError(t, []byte{0xdb, 0xff, 0xff, 0xff, 0xff}, defaults, ErrLength, 0)
	})
}

func TestDecodeDepth(t *testing.T) {
	nested := func(n int) []byte {
		data := make([]byte, n+1)
		for i := 0; i < n; i++ {
			data[i] = 0x91 // one-element fixarray
		}
		data[n] = 0x2a
		return data
	}

	t.Run("at limit succeeds", func(t *testing.T) {
		opts := DecodeOptions{MaxDepth: 4}
		if _, err := opts.Decode(nested(4)); err != nil {
			t.Errorf("depth 4 with MaxDepth 4 failed: %v", err)
		}
	})

	t.Run("one beyond limit fails", func(t *testing.T) {
		opts := DecodeOptions{MaxDepth: 4}
		wantDecodeError(t, nested(5), opts, ErrDepth, 4)
	})

	t.Run("maps count toward depth", func(t *testing.T) {
		data := []byte{0x81, 0xa1, 'k', 0x91, 0x2a}
		opts := DecodeOptions{MaxDepth: 1}
		wantDecodeError(t, data, opts, ErrDepth, 3)
	})
}
