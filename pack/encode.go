package pack

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// Encode walks v and produces its wire bytes under the default options.
// Every scalar and container gets the narrowest tag family that
// represents it exactly. Fails with *EncodeError for values with no
// wire form or nesting beyond the depth limit.
func Encode(v Value) ([]byte, error) {
	return DefaultEncodeOptions().Encode(v)
}

// Encode walks v under the receiver's options. See Encode.
func (o EncodeOptions) Encode(v Value) ([]byte, error) {
	e := &encoder{opts: o.normalized()}
	if err := e.value(v, 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf  bytes.Buffer
	opts EncodeOptions
}

// value encodes one unit. depth counts enclosing containers and is
// checked before descending, so cyclic values fail instead of faulting.
func (e *encoder) value(v Value, depth int) error {
	switch val := v.(type) {
	case nil, Nil:
		e.buf.WriteByte(tagNil)

	case Bool:
		if val {
			e.buf.WriteByte(tagTrue)
		} else {
			e.buf.WriteByte(tagFalse)
		}

	case Int:
		e.writeInt(int64(val))

	case Uint:
		e.writeUint(uint64(val))

	case Float:
		e.buf.WriteByte(tagFloat64)
		e.writeN(math.Float64bits(float64(val)), 8)

	case String:
		n := len(val)
		switch {
		case n <= maxFixStr:
			e.buf.WriteByte(fixStrLo | byte(n))
		case n <= math.MaxUint8:
			e.buf.WriteByte(tagStr8)
			e.buf.WriteByte(byte(n))
		case n <= math.MaxUint16:
			e.buf.WriteByte(tagStr16)
			e.writeN(uint64(n), 2)
		case uint64(n) <= math.MaxUint32:
			e.buf.WriteByte(tagStr32)
			e.writeN(uint64(n), 4)
		default:
			return encodeErr(ErrLength, "string")
		}
		e.buf.WriteString(string(val))

	case Binary:
		n := len(val)
		switch {
		case n <= math.MaxUint8:
			e.buf.WriteByte(tagBin8)
			e.buf.WriteByte(byte(n))
		case n <= math.MaxUint16:
			e.buf.WriteByte(tagBin16)
			e.writeN(uint64(n), 2)
		case uint64(n) <= math.MaxUint32:
			e.buf.WriteByte(tagBin32)
			e.writeN(uint64(n), 4)
		default:
			return encodeErr(ErrLength, "binary")
		}
		e.buf.Write(val)

	case Array:
		if depth+1 > e.opts.MaxDepth {
			return encodeErr(ErrDepth, "array")
		}
		n := len(val)
		switch {
		case n <= maxFixArray:
			e.buf.WriteByte(fixArrayLo | byte(n))
		case n <= math.MaxUint16:
			e.buf.WriteByte(tagArray16)
			e.writeN(uint64(n), 2)
		case uint64(n) <= math.MaxUint32:
			e.buf.WriteByte(tagArray32)
			e.writeN(uint64(n), 4)
		default:
			return encodeErr(ErrLength, "array")
		}
		for _, item := range val {
			if err := e.value(item, depth+1); err != nil {
				return err
			}
		}

	case Map:
		if depth+1 > e.opts.MaxDepth {
			return encodeErr(ErrDepth, "map")
		}
		n := len(val)
		switch {
		case n <= maxFixMap:
			e.buf.WriteByte(fixMapLo | byte(n))
		case n <= math.MaxUint16:
			e.buf.WriteByte(tagMap16)
			e.writeN(uint64(n), 2)
		case uint64(n) <= math.MaxUint32:
			e.buf.WriteByte(tagMap32)
			e.writeN(uint64(n), 4)
		default:
			return encodeErr(ErrLength, "map")
		}
		if e.opts.Canonical {
			return e.canonicalEntries(val, depth)
		}
		for _, entry := range val {
			if err := e.value(entry.Key, depth+1); err != nil {
				return err
			}
			if err := e.value(entry.Value, depth+1); err != nil {
				return err
			}
		}

	case Ext:
		n := len(val.Data)
		switch {
		case n == 1:
			e.buf.WriteByte(tagFixExt1)
		case n == 2:
			e.buf.WriteByte(tagFixExt2)
		case n == 4:
			e.buf.WriteByte(tagFixExt4)
		case n == 8:
			e.buf.WriteByte(tagFixExt8)
		case n == 16:
			e.buf.WriteByte(tagFixExt16)
		case n <= math.MaxUint8:
			e.buf.WriteByte(tagExt8)
			e.buf.WriteByte(byte(n))
		case n <= math.MaxUint16:
			e.buf.WriteByte(tagExt16)
			e.writeN(uint64(n), 2)
		case uint64(n) <= math.MaxUint32:
			e.buf.WriteByte(tagExt32)
			e.writeN(uint64(n), 4)
		default:
			return encodeErr(ErrLength, "ext")
		}
		e.buf.WriteByte(byte(val.Type))
		e.buf.Write(val.Data)

	default:
		return encodeErr(ErrUnsupported, fmt.Sprintf("%T", v))
	}
	return nil
}

// canonicalEntries writes map entries ordered by ascending encoded key
// bytes. Keys and values are encoded to scratch buffers first; their
// depth accounting matches the streaming path.
func (e *encoder) canonicalEntries(m Map, depth int) error {
	type pair struct {
		key, val []byte
	}
	pairs := make([]pair, len(m))
	for i, entry := range m {
		kb, err := e.sub(entry.Key, depth+1)
		if err != nil {
			return err
		}
		vb, err := e.sub(entry.Value, depth+1)
		if err != nil {
			return err
		}
		pairs[i] = pair{key: kb, val: vb}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return bytes.Compare(pairs[i].key, pairs[j].key) < 0
	})
	for _, p := range pairs {
		e.buf.Write(p.key)
		e.buf.Write(p.val)
	}
	return nil
}

// sub encodes one value to its own buffer, starting at the given depth.
func (e *encoder) sub(v Value, depth int) ([]byte, error) {
	s := &encoder{opts: e.opts}
	if err := s.value(v, depth); err != nil {
		return nil, err
	}
	return s.buf.Bytes(), nil
}

// writeInt emits the narrowest wire form containing n. Non-negative
// values use the unsigned families, which are never wider than the
// signed ones for the same magnitude.
func (e *encoder) writeInt(n int64) {
	if n >= 0 {
		e.writeUint(uint64(n))
		return
	}
	switch {
	case n >= minNegFix:
		e.buf.WriteByte(byte(n))
	case n >= math.MinInt8:
		e.buf.WriteByte(tagInt8)
		e.buf.WriteByte(byte(n))
	case n >= math.MinInt16:
		e.buf.WriteByte(tagInt16)
		e.writeN(uint64(uint16(n)), 2)
	case n >= math.MinInt32:
		e.buf.WriteByte(tagInt32)
		e.writeN(uint64(uint32(n)), 4)
	default:
		e.buf.WriteByte(tagInt64)
		e.writeN(uint64(n), 8)
	}
}

func (e *encoder) writeUint(n uint64) {
	switch {
	case n <= maxPosFix:
		e.buf.WriteByte(byte(n))
	case n <= math.MaxUint8:
		e.buf.WriteByte(tagUint8)
		e.buf.WriteByte(byte(n))
	case n <= math.MaxUint16:
		e.buf.WriteByte(tagUint16)
		e.writeN(n, 2)
	case n <= math.MaxUint32:
		e.buf.WriteByte(tagUint32)
		e.writeN(n, 4)
	default:
		e.buf.WriteByte(tagUint64)
		e.writeN(n, 8)
	}
}

// writeN appends the low n bytes of v in big-endian order.
func (e *encoder) writeN(v uint64, n int) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.buf.Write(b[8-n:])
}
