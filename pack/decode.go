package pack

import (
	"encoding/binary"
	"math"
)

// Decode scans data and produces exactly one Value under the default
// limits. The whole buffer must be consumed; trailing bytes fail with
// ErrTrailing. On failure the returned error is a *DecodeError carrying
// the byte offset of the violation.
func Decode(data []byte) (Value, error) {
	return DefaultDecodeOptions().Decode(data)
}

// Decode scans data under the receiver's limits. See Decode.
func (o DecodeOptions) Decode(data []byte) (Value, error) {
	d := &decoder{data: data, opts: o.normalized()}
	v, err := d.value(0)
	if err != nil {
		return nil, err
	}
	if d.off != len(d.data) {
		return nil, decodeErr(d.off, ErrTrailing, "")
	}
	return v, nil
}

// decoder is a single forward cursor over the input. The cursor only
// advances; there is no backtracking.
type decoder struct {
	data []byte
	off  int
	opts DecodeOptions
}

// value decodes one unit. depth is the number of enclosing containers.
// All violations inside the unit report the offset of its tag byte.
func (d *decoder) value(depth int) (Value, error) {
	start := d.off
	if d.off >= len(d.data) {
		return nil, decodeErr(start, ErrTruncated, "tag")
	}
	tag := d.data[d.off]
	d.off++

	switch {
	case tag <= 0x7f: // positive fixint
		return Int(tag), nil
	case tag >= negFixLo: // negative fixint
		return Int(int8(tag)), nil
	case tag >= fixMapLo && tag <= fixMapHi:
		return d.mapValue(start, int(tag&0x0f), depth)
	case tag >= fixArrayLo && tag <= fixArrayHi:
		return d.arrayValue(start, int(tag&0x0f), depth)
	case tag >= fixStrLo && tag <= fixStrHi:
		return d.strValue(start, uint64(tag&0x1f))
	}

	switch tag {
	case tagNil:
		return Nil{}, nil
	case tagFalse:
		return Bool(false), nil
	case tagTrue:
		return Bool(true), nil

	case tagFloat32:
		bits, err := d.uintN(start, 4, "float32")
		if err != nil {
			return nil, err
		}
		// Widening float32 → float64 is exact.
		return Float(float64(math.Float32frombits(uint32(bits)))), nil
	case tagFloat64:
		bits, err := d.uintN(start, 8, "float64")
		if err != nil {
			return nil, err
		}
		return Float(math.Float64frombits(bits)), nil

	case tagUint8, tagUint16, tagUint32, tagUint64:
		width := 1 << (tag - tagUint8)
		n, err := d.uintN(start, width, "uint")
		if err != nil {
			return nil, err
		}
		return UintValue(n), nil
	case tagInt8, tagInt16, tagInt32, tagInt64:
		width := 1 << (tag - tagInt8)
		n, err := d.uintN(start, width, "int")
		if err != nil {
			return nil, err
		}
		// Sign-extend from the wire width.
		shift := 64 - uint(width)*8
		return Int(int64(n<<shift) >> shift), nil

	case tagStr8, tagStr16, tagStr32:
		n, err := d.uintN(start, 1<<(tag-tagStr8), "string length")
		if err != nil {
			return nil, err
		}
		return d.strValue(start, n)
	case tagBin8, tagBin16, tagBin32:
		n, err := d.uintN(start, 1<<(tag-tagBin8), "binary length")
		if err != nil {
			return nil, err
		}
		return d.binValue(start, n)

	case tagArray16, tagArray32:
		n, err := d.uintN(start, 2<<(tag-tagArray16), "array length")
		if err != nil {
			return nil, err
		}
		if n > uint64(d.opts.MaxArrayLen) {
			return nil, decodeErr(start, ErrLength, "array")
		}
		return d.arrayValue(start, int(n), depth)
	case tagMap16, tagMap32:
		n, err := d.uintN(start, 2<<(tag-tagMap16), "map length")
		if err != nil {
			return nil, err
		}
		if n > uint64(d.opts.MaxMapLen) {
			return nil, decodeErr(start, ErrLength, "map")
		}
		return d.mapValue(start, int(n), depth)

	case tagFixExt1, tagFixExt2, tagFixExt4, tagFixExt8, tagFixExt16:
		return d.extValue(start, uint64(1)<<(tag-tagFixExt1))
	case tagExt8, tagExt16, tagExt32:
		n, err := d.uintN(start, 1<<(tag-tagExt8), "ext length")
		if err != nil {
			return nil, err
		}
		return d.extValue(start, n)
	}

	// Only 0xc1 remains.
	return nil, decodeErr(start, ErrUnknownTag, "0xc1")
}

// uintN reads an n-byte big-endian unsigned integer. start is the
// offset of the enclosing unit's tag, used for error reporting.
func (d *decoder) uintN(start, n int, what string) (uint64, error) {
	if d.off+n > len(d.data) {
		return 0, decodeErr(start, ErrTruncated, what)
	}
	var v uint64
	switch n {
	case 1:
		v = uint64(d.data[d.off])
	case 2:
		v = uint64(binary.BigEndian.Uint16(d.data[d.off:]))
	case 4:
		v = uint64(binary.BigEndian.Uint32(d.data[d.off:]))
	case 8:
		v = binary.BigEndian.Uint64(d.data[d.off:])
	}
	d.off += n
	return v, nil
}

// take validates a declared payload length against the remaining input
// and consumes it. The limit check happens in the caller, before take,
// so a lying length field never drives an allocation.
func (d *decoder) take(start int, n uint64, what string) ([]byte, error) {
	if n > uint64(len(d.data)-d.off) {
		return nil, decodeErr(start, ErrTruncated, what)
	}
	p := d.data[d.off : d.off+int(n)]
	d.off += int(n)
	return p, nil
}

func (d *decoder) strValue(start int, n uint64) (Value, error) {
	if n > uint64(d.opts.MaxStrLen) {
		return nil, decodeErr(start, ErrLength, "string")
	}
	p, err := d.take(start, n, "string payload")
	if err != nil {
		return nil, err
	}
	return String(p), nil
}

func (d *decoder) binValue(start int, n uint64) (Value, error) {
	if n > uint64(d.opts.MaxBinLen) {
		return nil, decodeErr(start, ErrLength, "binary")
	}
	p, err := d.take(start, n, "binary payload")
	if err != nil {
		return nil, err
	}
	out := make(Binary, n)
	copy(out, p)
	return out, nil
}

func (d *decoder) extValue(start int, n uint64) (Value, error) {
	if n > uint64(d.opts.MaxExtLen) {
		return nil, decodeErr(start, ErrLength, "ext")
	}
	if d.off >= len(d.data) {
		return nil, decodeErr(start, ErrTruncated, "ext type")
	}
	typ := int8(d.data[d.off])
	d.off++
	p, err := d.take(start, n, "ext payload")
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, p)
	return Ext{Type: typ, Data: out}, nil
}

func (d *decoder) arrayValue(start, count, depth int) (Value, error) {
	if depth+1 > d.opts.MaxDepth {
		return nil, decodeErr(start, ErrDepth, "array")
	}
	if count > d.opts.MaxArrayLen {
		return nil, decodeErr(start, ErrLength, "array")
	}
	// Every element takes at least one byte, so a count beyond the
	// remaining input is provably truncated before any allocation.
	if count > len(d.data)-d.off {
		return nil, decodeErr(start, ErrTruncated, "array elements")
	}
	arr := make(Array, 0, count)
	for i := 0; i < count; i++ {
		item, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, item)
	}
	return arr, nil
}

func (d *decoder) mapValue(start, count, depth int) (Value, error) {
	if depth+1 > d.opts.MaxDepth {
		return nil, decodeErr(start, ErrDepth, "map")
	}
	if count > d.opts.MaxMapLen {
		return nil, decodeErr(start, ErrLength, "map")
	}
	// Each pair takes at least two bytes.
	if count > (len(d.data)-d.off)/2 {
		return nil, decodeErr(start, ErrTruncated, "map pairs")
	}
	m := make(Map, 0, count)
	for i := 0; i < count; i++ {
		k, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		v, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		m = append(m, MapEntry{Key: k, Value: v})
	}
	return m, nil
}
