package pack

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"time"
)

// Reserved extension type codes. ExtTimestamp is fixed by the wire
// format specification; ExtBigInt is the project's own reserved code
// for integers beyond 64 bits.
const (
	ExtTimestamp int8 = -1
	ExtBigInt    int8 = 1
)

// TimeToExt encodes t as a timestamp extension, choosing the smallest
// of the three payload layouts that represents it exactly: 4 bytes
// (unsigned seconds), 8 bytes (34-bit seconds + 30-bit nanoseconds),
// or 12 bytes (full signed seconds + nanoseconds).
func TimeToExt(t time.Time) Ext {
	sec := t.Unix()
	nsec := int64(t.Nanosecond())

	if nsec == 0 && sec >= 0 && sec <= 0xffffffff {
		data := make([]byte, 4)
		binary.BigEndian.PutUint32(data, uint32(sec))
		return Ext{Type: ExtTimestamp, Data: data}
	}
	if sec >= 0 && sec < 1<<34 {
		data := make([]byte, 8)
		binary.BigEndian.PutUint64(data, uint64(nsec)<<34|uint64(sec))
		return Ext{Type: ExtTimestamp, Data: data}
	}
	data := make([]byte, 12)
	binary.BigEndian.PutUint32(data, uint32(nsec))
	binary.BigEndian.PutUint64(data[4:], uint64(sec))
	return Ext{Type: ExtTimestamp, Data: data}
}

// TimeFromExt decodes any of the three timestamp payload layouts.
// Fails with ErrExtPayload for a wrong type code or payload size.
func TimeFromExt(e Ext) (time.Time, error) {
	if e.Type != ExtTimestamp {
		return time.Time{}, fmt.Errorf("pack: %w: not a timestamp extension", ErrExtPayload)
	}
	switch len(e.Data) {
	case 4:
		sec := binary.BigEndian.Uint32(e.Data)
		return time.Unix(int64(sec), 0).UTC(), nil
	case 8:
		v := binary.BigEndian.Uint64(e.Data)
		sec := int64(v & 0x3ffffffff)
		nsec := int64(v >> 34)
		return time.Unix(sec, nsec).UTC(), nil
	case 12:
		nsec := binary.BigEndian.Uint32(e.Data)
		sec := int64(binary.BigEndian.Uint64(e.Data[4:]))
		return time.Unix(sec, int64(nsec)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("pack: %w: timestamp payload size %d", ErrExtPayload, len(e.Data))
}

// BigIntToExt encodes n as a big-integer extension holding its minimal
// two's-complement big-endian representation.
func BigIntToExt(n *big.Int) Ext {
	width := n.BitLen()/8 + 1
	if n.Sign() < 0 && width > 1 {
		// A power-of-two magnitude like -128 fits one byte fewer.
		min := new(big.Int).Lsh(big.NewInt(-1), uint(8*(width-1)-1))
		if n.Cmp(min) >= 0 {
			width--
		}
	}
	m := new(big.Int).Set(n)
	if n.Sign() < 0 {
		m.Add(m, new(big.Int).Lsh(big.NewInt(1), uint(8*width)))
	}
	data := m.FillBytes(make([]byte, width))
	return Ext{Type: ExtBigInt, Data: data}
}

// BigIntFromExt decodes a big-integer extension payload.
func BigIntFromExt(e Ext) (*big.Int, error) {
	if e.Type != ExtBigInt {
		return nil, fmt.Errorf("pack: %w: not a big-integer extension", ErrExtPayload)
	}
	if len(e.Data) == 0 {
		return nil, fmt.Errorf("pack: %w: empty big-integer payload", ErrExtPayload)
	}
	n := new(big.Int).SetBytes(e.Data)
	if e.Data[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(8*len(e.Data))))
	}
	return n, nil
}

// PromoteExt is the default adapter: it maps the two reserved extension
// codes to native values (time.Time, *big.Int) and reports whether it
// recognized the code. Unknown codes and malformed reserved payloads
// return false, leaving the Ext opaque.
func PromoteExt(e Ext) (any, bool) {
	switch e.Type {
	case ExtTimestamp:
		t, err := TimeFromExt(e)
		if err != nil {
			return nil, false
		}
		return t, true
	case ExtBigInt:
		n, err := BigIntFromExt(e)
		if err != nil {
			return nil, false
		}
		return n, true
	}
	return nil, false
}
