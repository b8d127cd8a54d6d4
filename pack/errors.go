package pack

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these through DecodeError and EncodeError.
var (
	// ErrUnknownTag indicates a tag byte outside the defined tag space.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrTruncated indicates the input ended before a unit's declared
	// payload or length field was complete.
	ErrTruncated = errors.New("truncated input")

	// ErrLength indicates a declared length exceeds the configured
	// maximum for its kind, or a value too large for any wire form.
	ErrLength = errors.New("length exceeds limit")

	// ErrDepth indicates container nesting beyond the configured maximum.
	ErrDepth = errors.New("depth exceeds limit")

	// ErrTrailing indicates leftover bytes after the root value.
	ErrTrailing = errors.New("trailing bytes after value")

	// ErrMapKey indicates a map key that cannot be represented as a
	// host property key (a container or extension used as a key).
	ErrMapKey = errors.New("map key not representable")

	// ErrUnsupported indicates a host value with no wire representation.
	ErrUnsupported = errors.New("unsupported value")

	// ErrIntRange indicates an arbitrary-precision integer outside the
	// 64-bit range while extension encoding is disabled.
	ErrIntRange = errors.New("integer out of range")

	// ErrExtPayload indicates a reserved extension with a malformed payload.
	ErrExtPayload = errors.New("malformed extension payload")
)

// DecodeError reports a structural violation found while decoding.
// Offset is the position of the offending unit's tag byte, except for
// ErrTrailing where it is the position of the first unconsumed byte.
type DecodeError struct {
	Offset int
	Err    error  // underlying sentinel (ErrUnknownTag, ErrTruncated, ...)
	Detail string // what was being read when the violation was found
}

func (e *DecodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("pack: decode offset %d: %v: %s", e.Offset, e.Err, e.Detail)
	}
	return fmt.Sprintf("pack: decode offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError reports a value the encoder cannot represent.
type EncodeError struct {
	Err    error  // underlying sentinel (ErrUnsupported, ErrDepth, ...)
	Detail string // the offending value or kind
}

func (e *EncodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("pack: encode: %v: %s", e.Err, e.Detail)
	}
	return fmt.Sprintf("pack: encode: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func decodeErr(offset int, sentinel error, detail string) error {
	return &DecodeError{Offset: offset, Err: sentinel, Detail: detail}
}

func encodeErr(sentinel error, detail string) error {
	return &EncodeError{Err: sentinel, Detail: detail}
}
