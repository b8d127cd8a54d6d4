package molt

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnknownFormat indicates detection could not identify the input.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrNotRegistered indicates no codec is registered for a format.
	ErrNotRegistered = errors.New("format not registered")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// FormatError wraps a sentinel error with the format involved.
type FormatError struct {
	Err    error  // Underlying sentinel error (ErrNotRegistered, ErrUnknownFormat)
	Format Format // Format that triggered the error, if known
}

func (e *FormatError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("%s: %q", e.Err.Error(), e.Format)
	}
	return e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newFormatError creates a FormatError for lookup and detection failures.
func newFormatError(sentinel error, format Format) error {
	return &FormatError{Err: sentinel, Format: format}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{Err: sentinel, Cause: cause}
}
