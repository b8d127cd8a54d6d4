package molt

import (
	"context"
	"time"
)

// Transform re-encodes data from one registered format to another by
// unmarshaling into a generic value and marshaling back out. Both
// formats must be registered.
func Transform(ctx context.Context, data []byte, from, to Format) ([]byte, error) {
	start := time.Now()
	emitTransformStart(ctx, from, to, len(data))

	out, err := transform(data, from, to)
	emitTransformComplete(ctx, from, to, len(out), time.Since(start), err)
	return out, err
}

// TransformDetect sniffs the input format and transforms to the target.
func TransformDetect(ctx context.Context, data []byte, to Format) ([]byte, error) {
	from, err := DetectContext(ctx, data)
	if err != nil {
		return nil, err
	}
	return Transform(ctx, data, from, to)
}

func transform(data []byte, from, to Format) ([]byte, error) {
	src, ok := Lookup(from)
	if !ok {
		return nil, newFormatError(ErrNotRegistered, from)
	}
	dst, ok := Lookup(to)
	if !ok {
		return nil, newFormatError(ErrNotRegistered, to)
	}

	var v any
	if err := src.Unmarshal(data, &v); err != nil {
		return nil, newCodecError(ErrUnmarshal, err)
	}
	out, err := dst.Marshal(v)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return out, nil
}
