package molt

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for façade events.
var (
	SignalDetect            = capitan.NewSignal("molt.detect", "Format detection performed")
	SignalTransformStart    = capitan.NewSignal("molt.transform.start", "Transformation beginning")
	SignalTransformComplete = capitan.NewSignal("molt.transform.complete", "Transformation finished")
)

// Keys for typed event data.
var (
	KeyFormat     = capitan.NewStringKey("format")
	KeyFromFormat = capitan.NewStringKey("from_format")
	KeyToFormat   = capitan.NewStringKey("to_format")
	KeyInputSize  = capitan.NewIntKey("input_size")
	KeyOutputSize = capitan.NewIntKey("output_size")
	KeyDuration   = capitan.NewDurationKey("duration")
	KeyError      = capitan.NewErrorKey("error")
)

// emitDetect emits an event when detection runs.
func emitDetect(ctx context.Context, f Format, size int, err error) {
	fields := []capitan.Field{
		KeyFormat.Field(string(f)),
		KeyInputSize.Field(size),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDetect, fields...)
		return
	}
	capitan.Emit(ctx, SignalDetect, fields...)
}

// emitTransformStart emits an event when a transformation begins.
func emitTransformStart(ctx context.Context, from, to Format, size int) {
	capitan.Emit(ctx, SignalTransformStart,
		KeyFromFormat.Field(string(from)),
		KeyToFormat.Field(string(to)),
		KeyInputSize.Field(size),
	)
}

// emitTransformComplete emits an event when a transformation finishes.
func emitTransformComplete(ctx context.Context, from, to Format, outSize int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFromFormat.Field(string(from)),
		KeyToFormat.Field(string(to)),
		KeyOutputSize.Field(outSize),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalTransformComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalTransformComplete, fields...)
}
