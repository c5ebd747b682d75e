package isomsg

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events. Payloads describe sizes and timings only;
// field values never leave the holder through events.
var (
	SignalSchemaBuilt    = capitan.NewSignal("isomsg.schema.built", "Schema validated and frozen")
	SignalPackStart      = capitan.NewSignal("isomsg.pack.start", "Pack operation beginning")
	SignalPackComplete   = capitan.NewSignal("isomsg.pack.complete", "Pack operation finished")
	SignalUnpackStart    = capitan.NewSignal("isomsg.unpack.start", "Unpack operation beginning")
	SignalUnpackComplete = capitan.NewSignal("isomsg.unpack.complete", "Unpack operation finished")
	SignalExport         = capitan.NewSignal("isomsg.snapshot.export", "Value snapshot exported")
	SignalImport         = capitan.NewSignal("isomsg.snapshot.import", "Value snapshot imported")
)

// Keys for typed event data.
var (
	KeySchema      = capitan.NewStringKey("schema")
	KeyContentType = capitan.NewStringKey("content_type")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyFieldCount  = capitan.NewIntKey("field_count")
	KeyError       = capitan.NewErrorKey("error")
)

// emitSchemaBuilt emits an event when a builder produces a schema.
func emitSchemaBuilt(ctx context.Context, schema string, fields int) {
	capitan.Emit(ctx, SignalSchemaBuilt,
		KeySchema.Field(schema),
		KeyFieldCount.Field(fields),
	)
}

// emitPackStart emits an event when pack begins.
func emitPackStart(ctx context.Context, schema string) {
	capitan.Emit(ctx, SignalPackStart,
		KeySchema.Field(schema),
	)
}

// emitPackComplete emits an event when pack finishes.
func emitPackComplete(ctx context.Context, schema string, size int, duration time.Duration, fields int, err error) {
	payload := []capitan.Field{
		KeySchema.Field(schema),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyFieldCount.Field(fields),
	}
	if err != nil {
		payload = append(payload, KeyError.Field(err))
		capitan.Error(ctx, SignalPackComplete, payload...)
	} else {
		capitan.Emit(ctx, SignalPackComplete, payload...)
	}
}

// emitUnpackStart emits an event when unpack begins.
func emitUnpackStart(ctx context.Context, schema string, size int) {
	capitan.Emit(ctx, SignalUnpackStart,
		KeySchema.Field(schema),
		KeySize.Field(size),
	)
}

// emitUnpackComplete emits an event when unpack finishes.
func emitUnpackComplete(ctx context.Context, schema string, size int, duration time.Duration, fields int, err error) {
	payload := []capitan.Field{
		KeySchema.Field(schema),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyFieldCount.Field(fields),
	}
	if err != nil {
		payload = append(payload, KeyError.Field(err))
		capitan.Error(ctx, SignalUnpackComplete, payload...)
	} else {
		capitan.Emit(ctx, SignalUnpackComplete, payload...)
	}
}

// emitExport emits an event when a snapshot is exported.
func emitExport(ctx context.Context, schema, contentType string, size int, err error) {
	payload := snapshotPayload(schema, contentType, size, err)
	if err != nil {
		capitan.Error(ctx, SignalExport, payload...)
	} else {
		capitan.Emit(ctx, SignalExport, payload...)
	}
}

// emitImport emits an event when a snapshot is imported.
func emitImport(ctx context.Context, schema, contentType string, size int, err error) {
	payload := snapshotPayload(schema, contentType, size, err)
	if err != nil {
		capitan.Error(ctx, SignalImport, payload...)
	} else {
		capitan.Emit(ctx, SignalImport, payload...)
	}
}

func snapshotPayload(schema, contentType string, size int, err error) []capitan.Field {
	payload := []capitan.Field{
		KeySchema.Field(schema),
		KeyContentType.Field(contentType),
		KeySize.Field(size),
	}
	if err != nil {
		payload = append(payload, KeyError.Field(err))
	}
	return payload
}
