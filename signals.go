package transit

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for mapping events.
var (
	SignalClassMapRegistered = capitan.NewSignal("transit.classmap.registered", "Class map registered on a factory")
	SignalMapperCreated      = capitan.NewSignal("transit.mapper.created", "Mapper instantiated")
	SignalMapStart           = capitan.NewSignal("transit.map.start", "Map operation beginning")
	SignalMapComplete        = capitan.NewSignal("transit.map.complete", "Map operation finished")
	SignalDocumentLoaded     = capitan.NewSignal("transit.document.loaded", "Mapping document loaded into a factory")
	SignalBatchComplete      = capitan.NewSignal("transit.batch.complete", "Batch map operation finished")
)

// Keys for typed event data.
var (
	KeySourceType  = capitan.NewStringKey("source_type")
	KeyDestType    = capitan.NewStringKey("dest_type")
	KeyContentType = capitan.NewStringKey("content_type")
	KeyRuleCount   = capitan.NewIntKey("rule_count")
	KeyClassMaps   = capitan.NewIntKey("class_maps")
	KeyItems       = capitan.NewIntKey("items")
	KeyByDefault   = capitan.NewStringKey("by_default")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitClassMapRegistered emits an event when a class map is registered.
func emitClassMapRegistered(ctx context.Context, src, dst string, rules int, byDefault bool) {
	flag := "false"
	if byDefault {
		flag = "true"
	}
	capitan.Emit(ctx, SignalClassMapRegistered,
		KeySourceType.Field(src),
		KeyDestType.Field(dst),
		KeyRuleCount.Field(rules),
		KeyByDefault.Field(flag),
	)
}

// emitMapperCreated emits an event when a typed mapper is created.
func emitMapperCreated(ctx context.Context, src, dst string, rules int) {
	capitan.Emit(ctx, SignalMapperCreated,
		KeySourceType.Field(src),
		KeyDestType.Field(dst),
		KeyRuleCount.Field(rules),
	)
}

// emitMapStart emits an event when a top-level map begins.
func emitMapStart(ctx context.Context, src, dst string) {
	capitan.Emit(ctx, SignalMapStart,
		KeySourceType.Field(src),
		KeyDestType.Field(dst),
	)
}

// emitMapComplete emits an event when a top-level map finishes.
func emitMapComplete(ctx context.Context, src, dst string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySourceType.Field(src),
		KeyDestType.Field(dst),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalMapComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalMapComplete, fields...)
	}
}

// emitDocumentLoaded emits an event when a mapping document is loaded.
func emitDocumentLoaded(ctx context.Context, contentType string, classMaps int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyClassMaps.Field(classMaps),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDocumentLoaded, fields...)
	} else {
		capitan.Emit(ctx, SignalDocumentLoaded, fields...)
	}
}

// emitBatchComplete emits an event when a batch map finishes.
func emitBatchComplete(ctx context.Context, src, dst string, items int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySourceType.Field(src),
		KeyDestType.Field(dst),
		KeyItems.Field(items),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalBatchComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalBatchComplete, fields...)
	}
}
