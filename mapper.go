package transit

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

// Mapper maps values of S into new values of D using the class maps
// registered on its factory.
//
// Mappers are safe for concurrent use. They always consult the factory's
// current registry, so a class map registered after GetMapper still applies.
type Mapper[S, D any] struct {
	factory *Factory
	src     reflect.Type
	dst     reflect.Type
}

// GetMapper returns a mapper from S to D. The class map for the pair is
// resolved and its paths validated here; nested pairs are resolved on first
// use during Map.
func GetMapper[S, D any](f *Factory) (*Mapper[S, D], error) {
	src, dst := reflect.TypeFor[S](), reflect.TypeFor[D]()
	if src.Kind() != reflect.Struct || dst.Kind() != reflect.Struct {
		return nil, newMappingError(ErrUnknownType, src, dst, "", fmt.Errorf("mappers require struct types"))
	}

	p, err := f.planFor(src, dst)
	if err != nil {
		return nil, err
	}

	emitMapperCreated(context.Background(), src.String(), dst.String(), p.fieldCount())
	return &Mapper[S, D]{factory: f, src: src, dst: dst}, nil
}

// Map allocates a new D and fills it from src.
func (m *Mapper[S, D]) Map(ctx context.Context, src S) (D, error) {
	var out D
	if err := m.MapInto(ctx, src, &out); err != nil {
		var zero D
		return zero, err
	}
	return out, nil
}

// MapInto fills an existing destination from src. Fields not targeted by any
// rule keep their current values.
func (m *Mapper[S, D]) MapInto(ctx context.Context, src S, dst *D) error {
	if dst == nil {
		return newMappingError(ErrNullDestination, m.src, m.dst, "", nil)
	}
	return m.factory.mapValue(ctx, reflect.ValueOf(src), reflect.ValueOf(dst).Elem())
}

// Map maps src into the struct pointed to by dst using whatever class map
// the factory holds for their types. src may be a struct or a pointer to
// one; a nil src leaves dst untouched.
func (f *Factory) Map(ctx context.Context, src, dst any) error {
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Pointer || dv.IsNil() || dv.Elem().Kind() != reflect.Struct {
		return newMappingError(ErrNullDestination, reflect.TypeOf(src), reflect.TypeOf(dst), "",
			fmt.Errorf("destination must be a non-nil pointer to a struct"))
	}

	sv, ok := unwrap(reflect.ValueOf(src))
	if !ok {
		return nil
	}
	if sv.Kind() != reflect.Struct {
		return newMappingError(ErrUnknownType, sv.Type(), dv.Type().Elem(), "", fmt.Errorf("source must be a struct"))
	}
	return f.mapValue(ctx, sv, dv.Elem())
}

// mapValue runs the plan for (src, dst) and emits lifecycle signals.
func (f *Factory) mapValue(ctx context.Context, src, dst reflect.Value) (err error) {
	srcName, dstName := src.Type().String(), dst.Type().String()
	start := time.Now()
	emitMapStart(ctx, srcName, dstName)
	defer func() {
		emitMapComplete(ctx, srcName, dstName, time.Since(start), err)
	}()

	p, err := f.planFor(src.Type(), dst.Type())
	if err != nil {
		return err
	}

	x := &execution{factory: f, mapNulls: f.mapNulls}
	return x.run(p, src, dst)
}
