package transit

import (
	"context"
	"reflect"
	"sort"
	"sync"
)

// pairKey identifies an ordered (source, destination) type pair.
type pairKey struct {
	src reflect.Type
	dst reflect.Type
}

// Factory is a registry of class maps and the mappers compiled from them.
//
// A Factory is owned by its caller: create one per mapping session and drop
// it when done. Registration and mapping are safe for concurrent use, but
// mappers only observe a stable rule set once registration has finished.
type Factory struct {
	mu        sync.RWMutex
	classMaps map[pairKey]*ClassMap
	plans     map[pairKey]*plan
	types     map[string]reflect.Type

	converters map[string]Converter
	mapNulls   bool
	strict     bool
}

// Option configures a Factory.
type Option func(*Factory)

// WithMapNulls controls what happens when an absent (nil) source value is
// routed to a destination field that cannot hold nil. When true, the
// default, mapping fails with ErrNullDestination. When false the field is
// left untouched.
func WithMapNulls(mapNulls bool) Option {
	return func(f *Factory) {
		f.mapNulls = mapNulls
	}
}

// WithStrict makes the factory reject rules that silently override other
// rules: duplicate explicit destinations and explicit rules shadowing a
// same-named default.
func WithStrict() Option {
	return func(f *Factory) {
		f.strict = true
	}
}

// WithConverter registers a named converter, replacing any builtin of the
// same name.
func WithConverter(name string, c Converter) Option {
	return func(f *Factory) {
		f.converters[name] = c
	}
}

// NewFactory creates an empty registry with the builtin converters.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		classMaps:  make(map[pairKey]*ClassMap),
		plans:      make(map[pairKey]*plan),
		types:      make(map[string]reflect.Type),
		converters: builtinConverters(),
		mapNulls:   true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetConverter registers a named converter after construction.
// Returns the factory for chaining.
func (f *Factory) SetConverter(name string, c Converter) *Factory {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.converters[name] = c
	f.plans = make(map[pairKey]*plan)
	return f
}

// register inserts cm, replacing any class map for the same pair, and
// drops every compiled plan so later lookups see the new rules.
func (f *Factory) register(ctx context.Context, cm *ClassMap) error {
	return f.registerAll(ctx, []*ClassMap{cm})
}

// registerAll validates every class map, then inserts them together. Nothing
// is inserted when any of them is invalid.
func (f *Factory) registerAll(ctx context.Context, cms []*ClassMap) error {
	for _, cm := range cms {
		if err := f.validate(cm); err != nil {
			return err
		}
	}

	f.mu.Lock()
	for _, cm := range cms {
		f.classMaps[pairKey{src: cm.Source, dst: cm.Dest}] = cm
	}
	f.plans = make(map[pairKey]*plan)
	f.mu.Unlock()

	for _, cm := range cms {
		emitClassMapRegistered(ctx, cm.Source.String(), cm.Dest.String(), len(cm.Rules), cm.ByDefault)
	}
	return nil
}

func (f *Factory) validate(cm *ClassMap) error {
	if cm.Source == nil || cm.Dest == nil {
		return newMappingError(ErrUnknownType, cm.Source, cm.Dest, "", nil)
	}
	if _, err := describe(cm.Source); err != nil {
		return err
	}
	if _, err := describe(cm.Dest); err != nil {
		return err
	}
	return checkRules(cm, f.strict)
}

// ClassMap returns a copy of the class map registered for exactly (src, dst).
func (f *Factory) ClassMap(src, dst reflect.Type) (ClassMap, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	cm, ok := f.classMaps[pairKey{src: src, dst: dst}]
	if !ok {
		return ClassMap{}, false
	}
	return *cm.clone(), true
}

// ClassMaps returns copies of every registered class map ordered by source
// then destination type name.
func (f *Factory) ClassMaps() []ClassMap {
	f.mu.RLock()
	out := make([]ClassMap, 0, len(f.classMaps))
	for _, cm := range f.classMaps {
		out = append(out, *cm.clone())
	}
	f.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Source.String() != out[j].Source.String() {
			return out[i].Source.String() < out[j].Source.String()
		}
		return out[i].Dest.String() < out[j].Dest.String()
	})
	return out
}

// planFor returns the compiled plan for (src, dst), building and caching it
// on first use.
func (f *Factory) planFor(src, dst reflect.Type) (*plan, error) {
	key := pairKey{src: src, dst: dst}

	// Fast path: read-lock cache check
	f.mu.RLock()
	if p, ok := f.plans[key]; ok {
		f.mu.RUnlock()
		return p, nil
	}
	f.mu.RUnlock()

	// Slow path: build and cache with write-lock
	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check pattern
	if p, ok := f.plans[key]; ok {
		return p, nil
	}

	p, err := f.compile(src, dst)
	if err != nil {
		return nil, err
	}
	f.plans[key] = p
	return p, nil
}

// compile resolves the class map for (src, dst): an exact registration
// first, then the reverse of a registration for (dst, src), then an implicit
// default map when the types are structurally identical. Callers hold f.mu.
func (f *Factory) compile(src, dst reflect.Type) (*plan, error) {
	if cm, ok := f.classMaps[pairKey{src: src, dst: dst}]; ok {
		return compilePlan(cm, false, f.converters, f.strict)
	}
	if cm, ok := f.classMaps[pairKey{src: dst, dst: src}]; ok {
		return compilePlan(cm, true, f.converters, f.strict)
	}
	if structurallyIdentical(src, dst, make(map[pairKey]bool)) {
		implicit := &ClassMap{Source: src, Dest: dst, ByDefault: true}
		return compilePlan(implicit, false, f.converters, f.strict)
	}
	return nil, newMappingError(ErrNoMapper, src, dst, "", nil)
}

// structurallyIdentical reports whether a and b have the same mapping field
// names with identical or, recursively, structurally identical types.
func structurallyIdentical(a, b reflect.Type, seen map[pairKey]bool) bool {
	if a == b {
		return true
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch a.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return structurallyIdentical(a.Elem(), b.Elem(), seen)
	case reflect.Map:
		return a.Key() == b.Key() && structurallyIdentical(a.Elem(), b.Elem(), seen)
	case reflect.Struct:
	default:
		return false
	}

	key := pairKey{src: a, dst: b}
	if seen[key] {
		return true
	}
	seen[key] = true

	da, err := describe(a)
	if err != nil {
		return false
	}
	db, err := describe(b)
	if err != nil {
		return false
	}
	if len(da.Fields) != len(db.Fields) || len(da.Fields) == 0 {
		return false
	}
	for _, fa := range da.Fields {
		fb, ok := db.Field(fa.Name)
		if !ok || !structurallyIdentical(fa.Type, fb.Type, seen) {
			return false
		}
	}
	return true
}

// Declare makes T known to documents under its qualified Go name (for
// example "pets.Dog") and any extra names given.
func Declare[T any](f *Factory, names ...string) {
	f.DeclareType(reflect.TypeFor[T](), names...)
}

// DeclareType is the reflect.Type form of Declare.
func (f *Factory) DeclareType(t reflect.Type, names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types[t.String()] = t
	for _, name := range names {
		f.types[name] = t
	}
}

// lookupType resolves a declared type name.
func (f *Factory) lookupType(name string) (reflect.Type, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.types[name]
	return t, ok
}

// nameOf returns the shortest declared name for t, preferring explicit
// aliases over the qualified Go name.
func (f *Factory) nameOf(t reflect.Type) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	best := t.String()
	for name, declared := range f.types {
		if declared == t && (len(name) < len(best) || (len(name) == len(best) && name < best)) {
			best = name
		}
	}
	return best
}
