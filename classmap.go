package transit

import (
	"context"
	"reflect"
	"slices"
)

// ClassMap declares how fields of a Source type correspond to fields of a
// Dest type. A class map registered for (A, B) also serves (B, A) unless
// (B, A) is registered on its own.
type ClassMap struct {
	Source    reflect.Type
	Dest      reflect.Type
	Rules     []Rule
	ByDefault bool
	Exclude   []string
	Custom    CustomMapper // runs after the rules, nil for none
}

// excluded reports whether name was excluded from default matching.
func (cm *ClassMap) excluded(name string) bool {
	return slices.Contains(cm.Exclude, name)
}

// clone returns a copy that shares no slices with cm.
func (cm *ClassMap) clone() *ClassMap {
	return &ClassMap{
		Source:    cm.Source,
		Dest:      cm.Dest,
		Rules:     slices.Clone(cm.Rules),
		ByDefault: cm.ByDefault,
		Exclude:   slices.Clone(cm.Exclude),
		Custom:    cm.Custom,
	}
}

// Builder constructs a ClassMap fluently. Nothing is visible to mappers
// until Register is called.
//
//	err := transit.Define[Dog, DogDTO](f).
//	    Field("height", "height_new").
//	    ByDefault().
//	    Register()
type Builder struct {
	factory  *Factory
	classMap ClassMap
}

// Define starts a class map from S to D on the factory.
func Define[S, D any](f *Factory) *Builder {
	return f.Define(reflect.TypeFor[S](), reflect.TypeFor[D]())
}

// Define starts a class map between two struct types.
func (f *Factory) Define(src, dst reflect.Type) *Builder {
	return &Builder{
		factory:  f,
		classMap: ClassMap{Source: src, Dest: dst},
	}
}

// Field maps src on the A side to dst on the B side in both directions.
func (b *Builder) Field(src, dst string, opts ...RuleOption) *Builder {
	return b.add(src, dst, Bidirectional, opts)
}

// FieldAToB maps src to dst only when mapping A to B.
func (b *Builder) FieldAToB(src, dst string, opts ...RuleOption) *Builder {
	return b.add(src, dst, AToB, opts)
}

// FieldBToA maps dst back to src only when mapping B to A.
func (b *Builder) FieldBToA(src, dst string, opts ...RuleOption) *Builder {
	return b.add(src, dst, BToA, opts)
}

// Exclude keeps the named field out of default matching on both sides.
func (b *Builder) Exclude(name string) *Builder {
	b.classMap.Exclude = append(b.classMap.Exclude, name)
	return b
}

// ByDefault maps every same-named field not covered by an explicit rule.
func (b *Builder) ByDefault() *Builder {
	b.classMap.ByDefault = true
	return b
}

// Register validates rule syntax and inserts the class map into the
// factory, replacing any earlier class map for the same type pair.
func (b *Builder) Register() error {
	return b.factory.register(context.Background(), b.classMap.clone())
}

// RegisterContext is Register with a context for emitted signals.
func (b *Builder) RegisterContext(ctx context.Context) error {
	return b.factory.register(ctx, b.classMap.clone())
}

func (b *Builder) add(src, dst string, dir Direction, opts []RuleOption) *Builder {
	r := Rule{Source: src, Dest: dst, Direction: dir}
	for _, opt := range opts {
		opt(&r)
	}
	b.classMap.Rules = append(b.classMap.Rules, r)
	return b
}

// checkRules validates the syntax of every rule and, when strict, rejects
// two explicit rules writing the same destination in the same direction.
func checkRules(cm *ClassMap, strict bool) error {
	for _, r := range cm.Rules {
		if _, err := ParsePath(r.Source); err != nil {
			return err
		}
		if _, err := ParsePath(r.Dest); err != nil {
			return err
		}
	}
	if !strict {
		return nil
	}

	for _, reverse := range []bool{false, true} {
		seen := make(map[string]bool)
		for _, r := range cm.Rules {
			if !r.applies(reverse) {
				continue
			}
			dest := r.oriented(reverse).Dest
			if seen[dest] {
				return newMappingError(ErrDuplicateFieldRule, cm.Source, cm.Dest, dest, nil)
			}
			seen[dest] = true
		}
	}
	return nil
}
