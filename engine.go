package transit

import (
	"fmt"
	"reflect"
)

// anyType is the element type used when a converter hides the leaf type.
var anyType = reflect.TypeFor[any]()

// execution carries the state of a single top-level mapping call.
type execution struct {
	factory  *Factory
	mapNulls bool
}

// run applies every rule of p, reading from src and writing into dst, then
// runs the class map's custom mapper and the destination's AfterMap.
// src is a struct value, dst a settable struct value.
func (x *execution) run(p *plan, src, dst reflect.Value) error {
	var entries pendingEntries
	for _, r := range p.rules {
		if err := x.copyPath(p, r, src, r.source.Steps, dst, r.dest.Steps, &entries); err != nil {
			return err
		}
	}
	if err := x.flushEntries(p, &entries); err != nil {
		return err
	}

	if !dst.CanAddr() {
		return nil
	}
	out := dst.Addr().Interface()

	if p.custom != nil {
		var err error
		if p.reverse {
			err = p.custom.MapBToA(src.Interface(), out)
		} else {
			err = p.custom.MapAToB(src.Interface(), out)
		}
		if err != nil {
			return newMappingError(ErrHook, p.src, p.dst, "", err)
		}
	}

	if am, ok := out.(AfterMapper); ok {
		if err := am.AfterMap(); err != nil {
			return newMappingError(ErrHook, p.src, p.dst, "", err)
		}
	}
	return nil
}

// copyPath walks source and destination paths in lockstep. Each iteration
// step on the source is matched by one on the destination; a source that
// iterates deeper than the destination is collected into a slice.
func (x *execution) copyPath(p *plan, r planRule, src reflect.Value, sSteps []Step, dst reflect.Value, dSteps []Step, entries *pendingEntries) error {
	sv, sRest, ok := walk(src, sSteps)
	if !ok {
		return x.absent(p, r, dst, dSteps)
	}

	target, dRest := locate(dst, dSteps)

	if len(sRest) == 0 {
		return x.assignLeaf(p, r, target, sv)
	}

	if len(dRest) == 0 {
		collected, err := x.collect(p, r, sv, sRest[1:])
		if err != nil {
			return err
		}
		return x.assign(target, collected, r.dest.Expr)
	}

	target = allocIndirect(target)
	if len(dRest) == 2 && r.dest.writesMapEntry() {
		return x.stageEntries(p, r, sv, sRest[1:], target, dRest[1].Kind, entries)
	}

	n := sv.Len()
	switch target.Kind() {
	case reflect.Slice:
		if target.IsNil() || target.Len() != n {
			grown := reflect.MakeSlice(target.Type(), n, n)
			reflect.Copy(grown, target)
			target.Set(grown)
		}
	case reflect.Array:
		n = min(n, target.Len())
	}

	for i := 0; i < n; i++ {
		if err := x.copyPath(p, r, sv.Index(i), sRest[1:], target.Index(i), dRest[1:], entries); err != nil {
			return err
		}
	}
	return nil
}

// assignLeaf writes a present source value to the located destination,
// running the rule's converter first.
func (x *execution) assignLeaf(p *plan, r planRule, target, sv reflect.Value) error {
	if r.converter != nil {
		out, ok, err := x.convert(p, r, sv)
		if err != nil {
			return err
		}
		if !ok {
			return x.assign(target, reflect.Value{}, r.dest.Expr)
		}
		sv = out
	}
	return x.assign(target, sv, r.dest.Expr)
}

// absent handles a source path that short-circuited on nil. Only the
// destination leaf is affected, the last field before any iteration: a
// nullable leaf is cleared if it exists, a value leaf fails with
// ErrNullDestination. Parents on the way are never cleared or allocated.
// Factories built WithMapNulls(false) leave the destination untouched.
func (x *execution) absent(p *plan, r planRule, dst reflect.Value, dSteps []Step) error {
	if !x.mapNulls {
		return nil
	}
	leaf, typ, found := reach(dst, dSteps)
	if !isNullable(typ) {
		return newMappingError(ErrNullDestination, p.src, p.dst, r.dest.Expr, nil)
	}
	if found {
		leaf.Set(reflect.Zero(typ))
	}
	return nil
}

// stageEntries records one map key or value per element of sv. The map is
// written by flushEntries once keys and values from every rule are known.
func (x *execution) stageEntries(p *plan, r planRule, sv reflect.Value, sSteps []Step, target reflect.Value, kind StepKind, entries *pendingEntries) error {
	pm := entries.forMap(target, r.dest.Expr)
	for i := 0; i < sv.Len(); i++ {
		v, rest, ok := walk(sv.Index(i), sSteps)
		switch {
		case ok && len(rest) > 0:
			collected, err := x.collect(p, r, v, rest[1:])
			if err != nil {
				return err
			}
			v = collected
		case ok && r.converter != nil:
			converted, present, err := x.convert(p, r, v)
			if err != nil {
				return err
			}
			v, ok = converted, present
		}
		if !ok {
			v = reflect.Value{}
		}
		pm.set(i, kind, v)
	}
	return nil
}

// flushEntries builds every staged map. An entry with a nil key fails with
// ErrNullDestination, or is dropped under WithMapNulls(false). Entries
// without a value get the zero value.
func (x *execution) flushEntries(p *plan, entries *pendingEntries) error {
	for _, pm := range entries.maps {
		mt := pm.target.Type()
		out := reflect.MakeMapWithSize(mt, len(pm.entries))
		for _, e := range pm.entries {
			if _, present := unwrap(e.key); !present {
				if !x.mapNulls {
					continue
				}
				return newMappingError(ErrNullDestination, p.src, p.dst, pm.field, fmt.Errorf("map key is nil"))
			}
			k := reflect.New(mt.Key()).Elem()
			if err := x.assign(k, e.key, pm.field); err != nil {
				return err
			}
			v := reflect.New(mt.Elem()).Elem()
			if e.hasValue {
				if err := x.assign(v, e.value, pm.field); err != nil {
					return err
				}
			}
			out.SetMapIndex(k, v)
		}
		pm.target.Set(out)
	}
	return nil
}

// collect gathers the values reached by steps from every element of sv
// into a new slice, preserving order. Absent elements become zero values.
func (x *execution) collect(p *plan, r planRule, sv reflect.Value, steps []Step) (reflect.Value, error) {
	n := sv.Len()
	out := reflect.MakeSlice(reflect.SliceOf(collectedType(sv.Type().Elem(), steps, r.converter != nil)), n, n)

	for i := 0; i < n; i++ {
		v, rest, ok := walk(sv.Index(i), steps)
		if !ok {
			continue
		}

		if len(rest) > 0 {
			nested, err := x.collect(p, r, v, rest[1:])
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(nested)
			continue
		}

		if r.converter != nil {
			converted, ok, err := x.convert(p, r, v)
			if err != nil {
				return reflect.Value{}, err
			}
			if !ok {
				continue
			}
			v = converted
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

// convert runs the rule's converter on a present value. ok is false when the
// converter produced nil.
func (x *execution) convert(p *plan, r planRule, v reflect.Value) (reflect.Value, bool, error) {
	v, present := unwrap(v)
	if !present {
		return reflect.Value{}, false, nil
	}
	out, err := r.converter.Convert(v.Interface())
	if err != nil {
		return reflect.Value{}, false, newMappingError(ErrConvert, p.src, p.dst, r.dest.Expr, err)
	}
	if out == nil {
		return reflect.Value{}, false, nil
	}
	return reflect.ValueOf(out), true, nil
}

// assign copies src into the settable dst, converting shapes as needed.
// An invalid or nil src is a null. Pointers are followed before copying, so
// an interface destination fed from a *T holds a T copy and never aliases
// the source.
func (x *execution) assign(dst, src reflect.Value, field string) error {
	src, ok := unwrap(src)
	if !ok {
		if !x.mapNulls {
			return nil
		}
		if isNullable(dst.Type()) {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		return newMappingError(ErrNullDestination, nil, dst.Type(), field, nil)
	}

	dt, st := dst.Type(), src.Type()

	switch dt.Kind() {
	case reflect.Pointer:
		elem := reflect.New(dt.Elem())
		if err := x.assign(elem.Elem(), src, field); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	case reflect.Interface:
		if st.AssignableTo(dt) {
			dst.Set(src)
			return nil
		}
		return newMappingError(ErrNoMapper, st, dt, field, nil)
	}

	switch {
	case dt.Kind() == reflect.Struct && st.Kind() == reflect.Struct:
		if st == dt && isOpaque(dt) {
			dst.Set(src)
			return nil
		}
		return x.mapStruct(dst, src)
	case isSequence(dt) && isSequence(st):
		return x.assignSequence(dst, src, field)
	case dt.Kind() == reflect.Map && st.Kind() == reflect.Map:
		return x.assignMap(dst, src, field)
	case convertible(st, dt):
		dst.Set(src.Convert(dt))
		return nil
	}

	return newMappingError(ErrNoMapper, st, dt, field, nil)
}

// mapStruct maps a nested struct through the registry.
func (x *execution) mapStruct(dst, src reflect.Value) error {
	p, err := x.factory.planFor(src.Type(), dst.Type())
	if err != nil {
		return err
	}
	return x.run(p, src, dst)
}

// assignSequence maps slices and arrays element by element. An empty source
// produces an empty, non-nil destination slice.
func (x *execution) assignSequence(dst, src reflect.Value, field string) error {
	dt, st := dst.Type(), src.Type()
	n := src.Len()

	out := dst
	if dt.Kind() == reflect.Slice {
		out = reflect.MakeSlice(dt, n, n)
	} else {
		n = min(n, dst.Len())
	}

	if st.Elem() == dt.Elem() && isPlain(dt.Elem()) {
		reflect.Copy(out, src)
	} else {
		for i := 0; i < n; i++ {
			if err := x.assign(out.Index(i), src.Index(i), fmt.Sprintf("%s[%d]", field, i)); err != nil {
				return err
			}
		}
	}

	if dt.Kind() == reflect.Slice {
		dst.Set(out)
	}
	return nil
}

// assignMap copies a map into a new destination map, mapping values.
func (x *execution) assignMap(dst, src reflect.Value, field string) error {
	dt, st := dst.Type(), src.Type()
	if !convertible(st.Key(), dt.Key()) {
		return newMappingError(ErrNoMapper, st, dt, field, nil)
	}

	out := reflect.MakeMapWithSize(dt, src.Len())
	iter := src.MapRange()
	for iter.Next() {
		k := iter.Key().Convert(dt.Key())
		v := reflect.New(dt.Elem()).Elem()
		if err := x.assign(v, iter.Value(), fmt.Sprintf("%s[%v]", field, k.Interface())); err != nil {
			return err
		}
		out.SetMapIndex(k, v)
	}
	dst.Set(out)
	return nil
}

// walk follows field steps from v until an iteration step or the end of
// the path. ok is false when a nil pointer, nil slice or nil leaf is met.
func walk(v reflect.Value, steps []Step) (reflect.Value, []Step, bool) {
	for i, s := range steps {
		if s.Kind == StepEach {
			seq, ok := unwrap(v)
			return seq, steps[i:], ok
		}
		sv, ok := unwrap(v)
		if !ok {
			return reflect.Value{}, nil, false
		}
		v = sv.FieldByIndex(s.Field.Index)
	}
	if isNil(v) {
		return reflect.Value{}, nil, false
	}
	return v, nil, true
}

// locate follows field steps on the destination until an iteration step or
// the end, allocating nil pointers along the way.
func locate(v reflect.Value, steps []Step) (reflect.Value, []Step) {
	for i, s := range steps {
		if s.Kind == StepEach {
			return v, steps[i:]
		}
		v = allocIndirect(v).FieldByIndex(s.Field.Index)
	}
	return v, nil
}

// reach follows field steps like locate but never allocates. typ is the
// static type of the last field before any iteration, or of v itself when
// there is none. found is false when a nil pointer hides that field.
func reach(v reflect.Value, steps []Step) (reflect.Value, reflect.Type, bool) {
	typ, found := v.Type(), true
	for _, s := range steps {
		if s.Kind != StepField {
			break
		}
		typ = s.Field.Type
		if !found {
			continue
		}
		for v.Kind() == reflect.Pointer && found {
			if v.IsNil() {
				found = false
			} else {
				v = v.Elem()
			}
		}
		if found {
			v = v.FieldByIndex(s.Field.Index)
		}
	}
	return v, typ, found
}

// pendingEntries holds map entries whose keys and values arrive from
// separate rules during one run.
type pendingEntries struct {
	maps  []*pendingMap
	index map[uintptr]int
}

type pendingMap struct {
	target  reflect.Value
	field   string
	entries []mapEntry
}

type mapEntry struct {
	key, value reflect.Value
	hasValue   bool
}

// forMap returns the staged entries of the addressable map value target.
func (e *pendingEntries) forMap(target reflect.Value, field string) *pendingMap {
	addr := target.Addr().Pointer()
	if i, ok := e.index[addr]; ok {
		return e.maps[i]
	}
	if e.index == nil {
		e.index = make(map[uintptr]int)
	}
	pm := &pendingMap{target: target, field: field}
	e.index[addr] = len(e.maps)
	e.maps = append(e.maps, pm)
	return pm
}

func (pm *pendingMap) set(i int, kind StepKind, v reflect.Value) {
	for len(pm.entries) <= i {
		pm.entries = append(pm.entries, mapEntry{})
	}
	if kind == StepMapKey {
		pm.entries[i].key = v
		return
	}
	pm.entries[i].value, pm.entries[i].hasValue = v, true
}

// allocIndirect dereferences pointers, allocating nil ones.
func allocIndirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	return v
}

// unwrap dereferences pointers and interfaces. ok is false for invalid or
// nil values, including nil slices and maps.
func unwrap(v reflect.Value) (reflect.Value, bool) {
	if !v.IsValid() {
		return v, false
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if isNil(v) {
		return reflect.Value{}, false
	}
	return v, true
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// collectedType is the element type produced by collecting steps from
// elements of type elem. No steps collects the elements themselves.
func collectedType(elem reflect.Type, steps []Step, converted bool) reflect.Type {
	for i, s := range steps {
		if s.Kind == StepEach {
			inner := indirect(steps[i-1].Field.Type).Elem()
			return reflect.SliceOf(collectedType(inner, steps[i+1:], converted))
		}
	}
	switch {
	case converted:
		return anyType
	case len(steps) == 0:
		return elem
	default:
		return steps[len(steps)-1].Field.Type
	}
}

func isSequence(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

// isPlain reports whether values of t can be copied without mapping.
func isPlain(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Array, reflect.Map:
		return false
	case reflect.Struct:
		return isOpaque(t)
	default:
		return true
	}
}

// convertible reports whether a scalar of type st may be converted to dt.
// Numeric kinds convert among themselves, strings to strings, bools to
// bools. Integer to string is refused.
func convertible(st, dt reflect.Type) bool {
	switch {
	case isNumeric(st.Kind()) && isNumeric(dt.Kind()):
		return true
	case st.Kind() == reflect.String && dt.Kind() == reflect.String:
		return true
	case st.Kind() == reflect.Bool && dt.Kind() == reflect.Bool:
		return true
	case st == dt:
		return isPlain(st)
	}
	return false
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
