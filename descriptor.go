package transit

import (
	"fmt"
	"reflect"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/zoobzio/sentinel"
)

// tagName is the struct tag that overrides a field's mapping name.
// `transit:"height_new"` renames, `transit:"-"` hides the field.
const tagName = "transit"

func init() {
	sentinel.Tag(tagName)
}

// FieldKind classifies the shape of a field for mapping purposes.
type FieldKind int

const (
	// KindScalar is copied or converted by value.
	KindScalar FieldKind = iota
	// KindStruct is a nested shape mapped through the registry.
	KindStruct
	// KindSlice is a sequence mapped element by element.
	KindSlice
	// KindMap is a map copied entry by entry.
	KindMap
)

func (k FieldKind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindSlice:
		return "slice"
	case KindMap:
		return "map"
	default:
		return "scalar"
	}
}

// FieldDescriptor describes one mappable field of a struct type.
type FieldDescriptor struct {
	Name     string       // mapping name (tag override or Go name)
	GoName   string       // Go field name
	Index    []int        // reflect.Value.FieldByIndex access path
	Type     reflect.Type // declared field type
	Kind     FieldKind    // shape after pointer unwrapping
	Elem     reflect.Type // struct type for KindStruct, element type for KindSlice
	Nullable bool         // true for pointers, slices, maps and interfaces
}

// TypeDescriptor is the static field shape of a struct type.
// Descriptors are built once per type and cached.
type TypeDescriptor struct {
	Type   reflect.Type
	Name   string
	Fields []FieldDescriptor

	byName map[string]int
}

// Field returns the field with the given mapping name.
func (d *TypeDescriptor) Field(name string) (FieldDescriptor, bool) {
	i, ok := d.byName[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return d.Fields[i], true
}

// Has reports whether the descriptor has a field with the given mapping name.
func (d *TypeDescriptor) Has(name string) bool {
	_, ok := d.byName[name]
	return ok
}

var (
	descriptors   = make(map[reflect.Type]*TypeDescriptor)
	descriptorsMu sync.RWMutex
)

// Describe returns the cached descriptor for struct type T.
func Describe[T any]() (*TypeDescriptor, error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct type", ErrUnknownType, rt)
	}
	if d, ok := cachedDescriptor(rt); ok {
		return d, nil
	}
	return storeDescriptor(rt, sentinel.Scan[T]())
}

// describe returns the cached descriptor for a struct reflect.Type.
func describe(rt reflect.Type) (*TypeDescriptor, error) {
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct type", ErrUnknownType, typeName(rt))
	}
	if d, ok := cachedDescriptor(rt); ok {
		return d, nil
	}
	return storeDescriptor(rt, scanType(rt))
}

func cachedDescriptor(rt reflect.Type) (*TypeDescriptor, bool) {
	descriptorsMu.RLock()
	defer descriptorsMu.RUnlock()
	d, ok := descriptors[rt]
	return d, ok
}

func storeDescriptor(rt reflect.Type, meta sentinel.Metadata) (*TypeDescriptor, error) {
	d, err := buildDescriptor(rt, meta)
	if err != nil {
		return nil, err
	}

	descriptorsMu.Lock()
	defer descriptorsMu.Unlock()
	if cached, ok := descriptors[rt]; ok {
		return cached, nil
	}
	descriptors[rt] = d
	return d, nil
}

// scanType returns sentinel metadata for rt, scanning it directly when
// sentinel has not seen the type yet.
func scanType(rt reflect.Type) sentinel.Metadata {
	if meta, ok := sentinel.Lookup(rt.String()); ok && meta.TypeName == rt.Name() && meta.PackageName == rt.PkgPath() {
		return meta
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		tags := make(map[string]string)
		if val, ok := sf.Tag.Lookup(tagName); ok {
			tags[tagName] = val
		}

		meta.Fields = append(meta.Fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        tags,
		})
	}

	return meta
}

func buildDescriptor(rt reflect.Type, meta sentinel.Metadata) (*TypeDescriptor, error) {
	d := &TypeDescriptor{
		Type:   rt,
		Name:   rt.String(),
		Fields: make([]FieldDescriptor, 0, len(meta.Fields)),
		byName: make(map[string]int, len(meta.Fields)),
	}

	for _, fm := range meta.Fields {
		if fm.ReflectType == nil || !isExportedName(fm.Name) {
			continue
		}

		name := fm.Name
		if val, ok := fm.Tags[tagName]; ok {
			if val == "-" {
				continue
			}
			if val != "" {
				name = val
			}
		}

		if _, dup := d.byName[name]; dup {
			return nil, newPathError(name, rt, "duplicate mapping name")
		}

		fd := FieldDescriptor{
			Name:     name,
			GoName:   fm.Name,
			Index:    append([]int(nil), fm.Index...),
			Type:     fm.ReflectType,
			Nullable: isNullable(fm.ReflectType),
		}
		fd.Kind, fd.Elem = classify(fm.ReflectType)

		d.byName[name] = len(d.Fields)
		d.Fields = append(d.Fields, fd)
	}

	return d, nil
}

// classify determines the mapping kind of t, unwrapping pointers.
func classify(t reflect.Type) (FieldKind, reflect.Type) {
	t = indirect(t)
	switch t.Kind() {
	case reflect.Struct:
		if isOpaque(t) {
			return KindScalar, nil
		}
		return KindStruct, t
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindScalar, nil
		}
		return KindSlice, indirect(t.Elem())
	case reflect.Map:
		return KindMap, nil
	default:
		return KindScalar, nil
	}
}

// indirect strips pointer indirections from t.
func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func isNullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}

// isOpaque reports whether a struct has no exported fields (time.Time and
// friends). Opaque structs are copied by value instead of mapped.
func isOpaque(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return false
		}
	}
	return true
}

func isExportedName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
