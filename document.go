package transit

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"reflect"
)

// Document is the declarative form of a set of class maps. Types are
// referenced by the names given to Declare.
//
// In YAML:
//
//	classMaps:
//	  - source: Dog
//	    dest: DogDTO
//	    byDefault: true
//	    fields:
//	      - source: height
//	        dest: height_new
type Document struct {
	XMLName   xml.Name           `json:"-" yaml:"-" xml:"transit" bson:"-" msgpack:"-"`
	ClassMaps []ClassMapDocument `json:"classMaps" yaml:"classMaps" xml:"classMap" bson:"classMaps" msgpack:"classMaps"`
}

// ClassMapDocument declares one class map.
type ClassMapDocument struct {
	Source    string          `json:"source" yaml:"source" xml:"source,attr" bson:"source" msgpack:"source"`
	Dest      string          `json:"dest" yaml:"dest" xml:"dest,attr" bson:"dest" msgpack:"dest"`
	ByDefault bool            `json:"byDefault,omitempty" yaml:"byDefault,omitempty" xml:"byDefault,attr,omitempty" bson:"byDefault,omitempty" msgpack:"byDefault,omitempty"`
	Exclude   []string        `json:"exclude,omitempty" yaml:"exclude,omitempty" xml:"exclude,omitempty" bson:"exclude,omitempty" msgpack:"exclude,omitempty"`
	Fields    []FieldDocument `json:"fields,omitempty" yaml:"fields,omitempty" xml:"field,omitempty" bson:"fields,omitempty" msgpack:"fields,omitempty"`
}

// FieldDocument declares one rule of a class map.
type FieldDocument struct {
	Source    string `json:"source" yaml:"source" xml:"source,attr" bson:"source" msgpack:"source"`
	Dest      string `json:"dest" yaml:"dest" xml:"dest,attr" bson:"dest" msgpack:"dest"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty" xml:"direction,attr,omitempty" bson:"direction,omitempty" msgpack:"direction,omitempty"`
	Converter string `json:"converter,omitempty" yaml:"converter,omitempty" xml:"converter,attr,omitempty" bson:"converter,omitempty" msgpack:"converter,omitempty"`
}

// ParseDocument decodes a mapping document and checks its syntax.
func ParseDocument(codec Codec, data []byte) (*Document, error) {
	var doc Document
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, newDocumentError(ErrDecode, err)
	}
	if err := doc.Check(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode encodes the document with codec.
func (d *Document) Encode(codec Codec) ([]byte, error) {
	data, err := codec.Marshal(d)
	if err != nil {
		return nil, newDocumentError(ErrEncode, err)
	}
	return data, nil
}

// Check validates everything that can be validated without Go types:
// type names are present, paths parse and directions are known. All
// problems are reported together.
func (d *Document) Check() error {
	var errs []error
	for i, cm := range d.ClassMaps {
		where := fmt.Sprintf("classMaps[%d]", i)
		if cm.Source == "" || cm.Dest == "" {
			errs = append(errs, fmt.Errorf("%s: %w: source and dest type names are required", where, ErrUnknownType))
		}
		for j, fd := range cm.Fields {
			if _, err := ParsePath(fd.Source); err != nil {
				errs = append(errs, fmt.Errorf("%s.fields[%d]: %w", where, j, err))
			}
			if _, err := ParsePath(fd.Dest); err != nil {
				errs = append(errs, fmt.Errorf("%s.fields[%d]: %w", where, j, err))
			}
			if _, err := ParseDirection(fd.Direction); err != nil {
				errs = append(errs, fmt.Errorf("%s.fields[%d]: %w", where, j, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Load decodes a mapping document and registers every class map in it.
// All type names must have been declared with Declare. Loading is all or
// nothing: if any class map is invalid, none of them is registered.
func (f *Factory) Load(ctx context.Context, codec Codec, data []byte) (err error) {
	count := 0
	defer func() {
		emitDocumentLoaded(ctx, codec.ContentType(), count, err)
	}()

	doc, err := ParseDocument(codec, data)
	if err != nil {
		return err
	}

	cms := make([]*ClassMap, 0, len(doc.ClassMaps))
	for i, cmd := range doc.ClassMaps {
		b, err := f.builderFor(cmd)
		if err != nil {
			return fmt.Errorf("classMaps[%d]: %w", i, err)
		}
		cms = append(cms, b.classMap.clone())
	}
	if err := f.registerAll(ctx, cms); err != nil {
		return err
	}
	count = len(cms)
	return nil
}

// Export encodes every registered class map as a document.
func (f *Factory) Export(codec Codec) ([]byte, error) {
	return f.Document().Encode(codec)
}

// Document returns the registry as a document, ordered like ClassMaps.
func (f *Factory) Document() *Document {
	classMaps := f.ClassMaps()
	doc := &Document{ClassMaps: make([]ClassMapDocument, 0, len(classMaps))}

	for _, cm := range classMaps {
		cmd := ClassMapDocument{
			Source:    f.nameOf(cm.Source),
			Dest:      f.nameOf(cm.Dest),
			ByDefault: cm.ByDefault,
			Exclude:   cm.Exclude,
		}
		for _, r := range cm.Rules {
			fd := FieldDocument{Source: r.Source, Dest: r.Dest, Converter: r.Converter}
			if r.Direction != Bidirectional {
				fd.Direction = r.Direction.String()
			}
			cmd.Fields = append(cmd.Fields, fd)
		}
		doc.ClassMaps = append(doc.ClassMaps, cmd)
	}
	return doc
}

// builderFor turns a class map document into a builder on f.
func (f *Factory) builderFor(cmd ClassMapDocument) (*Builder, error) {
	src, err := f.resolveType(cmd.Source)
	if err != nil {
		return nil, err
	}
	dst, err := f.resolveType(cmd.Dest)
	if err != nil {
		return nil, err
	}

	b := f.Define(src, dst)
	for _, fd := range cmd.Fields {
		dir, err := ParseDirection(fd.Direction)
		if err != nil {
			return nil, err
		}
		var opts []RuleOption
		if fd.Converter != "" {
			opts = append(opts, Using(fd.Converter))
		}
		b.add(fd.Source, fd.Dest, dir, opts)
	}
	for _, name := range cmd.Exclude {
		b.Exclude(name)
	}
	if cmd.ByDefault {
		b.ByDefault()
	}
	return b, nil
}

func (f *Factory) resolveType(name string) (reflect.Type, error) {
	t, ok := f.lookupType(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q was not declared", ErrUnknownType, name)
	}
	return t, nil
}
