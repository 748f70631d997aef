package msgpack

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/transit"
)

func sampleDocument() *transit.Document {
	return &transit.Document{ClassMaps: []transit.ClassMapDocument{
		{
			Source:    "Dog",
			Dest:      "DogDTO",
			ByDefault: true,
			Exclude:   []string{"age"},
			Fields: []transit.FieldDocument{
				{Source: "height", Dest: "height_new"},
				{Source: "name", Dest: "name", Direction: "a-to-b", Converter: "mask.name"},
			},
		},
		{Source: "Cat", Dest: "CatDTO", ByDefault: true},
	}}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/msgpack")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	c := New()
	original := sampleDocument()

	data, err := original.Encode(c)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	restored, err := transit.ParseDocument(c, data)
	if err != nil {
		t.Fatalf("ParseDocument() error: %v", err)
	}
	if !reflect.DeepEqual(restored.ClassMaps, original.ClassMaps) {
		t.Errorf("round-trip failed: got %+v, want %+v", restored.ClassMaps, original.ClassMaps)
	}
}

func TestParseDocument_UnknownField(t *testing.T) {
	type rogue struct {
		ClassMaps []map[string]string `msgpack:"classMaps"`
	}
	data, err := New().Marshal(rogue{ClassMaps: []map[string]string{{"source": "Dog", "dest": "DogDTO", "colour": "brown"}}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	if _, err := transit.ParseDocument(New(), data); !errors.Is(err, transit.ErrDecode) {
		t.Errorf("ParseDocument(unknown field) error = %v, want ErrDecode", err)
	}
}

func TestParseDocument_Invalid(t *testing.T) {
	_, err := transit.ParseDocument(New(), []byte{0xc1})
	if !errors.Is(err, transit.ErrDecode) {
		t.Errorf("ParseDocument(invalid) error = %v, want ErrDecode", err)
	}
}
