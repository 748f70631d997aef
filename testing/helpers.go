// Package testing provides fixtures and helpers for tests that use transit.
package testing

import (
	"testing"

	"github.com/zoobzio/transit"
)

// Dog is the A side of the pet fixtures.
type Dog struct {
	Name   string `transit:"name"`
	Age    int    `transit:"age"`
	Height int    `transit:"height"`
}

// DogDTO renames height to height_new.
type DogDTO struct {
	Name      string `transit:"name"`
	Age       int    `transit:"age"`
	HeightNew int    `transit:"height_new"`
}

// Cat nests a list of dogs.
type Cat struct {
	Name string `transit:"name"`
	Age  int    `transit:"age"`
	Dog  []Dog  `transit:"dog"`
}

// CatDTO nests a list of dog DTOs.
type CatDTO struct {
	Name string   `transit:"name"`
	Age  int      `transit:"age"`
	Dog  []DogDTO `transit:"dog"`
}

// PetDocument declares the pet class maps in YAML.
const PetDocument = `classMaps:
  - source: Dog
    dest: DogDTO
    byDefault: true
    fields:
      - source: height
        dest: height_new
  - source: Cat
    dest: CatDTO
    byDefault: true
`

// Dogs returns the two dogs used by the pet scenarios.
func Dogs() []Dog {
	return []Dog{
		{Name: "wang", Age: 3, Height: 56},
		{Name: "hong", Age: 5, Height: 60},
	}
}

// Wang returns the cat used by the pet scenarios.
func Wang() Cat {
	return Cat{Name: "wang", Age: 3, Dog: Dogs()}
}

// DeclarePets makes the pet fixtures known to documents under their short
// names (Dog, DogDTO, Cat, CatDTO).
func DeclarePets(f *transit.Factory) {
	transit.Declare[Dog](f, "Dog")
	transit.Declare[DogDTO](f, "DogDTO")
	transit.Declare[Cat](f, "Cat")
	transit.Declare[CatDTO](f, "CatDTO")
}

// RegisterPets registers the pet class maps: Dog to DogDTO renames height,
// Cat to CatDTO maps by default only.
func RegisterPets(tb testing.TB, f *transit.Factory) {
	tb.Helper()
	if err := transit.Define[Dog, DogDTO](f).Field("height", "height_new").ByDefault().Register(); err != nil {
		tb.Fatalf("register Dog -> DogDTO: %v", err)
	}
	if err := transit.Define[Cat, CatDTO](f).ByDefault().Register(); err != nil {
		tb.Fatalf("register Cat -> CatDTO: %v", err)
	}
}

// PetFactory returns a factory with the pet fixtures declared and registered.
func PetFactory(tb testing.TB, opts ...transit.Option) *transit.Factory {
	tb.Helper()
	f := transit.NewFactory(opts...)
	DeclarePets(f)
	RegisterPets(tb, f)
	return f
}
