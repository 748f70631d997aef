// Package transit maps Go structs onto other Go structs using declared
// class maps.
//
// A class map says how fields of a source type correspond to fields of a
// destination type. Class maps are registered on a Factory, which is the
// registry every mapper consults, including for nested types.
//
// # Basic Usage
//
//	type Dog struct {
//	    Name   string `transit:"name"`
//	    Age    int    `transit:"age"`
//	    Height int    `transit:"height"`
//	}
//
//	type DogDTO struct {
//	    Name      string `transit:"name"`
//	    Age       int    `transit:"age"`
//	    HeightNew int    `transit:"height_new"`
//	}
//
//	f := transit.NewFactory()
//	_ = transit.Define[Dog, DogDTO](f).
//	    Field("height", "height_new").
//	    ByDefault().
//	    Register()
//
//	m, _ := transit.GetMapper[Dog, DogDTO](f)
//	dto, _ := m.Map(ctx, Dog{Name: "wang", Age: 3, Height: 56})
//	// DogDTO{Name: "wang", Age: 3, HeightNew: 56}
//
// # Field Names
//
// Fields are addressed by mapping name: the `transit` tag value when present,
// otherwise the Go field name. `transit:"-"` hides a field from mapping.
//
// # Path Syntax
//
//	name            a direct field
//	owner.name      a field of a nested struct
//	dog{height}     for every element of slice dog, its height field
//	dog{}           every element of slice dog itself
//	byName{key}     keys of map byName, one entry per source element
//	byName{value}   values of map byName, paired with the keys by position
//
// Brace groups nest: `litters{pups{name}}`. A brace group ends its path.
// Map entries can only be written, and a {value} rule needs a {key} rule
// for the same map.
//
// # Defaults
//
// ByDefault maps every field whose name exists on both sides and is not
// already the root of an explicit rule (on either side) or excluded.
// Nested structs and slices of structs are mapped through the class map
// registered for their element types, so a rename declared on a nested
// pair applies inside lists too.
//
// # Nested Types
//
// When a value's type differs from its destination field's type, the
// factory looks up a class map for the pair, then the reverse of a class
// map for the swapped pair, then accepts structurally identical types.
// Otherwise mapping fails with ErrNoMapper.
//
// # Nulls
//
// A nil pointer or nil slice along a source path short-circuits that rule.
// Only the destination field it targets is affected: it is set to nil when
// it can hold nil, and a value-typed field fails with ErrNullDestination
// unless the factory was built WithMapNulls(false). Parent structs on the
// way are left alone.
// Empty slices map to empty slices.
//
// # Converters
//
// Rules can run a named converter with Using. Builtins cover hashing
// (hash.sha256, hash.sha512, hash.argon2, hash.bcrypt), masking
// (mask.email, mask.phone, mask.card, mask.ssn, mask.name) and string
// formatting (string). Register more with WithConverter; EncryptConverter
// and DecryptConverter wrap an AES-GCM Encryptor for directional rules.
//
// # Hooks
//
// Customize attaches a CustomMapper that runs after a class map's rules in
// either direction. Destination types implementing AfterMapper get
// AfterMap called once they are filled. Hook failures wrap ErrHook.
//
// # Documents
//
// Class maps can be declared in JSON, XML, YAML, MessagePack or BSON
// documents and loaded with Factory.Load using a codec from the matching
// subpackage. Types are referenced by the names passed to Declare.
//
// # Signals
//
// Registration, mapper creation, map calls, batch maps and document loads
// emit capitan signals (see signals.go) for observability.
package transit
