package transit

import (
	"fmt"
)

// Converter transforms a field value while it is being mapped.
// The value is never a nil pointer: absent values bypass converters.
// Returning nil treats the result as absent.
type Converter interface {
	Convert(value any) (any, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(value any) (any, error)

// Convert calls f(value).
func (f ConverterFunc) Convert(value any) (any, error) {
	return f(value)
}

// Builtin converter names.
const (
	ConvertString = "string"

	ConvertSHA256 = "hash.sha256"
	ConvertSHA512 = "hash.sha512"
	ConvertArgon2 = "hash.argon2"
	ConvertBcrypt = "hash.bcrypt"

	ConvertMaskEmail = "mask.email"
	ConvertMaskPhone = "mask.phone"
	ConvertMaskCard  = "mask.card"
	ConvertMaskSSN   = "mask.ssn"
	ConvertMaskName  = "mask.name"
)

// Stringify formats any value with fmt.Sprint.
func Stringify() Converter {
	return ConverterFunc(func(value any) (any, error) {
		return fmt.Sprint(value), nil
	})
}

// builtinConverters returns the default converter registry.
func builtinConverters() map[string]Converter {
	return map[string]Converter{
		ConvertString: Stringify(),

		ConvertSHA256: HashConverter(SHA256Hasher()),
		ConvertSHA512: HashConverter(SHA512Hasher()),
		ConvertArgon2: HashConverter(Argon2()),
		ConvertBcrypt: HashConverter(Bcrypt()),

		ConvertMaskEmail: MaskConverter(EmailMasker()),
		ConvertMaskPhone: MaskConverter(PhoneMasker()),
		ConvertMaskCard:  MaskConverter(CardMasker()),
		ConvertMaskSSN:   MaskConverter(SSNMasker()),
		ConvertMaskName:  MaskConverter(NameMasker()),
	}
}

// textOf extracts text from string-like values.
func textOf(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case fmt.Stringer:
		return []byte(v.String()), nil
	default:
		return nil, fmt.Errorf("expected string or []byte, got %T", value)
	}
}
