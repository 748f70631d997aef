package transit

import (
	"strings"
	"unicode"
)

// Masker applies content-aware masking to text.
type Masker interface {
	Mask(value string) string
}

// MaskerFunc adapts a function to the Masker interface.
type MaskerFunc func(value string) string

// Mask calls f(value).
func (f MaskerFunc) Mask(value string) string {
	return f(value)
}

// MaskConverter turns a masker into a converter for string and []byte
// fields. Useful on AToB rules that map records into outbound DTOs.
func MaskConverter(m Masker) Converter {
	return ConverterFunc(func(value any) (any, error) {
		text, err := textOf(value)
		if err != nil {
			return nil, err
		}
		return m.Mask(string(text)), nil
	})
}

// EmailMasker keeps the first character of the local part and the domain:
// alice@example.com -> a***@example.com
func EmailMasker() Masker {
	return MaskerFunc(func(value string) string {
		at := strings.LastIndex(value, "@")
		if at < 1 {
			return strings.Repeat("*", len(value))
		}
		return value[:1] + "***" + value[at:]
	})
}

// PhoneMasker keeps the last four digits:
// (555) 123-4567 -> (***) ***-4567
func PhoneMasker() Masker {
	return MaskerFunc(func(value string) string {
		digits := digitsOf(value)
		if len(digits) < 4 {
			return strings.Repeat("*", len(value))
		}
		last4 := digits[len(digits)-4:]
		switch {
		case strings.HasPrefix(value, "(") && len(digits) >= 10:
			return "(***) ***-" + last4
		case len(digits) >= 10:
			return "***-***-" + last4
		default:
			return "***-" + last4
		}
	})
}

// CardMasker keeps the last four digits and the grouping separator:
// 4111 1111 1111 1111 -> **** **** **** 1111
func CardMasker() Masker {
	return MaskerFunc(func(value string) string {
		digits := digitsOf(value)
		if len(digits) < 4 {
			return strings.Repeat("*", len(value))
		}
		last4 := digits[len(digits)-4:]

		sep := ""
		switch {
		case strings.Contains(value, " "):
			sep = " "
		case strings.Contains(value, "-"):
			sep = "-"
		}
		if sep == "" {
			return strings.Repeat("*", len(digits)-4) + last4
		}

		groups := make([]string, (len(digits)-1)/4)
		for i := range groups {
			groups[i] = "****"
		}
		return strings.Join(append(groups, last4), sep)
	})
}

// SSNMasker keeps the last four digits: 123-45-6789 -> ***-**-6789
func SSNMasker() Masker {
	return MaskerFunc(func(value string) string {
		digits := digitsOf(value)
		if len(digits) < 4 {
			return strings.Repeat("*", len(value))
		}
		return "***-**-" + digits[len(digits)-4:]
	})
}

// NameMasker keeps the first letter of each word: John Smith -> J*** S****
func NameMasker() Masker {
	return MaskerFunc(func(value string) string {
		words := strings.Fields(value)
		for i, word := range words {
			runes := []rune(word)
			words[i] = string(runes[0]) + strings.Repeat("*", len(runes)-1)
		}
		return strings.Join(words, " ")
	})
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
