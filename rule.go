package transit

import "fmt"

// Direction restricts which way a rule applies. Class maps are declared
// from an A side (source) to a B side (destination) and can be applied
// in reverse.
type Direction int

const (
	// Bidirectional rules apply A to B and, with paths swapped, B to A.
	Bidirectional Direction = iota
	// AToB rules apply only when mapping A to B.
	AToB
	// BToA rules apply only when mapping B to A.
	BToA
)

func (d Direction) String() string {
	switch d {
	case AToB:
		return "a-to-b"
	case BToA:
		return "b-to-a"
	default:
		return "both"
	}
}

// ParseDirection parses the textual form used in mapping documents.
// The empty string means Bidirectional.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "both":
		return Bidirectional, nil
	case "a-to-b":
		return AToB, nil
	case "b-to-a":
		return BToA, nil
	default:
		return Bidirectional, fmt.Errorf("unknown direction %q", s)
	}
}

// Rule declares a correspondence between a path on the A side and a path on
// the B side of a class map.
type Rule struct {
	Source    string    // path expression on the A side
	Dest      string    // path expression on the B side
	Direction Direction // which way the rule applies
	Converter string    // named converter, empty for none
}

// RuleOption configures a Rule added through a Builder.
type RuleOption func(*Rule)

// Using attaches a named converter to the rule. A converted rule applies
// only in the direction it was declared: Field and FieldAToB convert A to B,
// FieldBToA converts B to A.
func Using(converter string) RuleOption {
	return func(r *Rule) {
		r.Converter = converter
	}
}

// applies reports whether the rule takes part when mapping in the given
// orientation.
func (r Rule) applies(reverse bool) bool {
	if reverse {
		return r.Direction == BToA || (r.Direction == Bidirectional && r.Converter == "")
	}
	return r.Direction != BToA
}

// oriented returns the rule with paths arranged source first for the
// given orientation.
func (r Rule) oriented(reverse bool) Rule {
	if reverse {
		r.Source, r.Dest = r.Dest, r.Source
	}
	return r
}
