package transit

import "testing"

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", Bidirectional, false},
		{"both", Bidirectional, false},
		{"a-to-b", AToB, false},
		{"b-to-a", BToA, false},
		{"sideways", Bidirectional, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDirection_String(t *testing.T) {
	for _, d := range []Direction{Bidirectional, AToB, BToA} {
		got, err := ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v", d.String(), got, err, d)
		}
	}
}

func TestRule_Applies(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		forward bool
		reverse bool
	}{
		{"bidirectional", Rule{Direction: Bidirectional}, true, true},
		{"a to b", Rule{Direction: AToB}, true, false},
		{"b to a", Rule{Direction: BToA}, false, true},
		{"converted", Rule{Direction: Bidirectional, Converter: ConvertString}, true, false},
		{"converted b to a", Rule{Direction: BToA, Converter: ConvertString}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.applies(false); got != tt.forward {
				t.Errorf("applies(forward) = %v, want %v", got, tt.forward)
			}
			if got := tt.rule.applies(true); got != tt.reverse {
				t.Errorf("applies(reverse) = %v, want %v", got, tt.reverse)
			}
		})
	}
}

func TestRule_Oriented(t *testing.T) {
	r := Rule{Source: "height", Dest: "height_new"}

	if got := r.oriented(false); got.Source != "height" || got.Dest != "height_new" {
		t.Errorf("oriented(false) = %+v, want unchanged", got)
	}
	if got := r.oriented(true); got.Source != "height_new" || got.Dest != "height" {
		t.Errorf("oriented(true) = %+v, want swapped", got)
	}
	if r.Source != "height" {
		t.Error("oriented should not modify the receiver")
	}
}
