package transit

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

type pathAddress struct {
	City string `transit:"city"`
}

type pathOwner struct {
	Name    string       `transit:"name"`
	Address *pathAddress `transit:"address"`
}

type pathDog struct {
	Name   string   `transit:"name"`
	Height int      `transit:"height"`
	Tags   []string `transit:"tags"`
}

type pathLitter struct {
	Pups []*pathDog `transit:"pups"`
}

type pathCat struct {
	Name    string             `transit:"name"`
	Dog     []pathDog          `transit:"dog"`
	Owner   pathOwner          `transit:"owner"`
	Litters []pathLitter       `transit:"litters"`
	Born    time.Time          `transit:"born"`
	ByName  map[string]pathDog `transit:"byName"`
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		expr  string
		steps []Step
		depth int
	}{
		{
			expr:  "name",
			steps: []Step{{Kind: StepField, Name: "name"}},
		},
		{
			expr: "dog{height}",
			steps: []Step{
				{Kind: StepField, Name: "dog"},
				{Kind: StepEach},
				{Kind: StepField, Name: "height"},
			},
			depth: 1,
		},
		{
			expr: "owner.address.city",
			steps: []Step{
				{Kind: StepField, Name: "owner"},
				{Kind: StepField, Name: "address"},
				{Kind: StepField, Name: "city"},
			},
		},
		{
			expr: "litters{pups{name}}",
			steps: []Step{
				{Kind: StepField, Name: "litters"},
				{Kind: StepEach},
				{Kind: StepField, Name: "pups"},
				{Kind: StepEach},
				{Kind: StepField, Name: "name"},
			},
			depth: 2,
		},
		{
			expr: "a.b{c.d_2}",
			steps: []Step{
				{Kind: StepField, Name: "a"},
				{Kind: StepField, Name: "b"},
				{Kind: StepEach},
				{Kind: StepField, Name: "c"},
				{Kind: StepField, Name: "d_2"},
			},
			depth: 1,
		},
		{
			expr: "dog{}",
			steps: []Step{
				{Kind: StepField, Name: "dog"},
				{Kind: StepEach},
			},
			depth: 1,
		},
		{
			expr: "litters{pups{}}",
			steps: []Step{
				{Kind: StepField, Name: "litters"},
				{Kind: StepEach},
				{Kind: StepField, Name: "pups"},
				{Kind: StepEach},
			},
			depth: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := ParsePath(tt.expr)
			if err != nil {
				t.Fatalf("ParsePath() error: %v", err)
			}
			if !reflect.DeepEqual(p.Steps, tt.steps) {
				t.Errorf("Steps = %+v, want %+v", p.Steps, tt.steps)
			}
			if p.Depth() != tt.depth {
				t.Errorf("Depth() = %d, want %d", p.Depth(), tt.depth)
			}
			if p.String() != tt.expr {
				t.Errorf("String() = %q, want %q", p.String(), tt.expr)
			}
			if p.RootName() != tt.steps[0].Name {
				t.Errorf("RootName() = %q, want %q", p.RootName(), tt.steps[0].Name)
			}
		})
	}
}

func TestParsePath_Invalid(t *testing.T) {
	tests := []string{
		"",
		"dog{",
		"dog{}{}",
		"dog{height",
		"dog}",
		"dog{height}.name",
		"dog{height}x",
		"1abc",
		"a..b",
		"a.",
		"a b",
		"{name}",
	}

	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := ParsePath(expr)
			if err == nil {
				t.Fatalf("ParsePath(%q) should fail", expr)
			}
			if !errors.Is(err, ErrInvalidPath) {
				t.Errorf("error should be ErrInvalidPath, got %v", err)
			}
			var pe *PathError
			if !errors.As(err, &pe) {
				t.Fatalf("error should be *PathError, got %T", err)
			}
			if pe.Expr != expr {
				t.Errorf("Expr = %q, want %q", pe.Expr, expr)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	desc, err := Describe[pathCat]()
	if err != nil {
		t.Fatalf("Describe() error: %v", err)
	}

	tests := []struct {
		expr     string
		leaf     string
		leafType reflect.Type
	}{
		{"name", "name", reflect.TypeFor[string]()},
		{"dog{height}", "height", reflect.TypeFor[int]()},
		{"owner.address.city", "city", reflect.TypeFor[string]()},
		{"litters{pups{name}}", "name", reflect.TypeFor[string]()},
		{"dog", "dog", reflect.TypeFor[[]pathDog]()},
		{"born", "born", reflect.TypeFor[time.Time]()},
		{"dog{}", "dog", reflect.TypeFor[[]pathDog]()},
		{"byName{key}", "byName", reflect.TypeFor[map[string]pathDog]()},
		{"byName{value}", "byName", reflect.TypeFor[map[string]pathDog]()},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := ResolvePath(tt.expr, desc)
			if err != nil {
				t.Fatalf("ResolvePath() error: %v", err)
			}
			if p.Root != desc.Type {
				t.Errorf("Root = %v, want %v", p.Root, desc.Type)
			}
			leaf := p.Leaf()
			if leaf.Name != tt.leaf {
				t.Errorf("Leaf().Name = %q, want %q", leaf.Name, tt.leaf)
			}
			if leaf.Type != tt.leafType {
				t.Errorf("Leaf().Type = %v, want %v", leaf.Type, tt.leafType)
			}
		})
	}
}

func TestResolvePath_Invalid(t *testing.T) {
	desc, err := Describe[pathCat]()
	if err != nil {
		t.Fatalf("Describe() error: %v", err)
	}

	tests := []struct {
		expr   string
		reason string
	}{
		{"missing", `no field "missing"`},
		{"name{height}", "is not a slice"},
		{"name.length", "is not a struct"},
		{"dog.height", "is not a struct"},
		{"born.wall", "is not a struct"},
		{"dog{missing}", `no field "missing"`},
		{"dog{tags{x}}", "non-struct"},
		{"byName{}", "takes {key} or {value}"},
		{"byName{name}", "got {name}"},
		{"byName{key.name}", "takes {key} or {value}"},
		{"owner{}", "is not a slice"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := ResolvePath(tt.expr, desc)
			if !errors.Is(err, ErrInvalidPath) {
				t.Fatalf("ResolvePath(%q) error = %v, want ErrInvalidPath", tt.expr, err)
			}
			var pe *PathError
			if !errors.As(err, &pe) {
				t.Fatalf("error should be *PathError, got %T", err)
			}
			if pe.Type != desc.Type {
				t.Errorf("Type = %v, want %v", pe.Type, desc.Type)
			}
			if !strings.Contains(pe.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to contain %q", pe.Reason, tt.reason)
			}
		})
	}
}

func TestResolvePath_MapEntry(t *testing.T) {
	desc, err := Describe[pathCat]()
	if err != nil {
		t.Fatalf("Describe() error: %v", err)
	}

	for expr, kind := range map[string]StepKind{"byName{key}": StepMapKey, "byName{value}": StepMapValue} {
		p, err := ResolvePath(expr, desc)
		if err != nil {
			t.Fatalf("ResolvePath(%q) error: %v", expr, err)
		}
		if last := p.Steps[len(p.Steps)-1]; last.Kind != kind {
			t.Errorf("ResolvePath(%q) last step = %v, want %v", expr, last.Kind, kind)
		}
		if !p.writesMapEntry() || p.Depth() != 1 {
			t.Errorf("ResolvePath(%q) should write a map entry at depth 1", expr)
		}
	}

	p, err := ResolvePath("dog{name}", desc)
	if err != nil {
		t.Fatalf("ResolvePath() error: %v", err)
	}
	if p.writesMapEntry() {
		t.Error("dog{name} should not write a map entry")
	}
}

func TestSplitRoot(t *testing.T) {
	tests := map[string]string{
		"name":                "name",
		"dog{height}":         "dog",
		"owner.address.city":  "owner",
		"litters{pups{name}}": "litters",
	}
	for expr, want := range tests {
		if got := splitRoot(expr); got != want {
			t.Errorf("splitRoot(%q) = %q, want %q", expr, got, want)
		}
	}
}
