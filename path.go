package transit

import (
	"reflect"
	"strings"
)

// StepKind distinguishes the kinds of path steps.
type StepKind int

const (
	// StepField accesses a named field.
	StepField StepKind = iota
	// StepEach iterates the elements of the preceding slice field.
	StepEach
	// StepMapKey writes the keys of the preceding map field, one entry
	// per iterated source element.
	StepMapKey
	// StepMapValue writes the values of the preceding map field.
	StepMapValue
)

// Reserved names inside the braces of a map field.
const (
	mapKeyName   = "key"
	mapValueName = "value"
)

// Step is one access step of a FieldPath.
type Step struct {
	Kind  StepKind
	Name  string          // field name, empty for StepEach
	Field FieldDescriptor // populated by ResolvePath
}

// FieldPath is a parsed field path expression.
//
// Grammar:
//
//	path    := segment ( '.' segment )* [ '{' [ path ] '}' ]
//	segment := identifier
//
// "dog{height}" reads field dog (a slice) and, for every element, the
// element's height field. "names{}" is every element itself. On a map
// field, "{key}" and "{value}" address the keys and values of entries
// built in lockstep with a source iteration:
//
//	names{fullName} -> byName{key}
//	names{}         -> byName{value}
type FieldPath struct {
	Expr  string
	Steps []Step
	Root  reflect.Type // nil until resolved
}

// RootName returns the name of the first field accessed by the path.
func (p FieldPath) RootName() string {
	if len(p.Steps) == 0 {
		return ""
	}
	return p.Steps[0].Name
}

// writesMapEntry reports whether the path ends in a map key or value step.
func (p FieldPath) writesMapEntry() bool {
	if len(p.Steps) == 0 {
		return false
	}
	k := p.Steps[len(p.Steps)-1].Kind
	return k == StepMapKey || k == StepMapValue
}

// Depth returns the number of iteration steps in the path.
func (p FieldPath) Depth() int {
	n := 0
	for _, s := range p.Steps {
		if s.Kind == StepEach {
			n++
		}
	}
	return n
}

// Leaf returns the descriptor of the last field accessed by a resolved path.
func (p FieldPath) Leaf() FieldDescriptor {
	for i := len(p.Steps) - 1; i >= 0; i-- {
		if p.Steps[i].Kind == StepField {
			return p.Steps[i].Field
		}
	}
	return FieldDescriptor{}
}

func (p FieldPath) String() string {
	return p.Expr
}

// ParsePath parses a path expression without resolving it against a type.
func ParsePath(expr string) (FieldPath, error) {
	if expr == "" {
		return FieldPath{}, newPathError(expr, nil, "empty path")
	}

	p := &pathParser{expr: expr}
	steps, err := p.parse()
	if err != nil {
		return FieldPath{}, err
	}
	if p.pos != len(expr) {
		return FieldPath{}, newPathError(expr, nil, "unexpected %q at offset %d", expr[p.pos], p.pos)
	}

	return FieldPath{Expr: expr, Steps: steps}, nil
}

// ResolvePath parses expr and resolves every step against root.
func ResolvePath(expr string, root *TypeDescriptor) (FieldPath, error) {
	path, err := ParsePath(expr)
	if err != nil {
		return FieldPath{}, err
	}
	if err := path.resolve(root); err != nil {
		return FieldPath{}, err
	}
	return path, nil
}

// resolve binds each field step to its descriptor, walking nested shapes.
func (p *FieldPath) resolve(root *TypeDescriptor) error {
	cur := root
	for i := range p.Steps {
		step := &p.Steps[i]
		if step.Kind != StepField {
			continue
		}
		if cur == nil {
			return newPathError(p.Expr, root.Type, "cannot access %q on a non-struct value", step.Name)
		}

		field, ok := cur.Field(step.Name)
		if !ok {
			return newPathError(p.Expr, root.Type, "no field %q on %s", step.Name, cur.Name)
		}
		step.Field = field
		cur = nil

		if i+1 == len(p.Steps) {
			break
		}

		if field.Kind == KindMap && p.Steps[i+1].Kind == StepEach {
			if err := p.resolveMapEntry(root, i+2); err != nil {
				return err
			}
			break
		}

		var next reflect.Type
		switch p.Steps[i+1].Kind {
		case StepEach:
			if field.Kind != KindSlice {
				return newPathError(p.Expr, root.Type, "cannot iterate %q: %s is not a slice", step.Name, field.Type)
			}
			next = field.Elem
		case StepField:
			if field.Kind != KindStruct {
				return newPathError(p.Expr, root.Type, "cannot descend into %q: %s is not a struct", step.Name, field.Type)
			}
			next = field.Elem
		}

		if next.Kind() == reflect.Struct && !isOpaque(next) {
			d, err := describe(next)
			if err != nil {
				return err
			}
			cur = d
		}
	}

	p.Root = root.Type
	return nil
}

// resolveMapEntry turns the step at i, which must be the last one, into a
// map key or value step.
func (p *FieldPath) resolveMapEntry(root *TypeDescriptor, i int) error {
	if i != len(p.Steps)-1 || p.Steps[i].Kind != StepField {
		return newPathError(p.Expr, root.Type, "map field %q takes {%s} or {%s}", p.Steps[i-2].Name, mapKeyName, mapValueName)
	}
	switch p.Steps[i].Name {
	case mapKeyName:
		p.Steps[i] = Step{Kind: StepMapKey, Name: mapKeyName}
	case mapValueName:
		p.Steps[i] = Step{Kind: StepMapValue, Name: mapValueName}
	default:
		return newPathError(p.Expr, root.Type, "map field %q takes {%s} or {%s}, got {%s}",
			p.Steps[i-2].Name, mapKeyName, mapValueName, p.Steps[i].Name)
	}
	return nil
}

// pathParser is a recursive descent parser over a path expression.
type pathParser struct {
	expr string
	pos  int
}

func (p *pathParser) parse() ([]Step, error) {
	var steps []Step
	for {
		name := p.ident()
		if name == "" {
			return nil, newPathError(p.expr, nil, "expected field name at offset %d", p.pos)
		}
		steps = append(steps, Step{Kind: StepField, Name: name})

		if p.pos == len(p.expr) {
			return steps, nil
		}

		switch p.expr[p.pos] {
		case '.':
			p.pos++
		case '{':
			p.pos++
			var inner []Step
			if p.pos >= len(p.expr) || p.expr[p.pos] != '}' {
				var err error
				if inner, err = p.parse(); err != nil {
					return nil, err
				}
			}
			if p.pos >= len(p.expr) || p.expr[p.pos] != '}' {
				return nil, newPathError(p.expr, nil, "unclosed '{'")
			}
			p.pos++
			steps = append(steps, Step{Kind: StepEach})
			return append(steps, inner...), nil
		case '}':
			return steps, nil
		default:
			return nil, newPathError(p.expr, nil, "unexpected %q at offset %d", p.expr[p.pos], p.pos)
		}
	}
}

// ident consumes an identifier: a letter or underscore followed by letters,
// digits or underscores.
func (p *pathParser) ident() string {
	start := p.pos
	for p.pos < len(p.expr) {
		c := p.expr[p.pos]
		isAlpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isAlpha && !(isDigit && p.pos > start) {
			break
		}
		p.pos++
	}
	return p.expr[start:p.pos]
}

// splitRoot returns the first segment of a path expression without parsing
// the rest. Used to find which top-level field a rule covers.
func splitRoot(expr string) string {
	if i := strings.IndexAny(expr, ".{"); i >= 0 {
		return expr[:i]
	}
	return expr
}
