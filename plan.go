package transit

import (
	"fmt"
	"reflect"
	"strings"
)

// plan is the compiled, immutable form of a class map in one orientation.
type plan struct {
	src     reflect.Type
	dst     reflect.Type
	rules   []planRule
	custom  CustomMapper
	reverse bool
}

// planRule is one resolved rule.
type planRule struct {
	source    FieldPath
	dest      FieldPath
	converter Converter
}

// compilePlan resolves the effective rule set of cm: explicit rules that
// apply in the requested orientation followed by defaults when enabled.
func compilePlan(cm *ClassMap, reverse bool, converters map[string]Converter, strict bool) (*plan, error) {
	src, dst := cm.Source, cm.Dest
	if reverse {
		src, dst = dst, src
	}

	srcDesc, err := describe(src)
	if err != nil {
		return nil, err
	}
	dstDesc, err := describe(dst)
	if err != nil {
		return nil, err
	}

	explicit := make([]Rule, 0, len(cm.Rules))
	for _, r := range cm.Rules {
		if r.applies(reverse) {
			explicit = append(explicit, r.oriented(reverse))
		}
	}

	rules := explicit
	if cm.ByDefault {
		if strict {
			if r, ok := shadowedDefault(explicit, srcDesc); ok {
				return nil, newMappingError(ErrDuplicateFieldRule, src, dst, r.Dest, nil)
			}
		}
		rules = append(rules, computeDefaults(cm, explicit, srcDesc, dstDesc)...)
	}

	p := &plan{
		src:     src,
		dst:     dst,
		rules:   make([]planRule, 0, len(rules)),
		custom:  cm.Custom,
		reverse: reverse,
	}

	for _, r := range rules {
		pr, err := compileRule(r, srcDesc, dstDesc, converters)
		if err != nil {
			return nil, err
		}
		p.rules = append(p.rules, pr)
	}
	if err := checkMapEntries(p.rules, dstDesc); err != nil {
		return nil, err
	}

	return p, nil
}

// checkMapEntries requires every map written through {value} to also get
// its keys from a {key} rule.
func checkMapEntries(rules []planRule, dst *TypeDescriptor) error {
	keyed := make(map[string]bool)
	for _, r := range rules {
		if r.dest.writesMapEntry() {
			prefix := mapPrefix(r.dest.Expr)
			keyed[prefix] = keyed[prefix] || r.dest.Steps[len(r.dest.Steps)-1].Kind == StepMapKey
		}
	}
	for prefix, ok := range keyed {
		if !ok {
			return newPathError(prefix+"{"+mapValueName+"}", dst.Type, "no rule writes {%s} of the same map", mapKeyName)
		}
	}
	return nil
}

// mapPrefix strips the trailing "{key}" or "{value}" from a path.
func mapPrefix(expr string) string {
	return expr[:strings.LastIndex(expr, "{")]
}

func compileRule(r Rule, src, dst *TypeDescriptor, converters map[string]Converter) (planRule, error) {
	sp, err := ResolvePath(r.Source, src)
	if err != nil {
		return planRule{}, err
	}
	dp, err := ResolvePath(r.Dest, dst)
	if err != nil {
		return planRule{}, err
	}
	if dp.Depth() > sp.Depth() {
		return planRule{}, newPathError(r.Dest, dst.Type,
			"iterates %d levels but source %q only provides %d", dp.Depth(), r.Source, sp.Depth())
	}

	if sp.writesMapEntry() {
		return planRule{}, newPathError(r.Source, src.Type, "map {%s} and {%s} can only be written", mapKeyName, mapValueName)
	}

	pr := planRule{source: sp, dest: dp}
	if r.Converter != "" {
		c, ok := converters[r.Converter]
		if !ok {
			return planRule{}, newMappingError(ErrUnknownConverter, src.Type, dst.Type, r.Dest,
				fmt.Errorf("converter %q is not registered", r.Converter))
		}
		pr.converter = c
	}
	return pr, nil
}

// fieldCount returns the number of rules in the plan.
func (p *plan) fieldCount() int {
	return len(p.rules)
}
