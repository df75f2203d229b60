package query

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationResult contains the findings of Validate.
//
// The filter grammar has no escaping, so a query that produces warnings
// still compiles. Warnings flag input a caller should not pass through
// unchecked.
type ValidationResult struct {
	// Clean is true when no warnings were produced.
	Clean bool

	// Warnings lists every problem found, in traversal order.
	Warnings []string
}

// Validate walks a query and reports input the filter grammar cannot carry
// safely:
//  1. Leaves with an empty property name
//  2. Groups with no children (they compile to "()")
//  3. Values containing a single quote (they would end the quoted literal)
//  4. Negative limit or offset
//
// Validate is a pure function with no side effects.
func Validate(q Query) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validateConditions(q.Conditions)

	if q.Limit < 0 {
		v.addWarning("negative limit %d", q.Limit)
	}
	if q.Offset < 0 {
		v.addWarning("negative offset %d", q.Offset)
	}
	for i, o := range q.Order {
		if o.Field == "" {
			v.addWarning("order[%d] has an empty field name", i)
		}
	}

	return ValidationResult{
		Clean:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateConditions(conds []Condition) {
	for _, c := range conds {
		v.validateCondition(c)
	}
}

func (v *validator) validateCondition(c Condition) {
	switch cond := c.(type) {
	case nil:
		v.addWarning("nil condition")
	case Leaf:
		v.validateLeaf(cond)
	case *Leaf:
		v.validateLeaf(*cond)
	case Group:
		v.validateGroup(cond)
	case *Group:
		v.validateGroup(*cond)
	default:
		v.addWarning("unknown condition type: %T", c)
	}
}

func (v *validator) validateLeaf(l Leaf) {
	if strings.TrimSpace(l.Property) == "" {
		v.addWarning("condition with empty property name")
	}
	if l.Operator.Unary() {
		return
	}
	for _, s := range valueStrings(l.Value) {
		if strings.Contains(s, "'") {
			v.addWarning("value for '%s' contains a single quote", l.Property)
			return
		}
	}
}

func (v *validator) validateGroup(g Group) {
	if len(g.Children) == 0 {
		v.addWarning("empty condition group")
		return
	}
	v.validateConditions(g.Children)
}

// valueStrings flattens a leaf value into the strings that will be quoted.
func valueStrings(value any) []string {
	switch val := value.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []string:
		return val
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, fmt.Sprint(rv.Index(i).Interface()))
		}
		return out
	}
	return []string{fmt.Sprint(value)}
}
