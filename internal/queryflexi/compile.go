// Package queryflexi compiles query.Query values into the Flexi REST API's
// textual filter grammar and query-string parameters.
//
// Filter values are interpolated as single-quoted literals. The provider's
// grammar has no escape sequence, so embedded quotes are passed through
// untouched; run query.Validate on untrusted input first.
package queryflexi

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/roach88/flexi/internal/query"
)

// TimeLayout is the filter literal layout for date/time values: ISO 8601
// with seconds precision and an explicit numeric offset.
const TimeLayout = "2006-01-02T15:04:05-07:00"

// Compile converts a condition sequence to a filter expression.
// Returns ("", false) for an empty sequence; callers must then omit the
// filter entirely rather than send an empty one.
//
// Compile is deterministic: the same tree always yields the same bytes.
func Compile(conds []query.Condition) (string, bool) {
	if len(conds) == 0 {
		return "", false
	}

	var b strings.Builder
	writeConditions(&b, conds)
	return b.String(), true
}

// writeConditions renders one sibling sequence. first tracks whether a
// clause has been emitted yet in this frame; only later clauses get a joiner.
func writeConditions(b *strings.Builder, conds []query.Condition) {
	first := true
	for _, c := range conds {
		first = writeCondition(b, c, first)
	}
}

// writeCondition renders a single node and returns the updated first flag.
func writeCondition(b *strings.Builder, c query.Condition, first bool) bool {
	switch cond := c.(type) {
	case query.Leaf:
		writeLeaf(b, cond, first)
	case *query.Leaf:
		writeLeaf(b, *cond, first)
	case query.Group:
		writeGroup(b, cond, first)
	case *query.Group:
		writeGroup(b, *cond, first)
	default:
		// nil and foreign nodes emit nothing
		return first
	}
	return false
}

func writeJoiner(b *strings.Builder, j query.Joiner, first bool) {
	if first {
		return
	}
	b.WriteString(" ")
	b.WriteString(j.String())
	b.WriteString(" ")
}

func writeGroup(b *strings.Builder, g query.Group, first bool) {
	writeJoiner(b, g.Joiner, first)
	b.WriteString("(")
	writeConditions(b, g.Children)
	b.WriteString(")")
}

func writeLeaf(b *strings.Builder, l query.Leaf, first bool) {
	writeJoiner(b, l.Joiner, first)

	if l.Operator.Unary() {
		b.WriteString(l.Property)
		b.WriteString(" ")
		b.WriteString(string(l.Operator))
		return
	}

	value, left, right := formatValue(l.Value)
	b.WriteString(l.Property)
	b.WriteString(" ")
	b.WriteString(string(resolveOperator(l.Operator, left, right)))
	b.WriteString(" ")
	b.WriteString(value)
}

// resolveOperator replaces the Compare marker with the operator implied by
// the value's wildcards. Other operators pass through unchanged.
func resolveOperator(op query.Operator, left, right bool) query.Operator {
	if op != query.OpCompare {
		return op
	}
	switch {
	case right && !left:
		return query.OpBegins
	case left && !right:
		return query.OpEnds
	default:
		return query.OpLikeSimilar
	}
}

// formatValue renders a leaf value as a filter literal and reports whether a
// leading or trailing % wildcard was stripped from a string value.
func formatValue(value any) (string, bool, bool) {
	switch val := value.(type) {
	case time.Time:
		return quote(val.Format(TimeLayout)), false, false
	case *time.Time:
		if val == nil {
			return quote(""), false, false
		}
		return quote(val.Format(TimeLayout)), false, false
	case string:
		s, left, right := stripWildcards(val)
		return quote(s), left, right
	case []string:
		return formatList(len(val), func(i int) any { return val[i] }), false, false
	case []byte:
		s, left, right := stripWildcards(string(val))
		return quote(s), left, right
	case nil:
		return quote(""), false, false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return formatList(rv.Len(), func(i int) any { return rv.Index(i).Interface() }), false, false
	}
	return quote(fmt.Sprint(value)), false, false
}

func formatList(n int, at func(int) any) string {
	items := make([]string, n)
	for i := range items {
		items[i] = quote(scalarText(at(i)))
	}
	return "(" + strings.Join(items, ",") + ")"
}

func scalarText(v any) string {
	switch val := v.(type) {
	case time.Time:
		return val.Format(TimeLayout)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

func stripWildcards(s string) (string, bool, bool) {
	left := strings.HasPrefix(s, "%")
	if left {
		s = s[1:]
	}
	right := strings.HasSuffix(s, "%")
	if right {
		s = s[:len(s)-1]
	}
	return s, left, right
}

// quote wraps s in single quotes. Embedded quotes are not escaped.
func quote(s string) string {
	return "'" + s + "'"
}
