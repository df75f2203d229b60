package query

import "strings"

// Condition is a node in a filter tree.
//
// This is a sealed interface - only Leaf and Group implement it.
type Condition interface {
	conditionNode() // Marker method - seals interface to this package
}

// Joiner is the boolean connective placed before a clause.
type Joiner string

const (
	// JoinAnd requires both the previous clause and this one.
	JoinAnd Joiner = "AND"

	// JoinOr requires either the previous clause or this one.
	JoinOr Joiner = "OR"
)

// String returns the rendered connective. The zero value renders as AND.
func (j Joiner) String() string {
	if j == "" {
		return string(JoinAnd)
	}
	return strings.ToUpper(string(j))
}

// Operator is a comparison operator understood by the provider's filter
// grammar. Operators outside the named set pass through to the wire as-is.
type Operator string

const (
	OpEq          Operator = "="
	OpNeq         Operator = "<>"
	OpGt          Operator = ">"
	OpGte         Operator = ">="
	OpLt          Operator = "<"
	OpLte         Operator = "<="
	OpIn          Operator = "IN"
	OpBegins      Operator = "BEGINS"
	OpEnds        Operator = "ENDS"
	OpLike        Operator = "LIKE"
	OpLikeSimilar Operator = "LIKE SIMILAR"
	OpIsNull      Operator = "IS NULL"
	OpIsNotNull   Operator = "IS NOT NULL"

	// OpCompare is a generic text-match marker. The compiler resolves it to
	// BEGINS, ENDS or LIKE SIMILAR from the wildcards on the value.
	OpCompare Operator = "COMPARE"
)

// Unary reports whether the operator takes no value.
func (o Operator) Unary() bool {
	return o == OpIsNull || o == OpIsNotNull
}

// Leaf compares a single property against a value.
//
// Semantics:
//
//	<property> <operator> <value>
//
// Example:
//
//	Leaf{Property: "nazev", Operator: OpCompare, Value: "abc%"}
//
// compiles to:
//
//	nazev BEGINS 'abc'
type Leaf struct {
	Property string
	Operator Operator
	Value    any
	Joiner   Joiner // Connective to the previous clause (ignored when first)
}

func (Leaf) conditionNode() {}

// Group is a parenthesized sequence of conditions.
//
// Example:
//
//	Group{Joiner: JoinOr, Children: []Condition{
//	  Leaf{Property: "kod", Operator: OpEq, Value: "A"},
//	  Leaf{Property: "kod", Operator: OpEq, Value: "B", Joiner: JoinOr},
//	}}
//
// compiles to:
//
//	(kod = 'A' OR kod = 'B')
type Group struct {
	Children []Condition
	Joiner   Joiner // Connective to the previous clause (ignored when first)
}

func (Group) conditionNode() {}

// Conditions is an ordered sibling sequence of conditions.
type Conditions []Condition

// Order is one sort key.
type Order struct {
	Field     string
	Direction string // "asc" ascends; any other value descends
}

// Ascending reports whether the key sorts ascending.
func (o Order) Ascending() bool {
	return strings.EqualFold(o.Direction, "asc")
}

// OrderSpec lists sort keys in precedence order.
type OrderSpec []Order

// Query is a complete read request against one resource.
type Query struct {
	Conditions Conditions `yaml:"conditions"`
	Order      OrderSpec  `yaml:"order"`
	Selection  []string   `yaml:"select"`
	Limit      int        `yaml:"limit"`
	Offset     int        `yaml:"offset"`
}
