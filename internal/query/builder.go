package query

// Where returns a leaf joined to its predecessor with AND.
func Where(property string, op Operator, value any) Leaf {
	return Leaf{Property: property, Operator: op, Value: value, Joiner: JoinAnd}
}

// OrWhere returns a leaf joined to its predecessor with OR.
func OrWhere(property string, op Operator, value any) Leaf {
	return Leaf{Property: property, Operator: op, Value: value, Joiner: JoinOr}
}

// Grouped returns a group joined to its predecessor with joiner.
func Grouped(joiner Joiner, children ...Condition) Group {
	return Group{Joiner: joiner, Children: children}
}

// Asc returns an ascending sort key.
func Asc(field string) Order {
	return Order{Field: field, Direction: "asc"}
}

// Desc returns a descending sort key.
func Desc(field string) Order {
	return Order{Field: field, Direction: "desc"}
}
