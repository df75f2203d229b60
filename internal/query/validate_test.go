package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Clean(t *testing.T) {
	q := Query{
		Conditions: Conditions{
			Where("kod", OpEq, "A1"),
			Grouped(JoinOr,
				Where("stav", OpIn, []string{"new", "open"}),
				OrWhere("poznam", OpIsNull, nil),
			),
		},
		Order: OrderSpec{Asc("kod")},
		Limit: 10,
	}

	result := Validate(q)
	assert.True(t, result.Clean)
	assert.Empty(t, result.Warnings)
}

func TestValidate_Warnings(t *testing.T) {
	testCases := []struct {
		name    string
		query   Query
		warning string
	}{
		{
			name:    "empty property",
			query:   Query{Conditions: Conditions{Where(" ", OpEq, "x")}},
			warning: "condition with empty property name",
		},
		{
			name:    "empty group",
			query:   Query{Conditions: Conditions{Grouped(JoinAnd)}},
			warning: "empty condition group",
		},
		{
			name:    "quote in scalar",
			query:   Query{Conditions: Conditions{Where("nazev", OpEq, "O'Brien")}},
			warning: "value for 'nazev' contains a single quote",
		},
		{
			name:    "quote in list",
			query:   Query{Conditions: Conditions{Where("kod", OpIn, []any{"a", "b'c"})}},
			warning: "value for 'kod' contains a single quote",
		},
		{
			name:    "quote in nested group",
			query:   Query{Conditions: Conditions{&Group{Children: []Condition{&Leaf{Property: "x", Value: "'"}}}}},
			warning: "value for 'x' contains a single quote",
		},
		{
			name:    "nil condition",
			query:   Query{Conditions: Conditions{nil}},
			warning: "nil condition",
		},
		{
			name:    "negative limit",
			query:   Query{Limit: -1},
			warning: "negative limit -1",
		},
		{
			name:    "negative offset",
			query:   Query{Offset: -5},
			warning: "negative offset -5",
		},
		{
			name:    "empty order field",
			query:   Query{Order: OrderSpec{{Direction: "asc"}}},
			warning: "order[0] has an empty field name",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Validate(tc.query)
			assert.False(t, result.Clean)
			assert.Contains(t, result.Warnings, tc.warning)
		})
	}
}

func TestValidate_UnaryOperatorIgnoresValue(t *testing.T) {
	result := Validate(Query{Conditions: Conditions{Where("poznam", OpIsNull, "it's ignored")}})
	assert.True(t, result.Clean)
}

func TestJoiner_String(t *testing.T) {
	assert.Equal(t, "AND", Joiner("").String())
	assert.Equal(t, "AND", JoinAnd.String())
	assert.Equal(t, "OR", JoinOr.String())
	assert.Equal(t, "OR", Joiner("or").String())
}

func TestOrder_Ascending(t *testing.T) {
	assert.True(t, Asc("kod").Ascending())
	assert.True(t, Order{Field: "kod", Direction: "ASC"}.Ascending())
	assert.False(t, Desc("kod").Ascending())
	assert.False(t, Order{Field: "kod", Direction: "up"}.Ascending())
}

func TestCondition_Sealed(t *testing.T) {
	var c Condition = Leaf{Property: "kod"}

	switch c.(type) {
	case Leaf:
		// Expected
	case Group:
		t.Fatal("unexpected type")
	}
}
