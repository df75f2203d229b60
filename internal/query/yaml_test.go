package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FullQuery(t *testing.T) {
	doc := `
conditions:
  - property: nazev
    op: compare
    value: "abc%"
  - join: or
    group:
      - property: kod
        op: IN
        value: [A, B]
      - property: poznam
        op: is null
select: [kod, nazev, polozky@removeAll]
order:
  - kod
  - -datVyst
  - field: nazev
    direction: desc
limit: 20
offset: 40
`
	q, err := Parse([]byte(doc))
	require.NoError(t, err)

	require.Len(t, q.Conditions, 2)
	assert.Equal(t, Leaf{Property: "nazev", Operator: OpCompare, Value: "abc%"}, q.Conditions[0])

	group, ok := q.Conditions[1].(Group)
	require.True(t, ok)
	assert.Equal(t, JoinOr, group.Joiner)
	require.Len(t, group.Children, 2)
	assert.Equal(t, Leaf{Property: "kod", Operator: OpIn, Value: []any{"A", "B"}}, group.Children[0])
	assert.Equal(t, Leaf{Property: "poznam", Operator: OpIsNull}, group.Children[1])

	assert.Equal(t, []string{"kod", "nazev", "polozky@removeAll"}, q.Selection)
	assert.Equal(t, OrderSpec{Asc("kod"), Desc("datVyst"), Desc("nazev")}, q.Order)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 40, q.Offset)
}

func TestParse_DefaultOperatorIsEquals(t *testing.T) {
	q, err := Parse([]byte("conditions:\n  - property: kod\n    value: 7\n"))
	require.NoError(t, err)
	assert.Equal(t, Conditions{Leaf{Property: "kod", Operator: OpEq, Value: 7}}, q.Conditions)
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{name: "not a sequence", doc: "conditions: {property: kod}"},
		{name: "no property or group", doc: "conditions:\n  - op: =\n"},
		{name: "property and group", doc: "conditions:\n  - property: a\n    group: []\n"},
		{name: "unknown join", doc: "conditions:\n  - property: a\n    join: XOR\n"},
		{name: "bad yaml", doc: "conditions: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.Error(t, err)
		})
	}
}
