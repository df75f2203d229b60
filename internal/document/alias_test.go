package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasIdentity(t *testing.T) {
	doc := Document{
		"adresar": []any{
			map[string]any{"id": "1", "external-ids": []any{"code:ABC"}},
			map[string]any{"id": "2"},
			map[string]any{"id": "3", "external-ids": []any{"ext:shop:77", "code:LATER"}},
			map[string]any{"id": "4", "external-ids": []any{}},
			map[string]any{"id": "5", "external-ids": []any{42}},
			map[string]any{"id": "6", "external-ids": []string{"code:STR"}},
		},
	}

	out, err := AliasIdentity(doc, "adresar")
	require.NoError(t, err)

	rows, ok := out.Collection("adresar")
	require.True(t, ok)

	want := []string{"code:ABC", "2", "3", "4", "5", "code:STR"}
	for i, row := range rows {
		id, _ := row.String("id")
		assert.Equal(t, want[i], id, "row %d", i)
	}
}

func TestAliasIdentity_RowWithoutExternalIDsUntouched(t *testing.T) {
	row := map[string]any{"id": "9", "kod": "X"}
	doc := Document{"cenik": []any{row}}

	_, err := AliasIdentity(doc, "cenik")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "9", "kod": "X"}, row)
}

func TestAliasIdentity_SetsIDWhenMissing(t *testing.T) {
	row := map[string]any{"external-ids": []any{"code:NEW"}}
	doc := Document{"cenik": []any{row}}

	_, err := AliasIdentity(doc, "cenik")
	require.NoError(t, err)
	assert.Equal(t, "code:NEW", row["id"])
}

func TestAliasIdentity_MissingCollection(t *testing.T) {
	_, err := AliasIdentity(Document{"faktura-vydana": []any{}}, "adresar")
	require.Error(t, err)

	var me *MalformedResponseError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "adresar", me.Resource)
	assert.True(t, IsMalformedResponse(fmt.Errorf("find: %w", err)))
	assert.False(t, IsMalformedResponse(fmt.Errorf("other")))
}

func TestAliasIdentity_EmptyCollection(t *testing.T) {
	doc, err := AliasIdentity(Document{"adresar": []any{}}, "adresar")
	require.NoError(t, err)

	rows, ok := doc.Collection("adresar")
	assert.True(t, ok)
	assert.Empty(t, rows)
}
