package document

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_UnwrapsEnvelope(t *testing.T) {
	body := `{"winstrom":{"@version":"1.0","@rowCount":"12","adresar":[{"id":"1","kod":"ACME"}]}}`

	doc, err := Decode(strings.NewReader(body))
	require.NoError(t, err)

	version, ok := doc.Lookup("@version")
	require.True(t, ok)
	assert.Equal(t, "1.0", version)

	count, ok := doc.Int("@rowCount")
	require.True(t, ok)
	assert.Equal(t, 12, count)

	rows, ok := doc.Collection("adresar")
	require.True(t, ok)
	require.Len(t, rows, 1)
	kod, ok := rows[0].String("kod")
	require.True(t, ok)
	assert.Equal(t, "ACME", kod)
}

func TestDecode_WithoutEnvelope(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"adresar":[],"extra":1}`))
	require.NoError(t, err)

	rows, ok := doc.Collection("adresar")
	assert.True(t, ok)
	assert.Empty(t, rows)

	n, ok := doc.Int("extra")
	assert.True(t, ok)
	assert.Equal(t, 1, n)
}

func TestDecode_EmptyBody(t *testing.T) {
	doc, err := Decode(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestDecode_KeepsNumbers(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"rows":[{"id":12345678901234}]}`))
	require.NoError(t, err)

	rows, _ := doc.Collection("rows")
	id, ok := rows[0].String("id")
	require.True(t, ok)
	assert.Equal(t, "12345678901234", id)
}

func TestDocument_Absence(t *testing.T) {
	doc := Document{"scalar": "x"}

	_, ok := doc.Lookup("missing")
	assert.False(t, ok)

	_, ok = doc.Collection("missing")
	assert.False(t, ok)

	_, ok = doc.Collection("scalar")
	assert.False(t, ok, "non-list value is not a collection")

	_, ok = doc.Int("scalar")
	assert.False(t, ok)

	_, ok = doc.Int("missing")
	assert.False(t, ok)
}

func TestRecord_String(t *testing.T) {
	r := Record{
		"s":   "text",
		"n":   json.Number("42"),
		"i":   7,
		"i64": int64(8),
		"f":   1.5,
		"b":   true,
	}

	testCases := []struct {
		field string
		want  string
		ok    bool
	}{
		{"s", "text", true},
		{"n", "42", true},
		{"i", "7", true},
		{"i64", "8", true},
		{"f", "1.5", true},
		{"b", "", false},
		{"missing", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.field, func(t *testing.T) {
			got, ok := r.String(tc.field)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMarshalCanonical_InsertBody(t *testing.T) {
	body := map[string]any{
		"adresar": map[string]any{
			"nazev": "ACME <s.r.o.> & co",
			"kod":   "ACME",
			"ic":    12345678,
		},
		"@update": "fail",
	}

	data, err := MarshalCanonical(body)
	require.NoError(t, err)
	assert.Equal(t,
		`{"@update":"fail","adresar":{"ic":12345678,"kod":"ACME","nazev":"ACME <s.r.o.> & co"}}`,
		string(data))
}

func TestMarshalCanonical_Types(t *testing.T) {
	ts := time.Date(2024, time.February, 29, 8, 30, 0, 0, time.FixedZone("CET", 3600))

	testCases := []struct {
		name  string
		value any
		want  string
	}{
		{"null", nil, `null`},
		{"bool", false, `false`},
		{"int64", int64(-3), `-3`},
		{"uint", uint(3), `3`},
		{"float", 12.50, `12.5`},
		{"number", json.Number("3.14"), `3.14`},
		{"time", ts, `"2024-02-29T08:30:00+01:00"`},
		{"strings", []string{"a", "b"}, `["a","b"]`},
		{"mixed", []any{"a", 1, nil}, `["a",1,null]`},
		{"record", Record{"b": 1, "a": 2}, `{"a":2,"b":1}`},
		{"struct", struct {
			Name string `json:"name"`
			Qty  int    `json:"qty"`
		}{"x", 2}, `{"name":"x","qty":2}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := MarshalCanonical(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))
		})
	}
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// e + combining acute accent composes to U+00E9
	data, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(data))
}

func TestMarshalCanonical_Unsupported(t *testing.T) {
	_, err := MarshalCanonical(make(chan int))
	assert.Error(t, err)
}

func TestMarshalCanonical_NonFiniteFloat(t *testing.T) {
	for _, v := range []any{math.NaN(), math.Inf(1), math.Inf(-1), float32(math.Inf(1))} {
		_, err := MarshalCanonical(map[string]any{"cena": v})
		require.Error(t, err)
		assert.ErrorContains(t, err, `value for key "cena"`)
	}
}

func TestCompareUTF16(t *testing.T) {
	// U+1F600 sorts after U+FF61 in UTF-8 but before it in UTF-16
	assert.Negative(t, compareUTF16("\U0001F600", "｡"))
	assert.Negative(t, compareUTF16("a", "ab"))
	assert.Zero(t, compareUTF16("kod", "kod"))
}
