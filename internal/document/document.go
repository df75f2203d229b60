// Package document provides the decoded response shapes the resource mapper
// reads from the Flexi API, plus the canonical JSON encoder used for request
// bodies.
//
// Responses are decoded into Document and Record values: plain maps with
// lookup-by-name helpers that report absence explicitly instead of relying on
// zero values.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Envelope is the top-level key the provider wraps every JSON response in.
const Envelope = "winstrom"

// Document is a decoded response envelope.
type Document map[string]any

// Record is one row of a resource collection.
type Record map[string]any

// Decode reads a JSON response. Numbers are kept as json.Number and the
// provider's outer envelope is unwrapped when present. An empty body decodes
// to an empty Document.
func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if inner, ok := doc[Envelope].(map[string]any); ok && len(doc) == 1 {
		return Document(inner), nil
	}
	return doc, nil
}

// Lookup returns the value stored under name.
func (d Document) Lookup(name string) (any, bool) {
	v, ok := d[name]
	return v, ok
}

// Collection returns the rows stored under name. It reports false when the
// key is missing or does not hold a list; non-object entries are skipped.
// The returned records share storage with the document.
func (d Document) Collection(name string) ([]Record, bool) {
	raw, ok := d[name]
	if !ok {
		return nil, false
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, false
	}

	rows := make([]Record, 0, len(list))
	for _, item := range list {
		switch row := item.(type) {
		case map[string]any:
			rows = append(rows, Record(row))
		case Record:
			rows = append(rows, row)
		}
	}
	return rows, true
}

// Int returns the value under name as an integer. The provider encodes
// counters such as @rowCount as strings, so numeric strings are accepted.
func (d Document) Int(name string) (int, bool) {
	v, ok := d[name]
	if !ok {
		return 0, false
	}
	return toInt(v)
}

// Lookup returns the value stored under name.
func (r Record) Lookup(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// String returns the value under name as text. Numbers are formatted; other
// types report false.
func (r Record) String(name string) (string, bool) {
	v, ok := r[name]
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return "", false
	}
}

func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case json.Number:
		n, err := strconv.Atoi(val.String())
		return n, err == nil
	case string:
		n, err := strconv.Atoi(val)
		return n, err == nil
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}
