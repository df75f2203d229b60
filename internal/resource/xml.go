package resource

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/roach88/flexi/internal/document"
	"github.com/roach88/flexi/internal/query"
	"github.com/roach88/flexi/internal/queryflexi"
)

// XMLVersion is the version attribute of the <winstrom> root element.
const XMLVersion = "1.0"

// updateXML renders
//
//	<winstrom version="1.0"><res filter="..." create="fail">...</res></winstrom>
//
// Scalar values become child elements in key order. A "field@attr" key sets
// attribute attr on the <field> element, which also carries the text of a
// plain "field" key when both are given. Nested maps and slices are skipped.
func updateXML(resource string, values map[string]any, conds []query.Condition) ([]byte, error) {
	fields, err := collectFields(values)
	if err != nil {
		return nil, err
	}

	attrs := filterAttr(conds)
	attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "create"}, Value: "fail"})

	return writeXML(resource, attrs, func(enc *xml.Encoder) error {
		for _, f := range fields {
			if err := f.write(enc); err != nil {
				return err
			}
		}
		return nil
	})
}

// field is one child element of the record being updated.
type field struct {
	name  string
	text  string
	attrs []xml.Attr
}

// collectFields groups values by element name in sorted key order.
func collectFields(values map[string]any) ([]*field, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var fields []*field
	byName := make(map[string]*field, len(keys))
	for _, key := range keys {
		text, ok := xmlText(values[key])
		if !ok {
			continue
		}

		name, attr, hasAttr := strings.Cut(key, "@")
		if name == "" || (hasAttr && (attr == "" || strings.Contains(attr, "@"))) {
			return nil, &InvalidFieldError{Key: key}
		}

		f, seen := byName[name]
		if !seen {
			f = &field{name: name}
			byName[name] = f
			fields = append(fields, f)
		}
		if hasAttr {
			f.attrs = append(f.attrs, xml.Attr{Name: xml.Name{Local: attr}, Value: text})
		} else {
			f.text = text
		}
	}
	return fields, nil
}

func (f *field) write(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: f.name}, Attr: f.attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if f.text != "" {
		if err := enc.EncodeToken(xml.CharData(f.text)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// deleteXML renders <winstrom version="1.0"><res filter="..." action="delete"></res></winstrom>.
func deleteXML(resource string, conds []query.Condition) ([]byte, error) {
	attrs := filterAttr(conds)
	attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "action"}, Value: "delete"})
	return writeXML(resource, attrs, nil)
}

func filterAttr(conds []query.Condition) []xml.Attr {
	filter, ok := queryflexi.Compile(conds)
	if !ok {
		return nil
	}
	return []xml.Attr{{Name: xml.Name{Local: "filter"}, Value: filter}}
}

func writeXML(resource string, attrs []xml.Attr, body func(*xml.Encoder) error) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	root := xml.StartElement{
		Name: xml.Name{Local: document.Envelope},
		Attr: []xml.Attr{{Name: xml.Name{Local: "version"}, Value: XMLVersion}},
	}
	record := xml.StartElement{Name: xml.Name{Local: resource}, Attr: attrs}

	if err := enc.EncodeToken(root); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.EncodeToken(record); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	if body != nil {
		if err := body(enc); err != nil {
			return nil, fmt.Errorf("encode xml: %w", err)
		}
	}
	if err := enc.EncodeToken(record.End()); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	return buf.Bytes(), nil
}

// xmlText renders a scalar. It reports false for nested structures.
// TODO: nested values (e.g. invoice line items) are dropped until the update
// body grows a recursive element writer.
func xmlText(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	case bool:
		if val {
			return "true", true
		}
		return "false", true
	case json.Number:
		return val.String(), true
	case time.Time:
		return val.Format(document.DateTimeLayout), true
	case []byte:
		return string(val), true
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return "", false
	}
	return fmt.Sprint(v), true
}
