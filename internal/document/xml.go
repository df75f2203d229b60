package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// envelopeObjects are <winstrom> children that hold a single object rather
// than a list of records.
var envelopeObjects = map[string]bool{
	"stats": true,
}

// xmlNode is one parsed element.
type xmlNode struct {
	name     string
	attrs    []xml.Attr
	children []*xmlNode
	text     strings.Builder
}

// DecodeXML reads an XML response into the same shape Decode produces for
// JSON:
//
//   - the <winstrom> root is unwrapped and its attributes become "@name" keys
//   - an element with only text becomes a string
//   - an element whose children all share one name becomes a list when the
//     parent is the plural of the child (<results><result>) or the child repeats
//   - record elements directly under the root are collected into lists keyed by
//     resource name, except envelope objects such as <stats>
//
// An empty body decodes to an empty Document.
func DecodeXML(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, nil
	}

	root, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if root.name != Envelope {
		return Document{root.name: nodeValue(root)}, nil
	}

	doc := Document{}
	for _, a := range root.attrs {
		doc["@"+a.Name.Local] = a.Value
	}
	for _, child := range root.children {
		v := nodeValue(child)
		obj, isObj := v.(map[string]any)
		if !isObj || envelopeObjects[child.name] {
			doc[child.name] = v
			continue
		}
		list, _ := doc[child.name].([]any)
		doc[child.name] = append(list, obj)
	}
	return doc, nil
}

func parseXML(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *xmlNode
	var stack []*xmlNode
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name.Local, attrs: t.Attr}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}

func nodeValue(n *xmlNode) any {
	if len(n.children) == 0 && len(n.attrs) == 0 {
		return strings.TrimSpace(n.text.String())
	}

	if len(n.attrs) == 0 && isList(n) {
		list := make([]any, 0, len(n.children))
		for _, c := range n.children {
			list = append(list, nodeValue(c))
		}
		return list
	}

	obj := make(map[string]any, len(n.children)+len(n.attrs))
	for _, a := range n.attrs {
		obj["@"+a.Name.Local] = a.Value
	}
	counts := make(map[string]int, len(n.children))
	for _, c := range n.children {
		counts[c.name]++
	}
	for _, c := range n.children {
		v := nodeValue(c)
		if counts[c.name] == 1 {
			obj[c.name] = v
			continue
		}
		list, _ := obj[c.name].([]any)
		obj[c.name] = append(list, v)
	}
	if len(n.children) == 0 {
		if text := strings.TrimSpace(n.text.String()); text != "" {
			obj["#text"] = text
		}
	}
	return obj
}

func isList(n *xmlNode) bool {
	if len(n.children) == 0 {
		return false
	}
	name := n.children[0].name
	for _, c := range n.children[1:] {
		if c.name != name {
			return false
		}
	}
	return len(n.children) > 1 || n.name == name+"s"
}
