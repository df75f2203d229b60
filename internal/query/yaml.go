package query

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// rawCondition is the YAML shape of one condition.
//
// A leaf sets property/op/value; a group sets group. Both may set join.
//
//	conditions:
//	  - property: nazev
//	    op: COMPARE
//	    value: "abc%"
//	  - join: OR
//	    group:
//	      - property: kod
//	        op: IN
//	        value: [A, B]
type rawCondition struct {
	Property string     `yaml:"property"`
	Op       string     `yaml:"op"`
	Value    yaml.Node  `yaml:"value"`
	Join     string     `yaml:"join"`
	Group    Conditions `yaml:"group"`
}

// UnmarshalYAML decodes a sequence of leaves and groups.
func (c *Conditions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: conditions must be a sequence", node.Line)
	}

	out := make(Conditions, 0, len(node.Content))
	for _, item := range node.Content {
		var raw rawCondition
		if err := item.Decode(&raw); err != nil {
			return err
		}
		cond, err := raw.condition(item.Line)
		if err != nil {
			return err
		}
		out = append(out, cond)
	}
	*c = out
	return nil
}

func (r rawCondition) condition(line int) (Condition, error) {
	joiner := Joiner(strings.ToUpper(strings.TrimSpace(r.Join)))
	switch joiner {
	case "", JoinAnd, JoinOr:
	default:
		return nil, fmt.Errorf("line %d: unknown join %q", line, r.Join)
	}

	if r.Property == "" {
		if r.Group == nil {
			return nil, fmt.Errorf("line %d: condition needs a property or a group", line)
		}
		return Group{Children: r.Group, Joiner: joiner}, nil
	}
	if r.Group != nil {
		return nil, fmt.Errorf("line %d: condition cannot have both a property and a group", line)
	}

	op := Operator(strings.ToUpper(strings.TrimSpace(r.Op)))
	if op == "" {
		op = OpEq
	}

	value, err := decodeValue(&r.Value)
	if err != nil {
		return nil, fmt.Errorf("line %d: value for %q: %w", line, r.Property, err)
	}

	return Leaf{Property: r.Property, Operator: op, Value: value, Joiner: joiner}, nil
}

// decodeValue keeps timestamps as time.Time and sequences as []any.
func decodeValue(n *yaml.Node) (any, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!timestamp" {
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, err
		}
		return t, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// UnmarshalYAML accepts either "field" / "-field" shorthand strings or
// {field, direction} mappings.
func (o *Order) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		field := node.Value
		if strings.HasPrefix(field, "-") {
			*o = Desc(strings.TrimPrefix(field, "-"))
			return nil
		}
		*o = Asc(field)
		return nil
	}

	var raw struct {
		Field     string `yaml:"field"`
		Direction string `yaml:"direction"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Direction == "" {
		raw.Direction = "asc"
	}
	*o = Order{Field: raw.Field, Direction: raw.Direction}
	return nil
}

// Parse decodes a YAML query document.
func Parse(data []byte) (Query, error) {
	var q Query
	if err := yaml.Unmarshal(data, &q); err != nil {
		return Query{}, fmt.Errorf("parse query: %w", err)
	}
	return q, nil
}
