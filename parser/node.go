package parser

import (
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v4"
)

// pairs iterates over the key/value children of a mapping node in order.
func pairs(n *yaml.Node, fn func(key string, val *yaml.Node) error) error {
	n = deref(n)
	if n == nil {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping, got %s", n.Line, kindName(n.Kind))
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// child returns the value node for key in a mapping, or nil.
func child(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return deref(n.Content[i+1])
		}
	}
	return nil
}

// deref unwraps document and alias nodes.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func scalar(n *yaml.Node) string {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

func boolValue(n *yaml.Node) bool {
	b, _ := strconv.ParseBool(scalar(n))
	return b
}

func intPtr(n *yaml.Node) *int {
	s := scalar(n)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func floatPtr(n *yaml.Node) *float64 {
	s := scalar(n)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// stringList returns the scalar children of a sequence node. Null entries are
// reported as the empty string.
func stringList(n *yaml.Node) []string {
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		c = deref(c)
		if c.Kind == yaml.ScalarNode && c.Tag == "!!null" {
			out = append(out, "")
			continue
		}
		out = append(out, scalar(c))
	}
	return out
}

// anyValue decodes a node into plain Go values.
func anyValue(n *yaml.Node) any {
	var v any
	if n == nil {
		return nil
	}
	if err := n.Decode(&v); err != nil {
		return nil
	}
	return v
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
