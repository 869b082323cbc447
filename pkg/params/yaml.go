package params

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FromNode converts a YAML node into a Value. Null scalars yield ok=false.
func FromNode(node *yaml.Node) (Value, bool, error) {
	if node == nil {
		return Value{}, false, nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Value{}, false, nil
		}
		return FromNode(node.Content[0])

	case yaml.AliasNode:
		return FromNode(node.Alias)

	case yaml.ScalarNode:
		return scalarFromNode(node)

	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, ok, err := FromNode(child)
			if err != nil {
				return Value{}, false, err
			}
			if ok {
				items = append(items, item)
			}
		}
		return Value{kind: KindSequence, items: items}, true, nil

	case yaml.MappingNode:
		keys := make([]string, 0, len(node.Content)/2)
		entries := make(map[string]Value, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, false, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			v, ok, err := FromNode(valNode)
			if err != nil {
				return Value{}, false, err
			}
			if !ok {
				continue
			}
			keys = append(keys, keyNode.Value)
			entries[keyNode.Value] = v
		}
		return Mapping(keys, entries), true, nil
	}

	return Value{}, false, fmt.Errorf("line %d: unsupported yaml node kind %d", node.Line, node.Kind)
}

func scalarFromNode(node *yaml.Node) (Value, bool, error) {
	switch node.ShortTag() {
	case "!!null":
		return Value{}, false, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, false, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Bool(b), true, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return Value{}, false, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Int(i), true, nil
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			var decoded float64
			if derr := node.Decode(&decoded); derr != nil {
				return Value{}, false, fmt.Errorf("line %d: %w", node.Line, derr)
			}
			f = decoded
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return String(node.Value), true, nil
		}
		return Float(f), true, nil
	default:
		return String(node.Value), true, nil
	}
}

// DefinitionFromNode converts a YAML mapping node into a Definition
func DefinitionFromNode(node *yaml.Node) (Definition, error) {
	v, ok, err := FromNode(node)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Definition{}, nil
	}
	if !v.IsMapping() {
		return nil, fmt.Errorf("job definition must be a mapping, got %s", v.Kind())
	}
	def := make(Definition, v.Len())
	for _, k := range v.Keys() {
		e, _ := v.Get(k)
		def[k] = e
	}
	return def, nil
}
