package schema

import (
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/cznethub/bblocktools/bberrors"
)

// ParseFile loads a schema document from path and decodes it into a Value.
// The YAML parser handles both YAML and JSON, so building blocks may author
// either serialization.
func ParseFile(path string) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := ParseBytes(data)
	if err != nil {
		var perr *bberrors.ParseError
		if errors.As(err, &perr) {
			perr.Path = path
			return nil, perr
		}
		return nil, &bberrors.ParseError{Path: path, Cause: err}
	}
	return v, nil
}

// ParseBytes decodes a schema document from raw YAML or JSON bytes.
func ParseBytes(data []byte) (*Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &bberrors.ParseError{Message: "invalid document", Cause: err}
	}
	if node.Kind == 0 {
		// Empty document decodes to a zero node; treat as an empty object,
		// matching how an empty schema file is interpreted.
		return NewObject(), nil
	}
	return FromNode(&node)
}

// FromNode converts a decoded yaml.Node tree into a Value, preserving
// mapping key order. Anchors and aliases are expanded in place.
func FromNode(node *yaml.Node) (*Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return NewObject(), nil
		}
		return FromNode(node.Content[0])

	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, &bberrors.ParseError{
				Line:    node.Line,
				Column:  node.Column,
				Message: "alias without anchor",
			}
		}
		return FromNode(node.Alias)

	case yaml.MappingNode:
		out := NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			var key string
			if err := keyNode.Decode(&key); err != nil {
				return nil, &bberrors.ParseError{
					Line:    keyNode.Line,
					Column:  keyNode.Column,
					Message: "mapping key is not a string",
					Cause:   err,
				}
			}
			child, err := FromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Set(key, child)
		}
		return out, nil

	case yaml.SequenceNode:
		items := make([]*Value, 0, len(node.Content))
		for _, itemNode := range node.Content {
			item, err := FromNode(itemNode)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return NewArray(items...), nil

	case yaml.ScalarNode:
		return scalarFromNode(node)

	default:
		return nil, &bberrors.ParseError{
			Line:    node.Line,
			Column:  node.Column,
			Message: fmt.Sprintf("unsupported node kind %d", node.Kind),
		}
	}
}

func scalarFromNode(node *yaml.Node) (*Value, error) {
	switch node.Tag {
	case "!!null", "":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, scalarError(node, err)
		}
		return NewScalar(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, scalarError(node, err)
		}
		return NewScalar(n), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, scalarError(node, err)
		}
		return NewScalar(f), nil
	default:
		// !!str, !!timestamp, and any custom tags stay as strings.
		return NewScalar(node.Value), nil
	}
}

func scalarError(node *yaml.Node, err error) error {
	return &bberrors.ParseError{
		Line:    node.Line,
		Column:  node.Column,
		Message: fmt.Sprintf("invalid %s scalar", node.Tag),
		Cause:   err,
	}
}
