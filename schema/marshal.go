package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

// MarshalJSON emits the value as compact JSON, preserving object key order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, "", ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSONIndent emits the value as indented JSON, preserving object key
// order. This is the serialization used for emitted artifacts, so that
// repeated runs over unchanged sources produce byte-identical output.
func (v *Value) MarshalJSONIndent(indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, "", indent); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v *Value, prefix, indent string) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.kind {
	case KindObject:
		if len(v.keys) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		childPrefix := prefix + indent
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if indent != "" {
				buf.WriteByte('\n')
				buf.WriteString(childPrefix)
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			if err := writeJSON(buf, v.fields[k], childPrefix, indent); err != nil {
				return err
			}
		}
		if indent != "" {
			buf.WriteByte('\n')
			buf.WriteString(prefix)
		}
		buf.WriteByte('}')
		return nil

	case KindArray:
		if len(v.items) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		childPrefix := prefix + indent
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if indent != "" {
				buf.WriteByte('\n')
				buf.WriteString(childPrefix)
			}
			if err := writeJSON(buf, item, childPrefix, indent); err != nil {
				return err
			}
		}
		if indent != "" {
			buf.WriteByte('\n')
			buf.WriteString(prefix)
		}
		buf.WriteByte(']')
		return nil

	default:
		return writeJSONScalar(buf, v.scalar)
	}
}

func writeJSONScalar(buf *bytes.Buffer, s any) error {
	switch n := s.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(n))
	case int64:
		buf.WriteString(strconv.FormatInt(n, 10))
	case float64:
		// json.Marshal picks the shortest round-trippable representation.
		out, err := json.Marshal(n)
		if err != nil {
			return err
		}
		buf.Write(out)
	case string:
		out, err := json.Marshal(n)
		if err != nil {
			return err
		}
		buf.Write(out)
	default:
		return fmt.Errorf("schema: unsupported scalar type %T", s)
	}
	return nil
}

// MarshalYAML emits the value as YAML, preserving object key order.
func (v *Value) MarshalYAML() ([]byte, error) {
	node := v.ToNode()
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToNode converts the value into a yaml.Node tree. Key order is preserved
// and strings that would otherwise parse as another YAML type are quoted.
func (v *Value) ToNode() *yaml.Node {
	if v == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	switch v.kind {
	case KindObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.keys {
			node.Content = append(node.Content,
				scalarNode(k),
				v.fields[k].ToNode(),
			)
		}
		return node
	case KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.items {
			node.Content = append(node.Content, item.ToNode())
		}
		return node
	default:
		switch n := v.scalar.(type) {
		case nil:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		case bool:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(n)}
		case int64:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(n, 10)}
		case float64:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(n, 'g', -1, 64)}
		case string:
			return scalarNode(n)
		default:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(n)}
		}
	}
}

func scalarNode(s string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if needsQuoting(s) {
		node.Style = yaml.DoubleQuotedStyle
	}
	return node
}

// needsQuoting reports whether a string scalar must be quoted to survive a
// YAML round trip as a string.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no", "on", "off", "null", "~":
		return true
	}
	// Strings that look numeric would re-parse as numbers.
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}
