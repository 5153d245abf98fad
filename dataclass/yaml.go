package dataclass

import (
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

var _ yaml.Marshaler = &Instance{}

// MarshalYAML encodes the instance as a YAML mapping with keys in declaration
// order.
func (i *Instance) MarshalYAML() (any, error) {
	return i.yamlNode()
}

func (i *Instance) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for idx, fd := range i.def.fields {
		value, err := yamlValueNode(i.values[idx])
		if err != nil {
			return nil, fmt.Errorf("encode field %s.%s: %w", i.def.Name(), fd.Name, err)
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fd.Name},
			value,
		)
	}

	return node, nil
}

func yamlValueNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case *Instance:
		if t == nil {
			return yamlValueNode(nil)
		}

		return t.yamlNode()
	case []*Instance:
		if t == nil {
			return yamlValueNode(nil)
		}

		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, inst := range t {
			item, err := yamlValueNode(inst)
			if err != nil {
				return nil, err
			}

			seq.Content = append(seq.Content, item)
		}

		return seq, nil
	case *Fields:
		if t == nil {
			return yamlValueNode(nil)
		}

		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			item, err := yamlValueNode(pair.Value)
			if err != nil {
				return nil, err
			}

			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key},
				item,
			)
		}

		return m, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, err
		}

		return node, nil
	}
}

// ToYAML encodes inst as a YAML document.
func ToYAML(inst *Instance) ([]byte, error) {
	return yaml.Marshal(inst)
}

// FromYAML decodes a YAML mapping and constructs an instance of c with the
// default registry.
func FromYAML(c *Class, data []byte, opts ...ConstructOption) (*Instance, error) {
	return DefaultRegistry.FromYAML(c, data, opts...)
}

// FromYAML decodes a YAML mapping, keeping its key order, and constructs an
// instance of c from it.
func (r *Registry) FromYAML(c *Class, data []byte, opts ...ConstructOption) (*Instance, error) {
	fields, err := DecodeYAMLFields(data)
	if err != nil {
		return nil, err
	}

	return r.construct(c, fields, newConstructOptions(opts))
}

// DecodeYAMLFields decodes a YAML mapping into ordered Fields.
func DecodeYAMLFields(data []byte) (*Fields, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}

	node := &doc
	if node.Kind == 0 {
		return nil, errors.New("decode YAML: empty document")
	}

	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, errors.New("decode YAML: empty document")
		}

		node = node.Content[0]
	}

	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode YAML: expected a mapping at line %d", node.Line)
	}

	v, err := decodeYAMLNode(node)
	if err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}

	return v.(*Fields), nil
}

func decodeYAMLNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		out := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](len(node.Content) / 2))
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}

			v, err := decodeYAMLNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}

			out.Set(key.Value, v)
		}

		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := decodeYAMLNode(item)
			if err != nil {
				return nil, err
			}

			out = append(out, v)
		}

		return out, nil
	case yaml.AliasNode:
		return decodeYAMLNode(node.Alias)
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}

		return v, nil
	}
}
