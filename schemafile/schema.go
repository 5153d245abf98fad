package schemafile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File represents the root of a YAML data class declaration file.
type File struct {
	// Version of the declaration format (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Classes are the declared data classes. A class may nest any class of
	// the same file regardless of the order they are listed in.
	Classes []ClassSpec `yaml:"classes"`
}

// ClassSpec declares one data class.
type ClassSpec struct {
	Name   string      `yaml:"name"`
	Fields []FieldSpec `yaml:"fields"`
}

// FieldSpec declares one field of a class.
//
// YAML example:
//
//	- name: links
//	  array_of: Link
//	  default: []
type FieldSpec struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type,omitempty"`
	Description string `yaml:"description,omitempty"`

	// Array marks a list of plain values.
	Array bool `yaml:"array,omitempty"`

	// Of names the class of a single nested instance.
	Of string `yaml:"of,omitempty"`

	// ArrayOf names the class of the elements of a nested array.
	ArrayOf string `yaml:"array_of,omitempty"`

	// Optional is shorthand for a null default.
	Optional bool `yaml:"optional,omitempty"`

	// Default is the value of an omitted field. HasDefault tells an explicit
	// null default apart from no default at all.
	Default    any  `yaml:"-"`
	HasDefault bool `yaml:"-"`

	Validators []ValidatorRef `yaml:"validators,omitempty"`
}

// plainFieldSpec has the fields of FieldSpec without its YAML methods.
type plainFieldSpec FieldSpec

// UnmarshalYAML implements custom YAML unmarshaling for FieldSpec so that
// `default: null` is recorded as a declared default.
func (f *FieldSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: field must be a mapping", node.Line)
	}

	var plain plainFieldSpec
	if err := node.Decode(&plain); err != nil {
		return err
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "default" {
			continue
		}

		var v any
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("line %d: invalid default: %w", node.Content[i+1].Line, err)
		}

		plain.Default = v
		plain.HasDefault = true
	}

	*f = FieldSpec(plain)

	return nil
}

// MarshalYAML implements custom YAML marshaling for FieldSpec. A declared
// default is always written, even when it is null or empty.
func (f FieldSpec) MarshalYAML() (any, error) {
	node := &yaml.Node{}
	if err := node.Encode(plainFieldSpec(f)); err != nil {
		return nil, err
	}

	if !f.HasDefault {
		return node, nil
	}

	value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	if f.Default != nil {
		value = &yaml.Node{}
		if err := value.Encode(f.Default); err != nil {
			return nil, fmt.Errorf("encode default of %s: %w", f.Name, err)
		}
	}

	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "default"},
		value,
	)

	return node, nil
}

// IsNested returns true if the field holds nested instances.
func (f *FieldSpec) IsNested() bool {
	return f.Of != "" || f.ArrayOf != ""
}

// NestedClass returns the referenced class name, if any.
func (f *FieldSpec) NestedClass() string {
	if f.ArrayOf != "" {
		return f.ArrayOf
	}

	return f.Of
}

// ValidatorRef names a catalog validator with its arguments.
// YAML formats supported:
//   - Simple string: title_case
//   - Mapping: {name: has_prefix, args: ["https://"], message: "..."}
type ValidatorRef struct {
	Name    string   `yaml:"name"`
	Args    []string `yaml:"args,omitempty"`
	Message string   `yaml:"message,omitempty"`
}

type plainValidatorRef ValidatorRef

// UnmarshalYAML implements custom YAML unmarshaling for ValidatorRef.
func (v *ValidatorRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}

		*v = ValidatorRef{Name: name}

		return nil

	case yaml.MappingNode:
		var plain plainValidatorRef
		if err := node.Decode(&plain); err != nil {
			return err
		}

		*v = ValidatorRef(plain)

		return nil

	default:
		return fmt.Errorf("line %d: expected validator name or mapping", node.Line)
	}
}

// MarshalYAML implements custom YAML marshaling for ValidatorRef.
// Outputs the bare name when there are no arguments or message.
func (v ValidatorRef) MarshalYAML() (any, error) {
	if len(v.Args) == 0 && v.Message == "" {
		return v.Name, nil
	}

	return plainValidatorRef(v), nil
}
