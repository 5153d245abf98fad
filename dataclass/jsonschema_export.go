package dataclass

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// JSONSchema describes c with the default registry.
func JSONSchema(c *Class) (*jsonschema.Schema, error) {
	return DefaultRegistry.JSONSchema(c)
}

// JSONSchema describes the JSON encoding of c as a draft 2020-12 schema.
// Nested classes are placed under $defs and referenced by name. Validators
// have no schema form, so the result only constrains shape and presence.
func (r *Registry) JSONSchema(c *Class) (*jsonschema.Schema, error) {
	def, err := r.Resolve(c)
	if err != nil {
		return nil, err
	}

	defs := jsonschema.Definitions{}

	root, err := r.objectSchema(def, defs)
	if err != nil {
		return nil, err
	}

	root.Version = jsonschema.Version
	root.Title = def.Name()

	if len(defs) > 0 {
		root.Definitions = defs
	}

	return root, nil
}

func (r *Registry) objectSchema(def *Definition, defs jsonschema.Definitions) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}

	for _, fd := range def.fields {
		prop, err := r.fieldSchema(fd, defs)
		if err != nil {
			return nil, fmt.Errorf("schema for %s.%s: %w", def.Name(), fd.Name, err)
		}

		prop.Description = fd.Description
		s.Properties.Set(fd.Name, prop)
	}

	if len(def.required) > 0 {
		s.Required = def.RequiredFields()
	}

	return s, nil
}

func (r *Registry) fieldSchema(fd *FieldDescriptor, defs jsonschema.Definitions) (*jsonschema.Schema, error) {
	switch fd.Kind() {
	case KindNested:
		ref, err := r.defineNested(fd.Nested, defs)
		if err != nil {
			return nil, err
		}

		return nullable(ref), nil

	case KindNestedArray:
		ref, err := r.defineNested(fd.Nested, defs)
		if err != nil {
			return nil, err
		}

		return nullable(&jsonschema.Schema{Type: "array", Items: ref}), nil

	default:
		var s *jsonschema.Schema

		switch {
		case fd.IsArray && fd.JSONType != "":
			s = &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: fd.JSONType}}
		case fd.IsArray:
			s = &jsonschema.Schema{Type: "array"}
		case fd.JSONType != "":
			s = &jsonschema.Schema{Type: fd.JSONType}
		default:
			// untyped plain fields accept any JSON value
			return &jsonschema.Schema{}, nil
		}

		if !fd.Required && fd.Default == nil {
			return nullable(s), nil
		}

		return s, nil
	}
}

// defineNested adds c to defs once and returns a reference to it.
func (r *Registry) defineNested(c *Class, defs jsonschema.Definitions) (*jsonschema.Schema, error) {
	ref := &jsonschema.Schema{Ref: "#/$defs/" + c.name}
	if _, ok := defs[c.name]; ok {
		return ref, nil
	}

	def, err := r.Resolve(c)
	if err != nil {
		return nil, err
	}

	defs[c.name] = &jsonschema.Schema{}

	s, err := r.objectSchema(def, defs)
	if err != nil {
		return nil, err
	}

	s.Title = c.name
	defs[c.name] = s

	return ref, nil
}

func nullable(s *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{s, {Type: "null"}},
	}
}
