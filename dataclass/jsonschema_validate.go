package dataclass

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

type compiledEntry struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// compiledSchema compiles the exported schema of c once per registry.
func (r *Registry) compiledSchema(c *Class) (*jsonschema.Schema, error) {
	v, _ := r.schemas.LoadOrStore(c, &compiledEntry{})
	e := v.(*compiledEntry)
	e.once.Do(func() {
		e.schema, e.err = r.compile(c)
	})

	return e.schema, e.err
}

func (r *Registry) compile(c *Class) (*jsonschema.Schema, error) {
	exported, err := r.JSONSchema(c)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(exported)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema of %s: %w", c.name, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema of %s: %w", c.name, err)
	}

	location := c.name + ".schema.json"
	compiler := jsonschema.NewCompiler()

	if err := compiler.AddResource(location, doc); err != nil {
		return nil, fmt.Errorf("failed to add %s: %w", location, err)
	}

	sch, err := compiler.Compile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", location, err)
	}

	r.logger.Debug("compiled data class schema", "class", c.name)

	return sch, nil
}

// ValidateJSON checks data against the schema of c with the default registry.
func ValidateJSON(c *Class, data []byte) error {
	return DefaultRegistry.ValidateJSON(c, data)
}

// ValidateJSON checks that data has the shape of a JSON-encoded instance of c.
// It does not run field validators; use FromJSON for that.
func (r *Registry) ValidateJSON(c *Class, data []byte) error {
	sch, err := r.compiledSchema(c)
	if err != nil {
		return err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to unmarshal %s document: %w", c.name, err)
	}

	return sch.Validate(doc)
}
