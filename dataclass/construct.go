package dataclass

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Fields is an insertion-ordered mapping from field name to raw value.
// The input order drives the order in which fields are assigned.
type Fields = orderedmap.OrderedMap[string, any]

// NewFields builds Fields from alternating name/value arguments.
// It panics if a name is not a string or a value is missing.
func NewFields(kv ...any) *Fields {
	if len(kv)%2 != 0 {
		panic("dataclass.NewFields: odd number of arguments")
	}

	f := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](len(kv) / 2))
	for i := 0; i < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("dataclass.NewFields: field name at position %d is %T, not string", i, kv[i]))
		}

		f.Set(name, kv[i+1])
	}

	return f
}

// ConstructOption configures a single construction.
type ConstructOption func(*constructOptions)

type constructOptions struct {
	ignoreUnknown bool
}

// IgnoreUnknown drops supplied fields the class does not declare instead of
// failing with an UnknownFieldError. It applies to nested construction too.
func IgnoreUnknown() ConstructOption {
	return func(o *constructOptions) {
		o.ignoreUnknown = true
	}
}

// Construct builds an instance of c with the default registry.
func Construct(c *Class, fields *Fields, opts ...ConstructOption) (*Instance, error) {
	return DefaultRegistry.Construct(c, fields, opts...)
}

// ConstructMap builds an instance of c from an unordered map with the default
// registry. Fields are assigned in declaration order.
func ConstructMap(c *Class, fields map[string]any, opts ...ConstructOption) (*Instance, error) {
	return DefaultRegistry.ConstructMap(c, fields, opts...)
}

// Construct builds an instance of c from fields. It fails with a
// MissingRequiredFieldsError before touching any field, with an
// UnknownFieldError for undeclared input, or with whatever error a validator
// or nested construction returns. Nothing is returned on failure.
func (r *Registry) Construct(c *Class, fields *Fields, opts ...ConstructOption) (*Instance, error) {
	return r.construct(c, fields, newConstructOptions(opts))
}

// ConstructMap is like Construct for an unordered map.
func (r *Registry) ConstructMap(c *Class, fields map[string]any, opts ...ConstructOption) (*Instance, error) {
	def, err := r.Resolve(c)
	if err != nil {
		return nil, err
	}

	return r.construct(c, orderedFromMap(def, fields), newConstructOptions(opts))
}

func newConstructOptions(opts []ConstructOption) *constructOptions {
	o := &constructOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (r *Registry) construct(c *Class, fields *Fields, o *constructOptions) (*Instance, error) {
	def, err := r.Resolve(c)
	if err != nil {
		return nil, err
	}

	if fields == nil {
		fields = orderedmap.New[string, any]()
	}

	var missing []string
	for _, name := range def.required {
		if _, ok := fields.Get(name); !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingRequiredFieldsError{Class: def.Name(), Fields: missing}
	}

	values := make([]any, len(def.fields))
	assigned := make([]bool, len(def.fields))

	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		fd, ok := def.byName[pair.Key]
		if !ok {
			if o.ignoreUnknown {
				continue
			}

			return nil, newUnknownFieldError(def, pair.Key)
		}

		value, err := r.buildValue(fd, pair.Value, o)
		if err != nil {
			return nil, err
		}

		values[fd.Index] = value
		assigned[fd.Index] = true
	}

	for i, fd := range def.fields {
		if !assigned[i] {
			values[i] = copyValue(fd.Default)
		}
	}

	return &Instance{def: def, values: values}, nil
}

func (r *Registry) buildValue(fd *FieldDescriptor, raw any, o *constructOptions) (any, error) {
	switch fd.Kind() {
	case KindNestedArray:
		if raw == nil {
			return nil, nil
		}

		items, ok := toList(raw)
		if !ok {
			return nil, &ValidationError{
				Field:   fd.Name,
				Message: fmt.Sprintf("field %s expects an array of %s, got %s", fd.Name, fd.Nested.name, describeType(raw)),
			}
		}

		out := make([]*Instance, 0, len(items))
		for _, item := range items {
			inst, err := r.buildNested(fd, item, o)
			if err != nil {
				return nil, err
			}

			out = append(out, inst)
		}

		return out, nil

	case KindNested:
		if raw == nil {
			return nil, nil
		}

		return r.buildNested(fd, raw, o)

	default:
		value := copyValue(raw)
		for _, validate := range fd.Validators {
			var err error
			if value, err = validate(value); err != nil {
				return nil, err
			}
		}

		return value, nil
	}
}

func (r *Registry) buildNested(fd *FieldDescriptor, raw any, o *constructOptions) (*Instance, error) {
	switch v := raw.(type) {
	case *Instance:
		if v != nil && v.def.class == fd.Nested {
			return v, nil
		}
	case *Fields:
		if v != nil {
			return r.construct(fd.Nested, v, o)
		}
	case map[string]any:
		def, err := r.Resolve(fd.Nested)
		if err != nil {
			return nil, err
		}

		return r.construct(fd.Nested, orderedFromMap(def, v), o)
	}

	return nil, &ValidationError{
		Field:   fd.Name,
		Message: fmt.Sprintf("field %s expects a %s mapping, got %s", fd.Name, fd.Nested.name, describeType(raw)),
	}
}

// orderedFromMap orders m by declaration, then appends undeclared keys sorted
// by name so unknown-field errors are deterministic.
func orderedFromMap(def *Definition, m map[string]any) *Fields {
	out := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](len(m)))
	for _, fd := range def.fields {
		if v, ok := m[fd.Name]; ok {
			out.Set(fd.Name, v)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(m)) {
		if _, declared := def.byName[key]; !declared {
			out.Set(key, m[key])
		}
	}

	return out
}

func toList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []*Fields:
		return toAnySlice(v), true
	case []map[string]any:
		return toAnySlice(v), true
	case []*Instance:
		return toAnySlice(v), true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}

func toAnySlice[E any](s []E) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}

	return out
}
