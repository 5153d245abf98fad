package dataclass

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Instance is an immutable value of a data class. It holds exactly the
// declared fields; nested values are *Instance or []*Instance.
type Instance struct {
	def    *Definition
	values []any
}

// Class returns the class of the instance.
func (i *Instance) Class() *Class {
	return i.def.class
}

// Definition returns the resolved definition of the instance's class.
func (i *Instance) Definition() *Definition {
	return i.def
}

// Get returns the value of the named field. Containers are returned as
// copies, so modifying the result does not affect the instance.
func (i *Instance) Get(name string) (any, bool) {
	fd, ok := i.def.byName[name]
	if !ok {
		return nil, false
	}

	return copyValue(i.values[fd.Index]), true
}

// Value returns the named field as a T. It reports false if the field is not
// declared or holds a non-nil value of another type; a nil value yields the
// zero T and true.
func Value[T any](i *Instance, name string) (T, bool) {
	var zero T

	v, ok := i.Get(name)
	if !ok {
		return zero, false
	}

	if v == nil {
		return zero, true
	}

	t, ok := v.(T)

	return t, ok
}

// ToMapping flattens the instance into a declaration-ordered mapping. Nested
// instances are flattened recursively, so the result holds only plain values.
func (i *Instance) ToMapping() *Fields {
	out := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](len(i.values)))
	for idx, fd := range i.def.fields {
		out.Set(fd.Name, flattenValue(i.values[idx]))
	}

	return out
}

func flattenValue(v any) any {
	switch t := v.(type) {
	case *Instance:
		if t == nil {
			return nil
		}

		return t.ToMapping()
	case []*Instance:
		if t == nil {
			return nil
		}

		out := make([]any, len(t))
		for idx, inst := range t {
			out[idx] = flattenValue(inst)
		}

		return out
	default:
		return copyValue(v)
	}
}

// ToObject projects the instance onto plain Go maps, recursively. Key order
// is lost; use ToMapping when it matters.
func (i *Instance) ToObject() map[string]any {
	out := make(map[string]any, len(i.values))
	for idx, fd := range i.def.fields {
		out[fd.Name] = plainValue(i.values[idx])
	}

	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *Instance:
		if t == nil {
			return nil
		}

		return t.ToObject()
	case []*Instance:
		if t == nil {
			return nil
		}

		out := make([]any, len(t))
		for idx, inst := range t {
			out[idx] = plainValue(inst)
		}

		return out
	case *Fields:
		if t == nil {
			return nil
		}

		out := make(map[string]any, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = plainValue(pair.Value)
		}

		return out
	case []any:
		if t == nil {
			return t
		}

		out := make([]any, len(t))
		for idx, item := range t {
			out[idx] = plainValue(item)
		}

		return out
	case map[string]any:
		if t == nil {
			return t
		}

		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plainValue(item)
		}

		return out
	default:
		return copyValue(v)
	}
}

// String returns the JSON encoding of the instance.
func (i *Instance) String() string {
	b, err := i.MarshalJSON()
	if err != nil {
		return i.def.Name() + "{<" + err.Error() + ">}"
	}

	return string(b)
}
