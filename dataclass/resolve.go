package dataclass

import (
	"fmt"
	"reflect"
	"slices"

	"datakit/internal/diagnostic"
	"datakit/internal/match"
)

// resolve classifies every declared field of c. It never fails on its own;
// declaration problems are reported through the returned diagnostics.
func resolve(c *Class) (*Definition, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}
	def := &Definition{
		class:  c,
		byName: make(map[string]*FieldDescriptor, len(c.fields)),
	}

	if c.name == "" {
		diags.AddError("empty_class_name", "data class has no name", "", "")
	}

	for _, decl := range c.fields {
		if decl.name == "" {
			diags.AddError("empty_field_name", "field has no name", c.name, "")
			continue
		}

		if _, dup := def.byName[decl.name]; dup {
			diags.AddError("duplicate_field",
				fmt.Sprintf("field %q is declared more than once", decl.name), c.name, decl.name)

			continue
		}

		if decl.nestedSet && decl.nested == nil {
			diags.AddError("nil_nested_class",
				fmt.Sprintf("field %q references a nil data class", decl.name), c.name, decl.name)
		}

		fd := &FieldDescriptor{
			Name:        decl.name,
			Index:       len(def.fields),
			Required:    !decl.hasDefault,
			IsArray:     decl.array,
			Nested:      decl.nested,
			Validators:  slices.Clone(decl.validators),
			Default:     decl.def,
			Description: decl.description,
			JSONType:    decl.jsonType,
		}

		def.fields = append(def.fields, fd)
		def.byName[fd.Name] = fd
	}

	for _, target := range c.targets {
		fd, ok := def.byName[target.field]
		if !ok {
			var suggestions []string
			if s, found := match.Suggest(target.field, def.Names()); found {
				suggestions = append(suggestions, s)
			}

			diags.AddError("unknown_validator_target",
				fmt.Sprintf("validator targets undeclared field %q", target.field),
				c.name, target.field, suggestions...)

			continue
		}

		fd.Validators = append(fd.Validators, target.validators...)
	}

	for _, fd := range def.fields {
		checkField(diags, c.name, fd)

		if fd.Required {
			def.required = append(def.required, fd.Name)
		}
	}

	warnCaseCollisions(diags, def)

	return def, diags
}

// checkField enforces the per-field invariants and normalizes nested defaults.
func checkField(diags *diagnostic.Diagnostics, class string, fd *FieldDescriptor) {
	if slices.ContainsFunc(fd.Validators, func(v Validator) bool { return v == nil }) {
		diags.AddError("nil_validator",
			fmt.Sprintf("field %q has a nil validator", fd.Name), class, fd.Name)
	}

	if fd.Nested == nil {
		if fd.IsArray && !fd.Required && fd.Default != nil && !isList(fd.Default) {
			diags.AddError("invalid_array_default",
				fmt.Sprintf("array field %q has a non-array default %s", fd.Name, describeType(fd.Default)),
				class, fd.Name)
		}

		return
	}

	if len(fd.Validators) > 0 {
		diags.AddError("nested_with_validators",
			fmt.Sprintf("nested field %q cannot have validators", fd.Name), class, fd.Name)
	}

	if fd.Required || fd.Default == nil {
		return
	}

	switch fd.Kind() {
	case KindNested:
		inst, ok := fd.Default.(*Instance)
		switch {
		case ok && inst == nil:
			fd.Default = nil
		case !ok || inst.def.class != fd.Nested:
			diags.AddError("invalid_nested_default",
				fmt.Sprintf("default of field %q must be nil or a %s instance", fd.Name, fd.Nested.name),
				class, fd.Name)
		}
	case KindNestedArray:
		normalized, ok := nestedArrayDefault(fd.Default, fd.Nested)
		if !ok {
			diags.AddError("invalid_nested_default",
				fmt.Sprintf("default of field %q must be nil, an empty array or %s instances", fd.Name, fd.Nested.name),
				class, fd.Name)

			return
		}

		fd.Default = normalized
	}
}

func nestedArrayDefault(v any, c *Class) ([]*Instance, bool) {
	if insts, ok := v.([]*Instance); ok {
		for _, inst := range insts {
			if inst == nil || inst.def.class != c {
				return nil, false
			}
		}

		return slices.Clone(insts), true
	}

	if isList(v) && reflect.ValueOf(v).Len() == 0 {
		return []*Instance{}, true
	}

	return nil, false
}

func warnCaseCollisions(diags *diagnostic.Diagnostics, def *Definition) {
	seen := make(map[string]string, len(def.fields))
	for _, fd := range def.fields {
		key := match.Normalize(fd.Name)
		if prev, ok := seen[key]; ok {
			diags.AddWarning("case_collision",
				fmt.Sprintf("fields %q and %q differ only by case or separators", prev, fd.Name), def.Name(), fd.Name)

			continue
		}

		seen[key] = fd.Name
	}
}

func isList(v any) bool {
	if v == nil {
		return false
	}

	k := reflect.TypeOf(v).Kind()

	return k == reflect.Slice || k == reflect.Array
}
