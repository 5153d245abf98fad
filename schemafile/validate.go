package schemafile

import (
	"fmt"
	"slices"

	"datakit/internal/diagnostic"
	"datakit/internal/match"
	"datakit/validate"
)

// jsonTypes are the accepted values of a field's type hint.
var jsonTypes = []string{"array", "boolean", "integer", "number", "object", "string"}

// Validate checks a declaration file against the validator catalog.
// This is a structural check only: it proves that Build can declare every
// class, not that the declared validators accept any particular data.
func Validate(f *File, catalog validate.Catalog) error {
	return check(f, catalog).Error()
}

func check(f *File, catalog validate.Catalog) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("file_is_nil", "declaration file is nil", "", "")
		return res
	}

	if f.Version != CurrentVersion {
		res.AddError("unsupported_version",
			fmt.Sprintf("unsupported version %q (want %q)", f.Version, CurrentVersion), "", "")
	}

	var names []string

	seenClasses := map[string]struct{}{}

	for _, c := range f.Classes {
		if c.Name == "" {
			res.AddError("empty_class_name", "class has no name", "", "")
			continue
		}

		if _, dup := seenClasses[c.Name]; dup {
			res.AddError("duplicate_class", fmt.Sprintf("duplicate class %q", c.Name), c.Name, "")
			continue
		}

		seenClasses[c.Name] = struct{}{}
		names = append(names, c.Name)
	}

	for i := range f.Classes {
		checkClass(res, &f.Classes[i], names, catalog)
	}

	if res.IsValid() {
		if _, err := classOrder(f); err != nil {
			res.AddError("nesting_cycle", err.Error(), "", "")
		}
	}

	return res
}

func checkClass(res *diagnostic.Diagnostics, c *ClassSpec, classes []string, catalog validate.Catalog) {
	if len(c.Fields) == 0 {
		res.AddWarning("no_fields", "class declares no fields", c.Name, "")
	}

	seen := map[string]struct{}{}

	for i := range c.Fields {
		field := &c.Fields[i]
		if field.Name == "" {
			res.AddError("empty_field_name", fmt.Sprintf("field #%d has no name", i+1), c.Name, "")
			continue
		}

		if _, dup := seen[field.Name]; dup {
			res.AddError("duplicate_field", fmt.Sprintf("duplicate field %q", field.Name), c.Name, field.Name)
			continue
		}

		seen[field.Name] = struct{}{}

		checkField(res, c.Name, field, classes, catalog)
	}
}

func checkField(res *diagnostic.Diagnostics, class string, field *FieldSpec, classes []string, catalog validate.Catalog) {
	if field.Of != "" && field.ArrayOf != "" {
		res.AddError("nested_conflict", "field sets both of and array_of", class, field.Name)
	}

	if nested := field.NestedClass(); nested != "" && !slices.Contains(classes, nested) {
		res.AddError("unknown_class",
			fmt.Sprintf("nested class %q is not declared", nested), class, field.Name, suggest(nested, classes)...)
	}

	if field.IsNested() && len(field.Validators) > 0 {
		res.AddError("nested_with_validators", "nested field cannot have validators", class, field.Name)
	}

	if field.IsNested() && field.Type != "" {
		res.AddWarning("nested_type_ignored", "type is ignored on nested fields", class, field.Name)
	}

	if field.Array && field.Of != "" {
		res.AddWarning("array_of_preferred", "array with of is better written as array_of", class, field.Name)
	}

	if field.Type != "" && !slices.Contains(jsonTypes, field.Type) {
		res.AddError("unknown_type",
			fmt.Sprintf("unknown type %q", field.Type), class, field.Name, suggest(field.Type, jsonTypes)...)
	}

	if field.Optional && field.HasDefault {
		res.AddWarning("optional_with_default", "optional is redundant when a default is declared", class, field.Name)
	}

	for _, ref := range field.Validators {
		if _, ok := catalog[ref.Name]; !ok {
			res.AddError("unknown_validator",
				fmt.Sprintf("unknown validator %q", ref.Name), class, field.Name, suggest(ref.Name, catalog.Names())...)

			continue
		}

		if _, err := catalog.Build(ref.Name, ref.Args, ref.Message); err != nil {
			res.AddError("invalid_validator", err.Error(), class, field.Name)
		}
	}
}

func suggest(name string, candidates []string) []string {
	if s, ok := match.Suggest(name, candidates); ok {
		return []string{s}
	}

	return nil
}
