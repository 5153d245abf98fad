package schemafile

import (
	"context"

	"datakit/dataclass"
	"datakit/validate"
)

// Load reads a declaration file and builds its classes into registry.
func Load(ctx context.Context, path string, catalog validate.Catalog, registry *dataclass.Registry) (map[string]*dataclass.Class, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	return Build(ctx, f, catalog, registry)
}

// Build declares every class of f, registers them by name in registry and
// resolves them eagerly. Classes are declared in nesting order, so a class
// is always declared after the classes it nests. Nothing is registered when
// the file is invalid.
func Build(ctx context.Context, f *File, catalog validate.Catalog, registry *dataclass.Registry) (map[string]*dataclass.Class, error) {
	logger := registry.Logger()

	diags := check(f, catalog)
	for _, w := range diags.Warnings {
		logger.Warn("declaration file warning", "class", w.Class, "field", w.Field, "warning", w.Text())
	}

	if err := diags.Error(); err != nil {
		return nil, err
	}

	order, err := classOrder(f)
	if err != nil {
		return nil, err
	}

	classes := make(map[string]*dataclass.Class, len(order))
	declared := make([]*dataclass.Class, 0, len(order))

	for _, i := range order {
		spec := &f.Classes[i]

		members := make([]dataclass.Member, 0, len(spec.Fields))
		for j := range spec.Fields {
			field, err := buildField(&spec.Fields[j], classes, catalog)
			if err != nil {
				return nil, err
			}

			members = append(members, field)
		}

		c := dataclass.Define(spec.Name, members...)
		classes[spec.Name] = c
		declared = append(declared, c)
	}

	if err := registry.Register(declared...); err != nil {
		return nil, err
	}

	if err := registry.Preload(ctx, declared...); err != nil {
		return nil, err
	}

	logger.Debug("built declaration file", "classes", len(declared))

	return classes, nil
}

func buildField(spec *FieldSpec, classes map[string]*dataclass.Class, catalog validate.Catalog) (dataclass.FieldDecl, error) {
	var opts []dataclass.FieldOption

	switch {
	case spec.ArrayOf != "":
		opts = append(opts, dataclass.ArrayOf(classes[spec.ArrayOf]))
	case spec.Of != "" && spec.Array:
		opts = append(opts, dataclass.ArrayOf(classes[spec.Of]))
	case spec.Of != "":
		opts = append(opts, dataclass.Of(classes[spec.Of]))
	case spec.Array:
		opts = append(opts, dataclass.Array())
	}

	switch {
	case spec.HasDefault:
		opts = append(opts, dataclass.Default(spec.Default))
	case spec.Optional:
		opts = append(opts, dataclass.Optional())
	}

	if spec.Type != "" && !spec.IsNested() {
		opts = append(opts, dataclass.Typed(spec.Type))
	}

	if spec.Description != "" {
		opts = append(opts, dataclass.Describe(spec.Description))
	}

	for _, ref := range spec.Validators {
		v, err := catalog.Build(ref.Name, ref.Args, ref.Message)
		if err != nil {
			return dataclass.FieldDecl{}, err
		}

		opts = append(opts, dataclass.Validate(v))
	}

	return dataclass.Field(spec.Name, opts...), nil
}
