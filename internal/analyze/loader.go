package analyze

import (
	"fmt"
	"go/types"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"

	"datakit/internal/diagnostic"
	"datakit/internal/match"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and extracts the data classes declared in them
// with datakit struct tags.
type Analyzer struct {
	logger *slog.Logger
	graph  *ClassGraph
	diags  *diagnostic.Diagnostics
}

// NewAnalyzer creates a new Analyzer. A nil logger discards all output.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Analyzer{
		logger: logger,
		graph:  NewClassGraph(),
		diags:  &diagnostic.Diagnostics{},
	}
}

// LoadPackages loads the specified packages and collects their data classes.
// Patterns are standard Go package patterns (e.g., "./examples/profile").
// Problems found in the tags are reported together in the returned error.
func (a *Analyzer) LoadPackages(patterns ...string) (*ClassGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	for _, w := range a.diags.Warnings {
		a.logger.Warn("data class tag warning", "class", w.Class, "field", w.Field, "code", w.Code, "warning", w.Text())
	}

	if err := a.diags.Error(); err != nil {
		return nil, err
	}

	return a.graph, nil
}

// Graph returns the current class graph.
func (a *Analyzer) Graph() *ClassGraph {
	return a.graph
}

// processPackage extracts data classes from a loaded package. A struct is a
// data class when at least one of its fields has a datakit tag.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	if len(pkg.GoFiles) > 0 {
		pkgInfo.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	structs := map[TypeID]*types.Struct{}
	positions := map[TypeID]int{}

	var ids []TypeID

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		st, ok := typeName.Type().Underlying().(*types.Struct)
		if !ok || !hasTaggedField(st) {
			continue
		}

		id := TypeID{PkgPath: pkg.PkgPath, Name: name}
		structs[id] = st
		positions[id] = int(typeName.Pos())
		ids = append(ids, id)
	}

	for _, id := range ids {
		info := &ClassInfo{ID: id, Pos: positions[id]}
		a.analyzeFields(pkg, structs[id], info, structs)

		a.graph.Classes[id] = info
		pkgInfo.Classes = append(pkgInfo.Classes, id)
	}

	a.graph.Packages[pkg.PkgPath] = pkgInfo

	a.logger.Debug("analyzed package", "package", pkg.PkgPath, "classes", len(pkgInfo.Classes))
}

func hasTaggedField(st *types.Struct) bool {
	for i := range st.NumFields() {
		if _, ok := reflect.StructTag(st.Tag(i)).Lookup(TagKey); ok {
			return true
		}
	}

	return false
}

// analyzeFields extracts the tagged fields of a data class struct.
func (a *Analyzer) analyzeFields(pkg *packages.Package, st *types.Struct, info *ClassInfo, classes map[TypeID]*types.Struct) {
	class := info.ID.Name
	seen := map[string]string{}

	for i := range st.NumFields() {
		field := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))

		ft, ok, err := parseTag(tag, field.Name())
		if err != nil {
			a.diags.AddError("invalid_tag", err.Error(), class, field.Name())
			continue
		}

		if !ok {
			continue
		}

		if !field.Exported() || field.Embedded() {
			a.diags.AddError("unsupported_field", "only exported, non-embedded fields can be tagged", class, field.Name())
			continue
		}

		if prev, dup := seen[ft.Name]; dup {
			a.diags.AddError("duplicate_field",
				fmt.Sprintf("field name %q is already used by %s", ft.Name, prev), class, field.Name())

			continue
		}

		seen[ft.Name] = field.Name()

		fi := FieldInfo{
			GoName:   field.Name(),
			Name:     ft.Name,
			Optional: ft.Optional,
			Index:    i,
		}

		a.analyzeFieldType(field.Type(), &fi, info.ID, classes)

		if fi.IsNested() && len(ft.Validators) > 0 {
			a.diags.AddError("nested_with_validators", "nested field cannot have validators", class, field.Name())
		}

		for _, fn := range ft.Validators {
			ref, err := a.resolveValidator(pkg, fn)
			if err != nil {
				var suggestions []string
				if pkg.Types.Scope().Lookup(fn) == nil {
					suggestions = suggestFunc(pkg, fn)
				}

				a.diags.AddError("invalid_validator", err.Error(), class, field.Name(), suggestions...)

				continue
			}

			fi.Validators = append(fi.Validators, ref)
		}

		if json := jsonName(tag); json != "" && json != ft.Name {
			a.diags.AddWarning("json_name_mismatch",
				fmt.Sprintf("json name %q differs from field name %q; Parse helpers will not fill it", json, ft.Name),
				class, field.Name())
		}

		info.Fields = append(info.Fields, fi)
	}
}

// analyzeFieldType fills the shape of a field from its Go type. Pointers are
// stripped, slices become arrays, and a named struct that is itself a data
// class of the same package becomes a nested field.
func (a *Analyzer) analyzeFieldType(t types.Type, fi *FieldInfo, owner TypeID, classes map[TypeID]*types.Struct) {
	if slice, ok := t.Underlying().(*types.Slice); ok {
		if basic, ok := slice.Elem().Underlying().(*types.Basic); !ok || basic.Kind() != types.Byte {
			fi.Array = true
			t = slice.Elem()
		}
	}

	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}

	if named, ok := types.Unalias(t).(*types.Named); ok && named.Obj().Pkg() != nil {
		id := TypeID{PkgPath: named.Obj().Pkg().Path(), Name: named.Obj().Name()}
		if _, isClass := classes[id]; isClass {
			fi.Nested = &id
			return
		}

		if _, isStruct := named.Underlying().(*types.Struct); isStruct && id.PkgPath != owner.PkgPath {
			a.diags.AddWarning("foreign_struct",
				fmt.Sprintf("%s is not a data class of this package and is kept as a plain value", id), owner.Name, fi.GoName)
		}
	}

	fi.JSONType = jsonType(t)
}

// jsonType maps a Go type to the JSON type it encodes to, or "" when the
// encoding cannot be told from the type alone.
func jsonType(t types.Type) string {
	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch info := u.Info(); {
		case info&types.IsBoolean != 0:
			return "boolean"
		case info&types.IsInteger != 0:
			return "integer"
		case info&types.IsFloat != 0:
			return "number"
		case info&types.IsString != 0:
			return "string"
		}
	case *types.Slice:
		if basic, ok := u.Elem().Underlying().(*types.Basic); ok && basic.Kind() == types.Byte {
			return "string"
		}

		return "array"
	case *types.Map, *types.Struct:
		return "object"
	}

	return ""
}

var errorType = types.Universe.Lookup("error").Type()

// resolveValidator checks that name is a package-level function with one of
// the accepted validator signatures.
func (a *Analyzer) resolveValidator(pkg *packages.Package, name string) (ValidatorRef, error) {
	fn, ok := pkg.Types.Scope().Lookup(name).(*types.Func)
	if !ok {
		return ValidatorRef{}, fmt.Errorf("validator %q is not a function of package %s", name, pkg.Name)
	}

	sig := fn.Signature()
	if sig.Recv() != nil || sig.Variadic() || sig.TypeParams().Len() > 0 || sig.Params().Len() != 1 {
		return ValidatorRef{}, fmt.Errorf("validator %s must take exactly one argument", name)
	}

	in := sig.Params().At(0).Type()
	results := sig.Results()

	switch {
	case results.Len() == 1 && types.Identical(results.At(0).Type(), errorType):
		return ValidatorRef{Func: name, Adapter: AdapterCheck}, nil

	case results.Len() == 2 && types.Identical(results.At(1).Type(), errorType) &&
		types.Identical(results.At(0).Type(), in):
		if iface, ok := in.Underlying().(*types.Interface); ok && iface.Empty() {
			return ValidatorRef{Func: name, Adapter: AdapterNone}, nil
		}

		return ValidatorRef{Func: name, Adapter: AdapterFunc}, nil
	}

	return ValidatorRef{}, fmt.Errorf("validator %s has signature %s, want func(T) (T, error) or func(T) error",
		name, strings.TrimPrefix(sig.String(), "func"))
}

func suggestFunc(pkg *packages.Package, name string) []string {
	var funcs []string

	scope := pkg.Types.Scope()
	for _, n := range scope.Names() {
		if _, ok := scope.Lookup(n).(*types.Func); ok {
			funcs = append(funcs, n)
		}
	}

	if s, ok := match.Suggest(name, funcs); ok {
		return []string{s}
	}

	return nil
}
