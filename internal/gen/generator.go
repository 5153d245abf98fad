package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"path"
	"slices"
	"strings"
	"text/template"

	"datakit/internal/analyze"
	"datakit/internal/common"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// Filename is the name of the file written into each package.
	Filename string
	// DataclassImport is the import path of the dataclass package.
	DataclassImport string
	// ParseHelpers enables Parse<Type> functions next to the class declarations.
	ParseHelpers bool
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Filename:         "zz_generated.datakit.go",
		DataclassImport:  "datakit/dataclass",
		ParseHelpers:     true,
		GenerateComments: true,
	}
}

// Generator renders the data class declarations of a class graph.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the directory of the package the file belongs to.
	Dir string
	// PkgPath is the import path of that package.
	PkgPath string
	// Filename is the name of the file (e.g., "zz_generated.datakit.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate renders one file per package that declares data classes.
// Packages are visited in import path order.
func (g *Generator) Generate(graph *analyze.ClassGraph) ([]GeneratedFile, error) {
	var files []GeneratedFile

	for _, pkg := range graph.SortedPackages() {
		if len(pkg.Classes) == 0 {
			continue
		}

		file, err := g.generatePackage(graph, pkg)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", pkg.Path, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

func (g *Generator) generatePackage(graph *analyze.ClassGraph, pkg *analyze.PackageInfo) (*GeneratedFile, error) {
	data, err := g.buildTemplateData(graph, pkg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := classesTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		_ = writeDebugUnformatted(pkg.Dir, g.config.Filename, buf.Bytes())

		return nil, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Dir:      pkg.Dir,
		PkgPath:  pkg.Path,
		Filename: g.config.Filename,
		Content:  formatted,
	}, nil
}

// templateData holds all data needed for the classes template.
type templateData struct {
	PackageName      string
	Import           string
	Pkg              string
	Classes          []classData
	ParseHelpers     bool
	GenerateComments bool
}

// classData describes one class declaration.
type classData struct {
	Name   string
	Var    string
	Fields []fieldData
}

// fieldData describes one dataclass.Field call.
type fieldData struct {
	Name    string
	Options []string
}

func (g *Generator) buildTemplateData(graph *analyze.ClassGraph, pkg *analyze.PackageInfo) (*templateData, error) {
	classes := graph.PackageClasses(pkg.Path)

	order, err := declarationOrder(classes)
	if err != nil {
		return nil, err
	}

	data := &templateData{
		PackageName:      pkg.Name,
		Import:           g.config.DataclassImport,
		Pkg:              path.Base(g.config.DataclassImport),
		ParseHelpers:     g.config.ParseHelpers,
		GenerateComments: g.config.GenerateComments,
	}

	for _, i := range order {
		c := classes[i]

		cd := classData{Name: c.ID.Name, Var: classVar(c.ID)}
		for j := range c.Fields {
			f := &c.Fields[j]
			if f.IsNested() && f.Nested.PkgPath != pkg.Path {
				return nil, fmt.Errorf("field %s.%s: nested class %s is declared in another package",
					c.ID.Name, f.GoName, f.Nested)
			}

			cd.Fields = append(cd.Fields, fieldData{Name: f.Name, Options: g.fieldOptions(f, data.Pkg)})
		}

		data.Classes = append(data.Classes, cd)
	}

	return data, nil
}

// declarationOrder sorts classes so that nested classes come first.
func declarationOrder(classes []*analyze.ClassInfo) ([]int, error) {
	index := make(map[analyze.TypeID]int, len(classes))
	for i, c := range classes {
		index[c.ID] = i
	}

	order, err := common.TopoSort(len(classes), func(i int) []int {
		var deps []int

		for _, id := range classes[i].Nested() {
			if d, ok := index[id]; ok {
				deps = append(deps, d)
			}
		}

		return deps
	})
	if errors.Is(err, common.ErrCycle) {
		for i, c := range classes {
			if !slices.Contains(order, i) {
				return nil, fmt.Errorf("nesting cycle detected at class %s", c.ID.Name)
			}
		}
	}

	return order, err
}

// fieldOptions renders the options of a field in a fixed order: shape,
// default, type hint, validators.
func (g *Generator) fieldOptions(f *analyze.FieldInfo, pkg string) []string {
	var opts []string

	switch {
	case f.IsNested() && f.Array:
		opts = append(opts, fmt.Sprintf("%s.ArrayOf(%s)", pkg, classVar(*f.Nested)))
	case f.IsNested():
		opts = append(opts, fmt.Sprintf("%s.Of(%s)", pkg, classVar(*f.Nested)))
	case f.Array:
		opts = append(opts, pkg+".Array()")
	}

	if f.Optional {
		// Optional lists default to empty rather than null.
		if f.Array {
			opts = append(opts, pkg+".Default([]any{})")
		} else {
			opts = append(opts, pkg+".Optional()")
		}
	}

	if !f.IsNested() && f.JSONType != "" {
		opts = append(opts, fmt.Sprintf("%s.Typed(%q)", pkg, f.JSONType))
	}

	if len(f.Validators) > 0 {
		vs := make([]string, 0, len(f.Validators))
		for _, v := range f.Validators {
			vs = append(vs, validatorExpr(v, pkg))
		}

		opts = append(opts, fmt.Sprintf("%s.Validate(%s)", pkg, strings.Join(vs, ", ")))
	}

	return opts
}

func validatorExpr(v analyze.ValidatorRef, pkg string) string {
	switch v.Adapter {
	case analyze.AdapterFunc:
		return fmt.Sprintf("%s.ValidatorFunc(%s)", pkg, v.Func)
	case analyze.AdapterCheck:
		return fmt.Sprintf("%s.Check(%s)", pkg, v.Func)
	default:
		return v.Func
	}
}

func classVar(id analyze.TypeID) string {
	return id.Name + "Class"
}

var classesTemplate = template.Must(
	template.New("classes").
		Parse(`// Code generated by datakit-gen. DO NOT EDIT.

package {{.PackageName}}

import "{{.Import}}"

{{range .Classes}}
{{if $.GenerateComments}}// {{.Var}} declares the {{.Name}} data class.
{{end}}var {{.Var}} = {{$.Pkg}}.Define({{printf "%q" .Name}},
{{range .Fields}}	{{$.Pkg}}.Field({{printf "%q" .Name}}{{range .Options}}, {{.}}{{end}}),
{{end}})
{{end}}
{{if .ParseHelpers}}{{range .Classes}}
{{if $.GenerateComments}}// Parse{{.Name}} constructs {{.Name}} from JSON through {{.Var}} and decodes the
// validated instance.
{{end}}func Parse{{.Name}}(data []byte) (*{{.Name}}, error) {
	inst, err := {{$.Pkg}}.FromJSON({{.Var}}, data)
	if err != nil {
		return nil, err
	}

	var v {{.Name}}
	if err := inst.Decode(&v); err != nil {
		return nil, err
	}

	return &v, nil
}
{{end}}{{end}}`))
