//go:generate go tool stringer -type=Adapter -trimprefix=Adapter

package analyze

import (
	"cmp"
	"slices"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "datakit/examples/profile"
	Name    string // e.g., "User"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Adapter tells how a validator function is turned into a dataclass.Validator.
type Adapter int

const (
	AdapterNone  Adapter = iota // func(any) (any, error), used as is
	AdapterFunc                 // func(T) (T, error), wrapped with dataclass.ValidatorFunc
	AdapterCheck                // func(T) error, wrapped with dataclass.Check
)

// ValidatorRef names a package-level validator function.
type ValidatorRef struct {
	Func    string
	Adapter Adapter
}

// ClassInfo describes a struct that declares a data class.
type ClassInfo struct {
	ID     TypeID
	Fields []FieldInfo
	Pos    int // declaration order within the package
}

// Nested returns the classes this class nests, without duplicates, in field order.
func (c *ClassInfo) Nested() []TypeID {
	var out []TypeID

	for _, f := range c.Fields {
		if f.Nested == nil || slices.Contains(out, *f.Nested) {
			continue
		}

		out = append(out, *f.Nested)
	}

	return out
}

// FieldInfo describes one tagged struct field.
type FieldInfo struct {
	GoName     string  // Go field name
	Name       string  // data class field name
	Optional   bool    // declared with the optional tag option
	Array      bool    // slice field
	Nested     *TypeID // nested class, nil for plain fields
	JSONType   string  // JSON type hint for plain fields, empty when unknown
	Validators []ValidatorRef
	Index      int // field index in the struct
}

// IsNested returns true if the field holds nested instances.
func (f *FieldInfo) IsNested() bool {
	return f.Nested != nil
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path    string   // Import path
	Name    string   // Package name
	Dir     string   // Directory of the package sources
	Classes []TypeID // Data classes defined in this package
}

// ClassGraph holds all data classes found in the loaded packages.
type ClassGraph struct {
	// Classes maps TypeID to ClassInfo for every data class.
	Classes map[TypeID]*ClassInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewClassGraph creates a new empty ClassGraph.
func NewClassGraph() *ClassGraph {
	return &ClassGraph{
		Classes:  make(map[TypeID]*ClassInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetClass returns the ClassInfo for a given TypeID, or nil if not found.
func (g *ClassGraph) GetClass(id TypeID) *ClassInfo {
	return g.Classes[id]
}

// PackageClasses returns the classes of a package in declaration order.
func (g *ClassGraph) PackageClasses(pkgPath string) []*ClassInfo {
	pkg, ok := g.Packages[pkgPath]
	if !ok {
		return nil
	}

	out := make([]*ClassInfo, 0, len(pkg.Classes))
	for _, id := range pkg.Classes {
		out = append(out, g.Classes[id])
	}

	slices.SortFunc(out, func(a, b *ClassInfo) int { return cmp.Compare(a.Pos, b.Pos) })

	return out
}

// SortedPackages returns the loaded packages ordered by import path.
func (g *ClassGraph) SortedPackages() []*PackageInfo {
	out := make([]*PackageInfo, 0, len(g.Packages))
	for _, p := range g.Packages {
		out = append(out, p)
	}

	slices.SortFunc(out, func(a, b *PackageInfo) int { return cmp.Compare(a.Path, b.Path) })

	return out
}
