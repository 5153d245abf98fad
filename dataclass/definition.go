package dataclass

//go:generate go tool stringer -type=FieldKind -trimprefix=Kind

// FieldKind classifies how a field's raw value is turned into its final value.
type FieldKind int

const (
	KindPlain       FieldKind = iota // value folded through validators
	KindNested                       // single nested instance
	KindNestedArray                  // array of nested instances
)

// FieldDescriptor is the resolved metadata of one field. Descriptors are
// shared by every instance of the class and must be treated as read-only.
type FieldDescriptor struct {
	Name        string
	Index       int // declaration position
	Required    bool
	IsArray     bool
	Nested      *Class
	Validators  []Validator
	Default     any
	Description string
	JSONType    string
}

// Kind returns the field classification.
func (f *FieldDescriptor) Kind() FieldKind {
	switch {
	case f.Nested != nil && f.IsArray:
		return KindNestedArray
	case f.Nested != nil:
		return KindNested
	default:
		return KindPlain
	}
}

// Definition is the resolved, immutable description of a data class.
type Definition struct {
	class    *Class
	fields   []*FieldDescriptor
	byName   map[string]*FieldDescriptor
	required []string
}

// Class returns the class the definition was resolved from.
func (d *Definition) Class() *Class {
	return d.class
}

// Name returns the class name.
func (d *Definition) Name() string {
	return d.class.name
}

// Fields returns the field descriptors in declaration order.
func (d *Definition) Fields() []*FieldDescriptor {
	out := make([]*FieldDescriptor, len(d.fields))
	copy(out, d.fields)

	return out
}

// Field returns the descriptor of the named field.
func (d *Definition) Field(name string) (*FieldDescriptor, bool) {
	f, ok := d.byName[name]
	return f, ok
}

// Names returns the field names in declaration order.
func (d *Definition) Names() []string {
	names := make([]string, len(d.fields))
	for i, f := range d.fields {
		names[i] = f.Name
	}

	return names
}

// RequiredFields returns the names of the required fields in declaration order.
func (d *Definition) RequiredFields() []string {
	out := make([]string, len(d.required))
	copy(out, d.required)

	return out
}
