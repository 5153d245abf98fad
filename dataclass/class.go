package dataclass

// Class is a declared data class. Its pointer identity is the key under which
// a Registry caches the resolved Definition, so a Class must be declared once
// (typically as a package-level variable) and reused.
type Class struct {
	name    string
	fields  []FieldDecl
	targets []validatorDecl
}

// Member is a part of a class declaration: a field or a class-level validator.
type Member interface {
	apply(c *Class)
}

// Define declares a data class with the given members. Fields keep the order
// in which they are declared.
func Define(name string, members ...Member) *Class {
	c := &Class{name: name}
	for _, m := range members {
		if m != nil {
			m.apply(c)
		}
	}

	return c
}

// Name returns the declared class name.
func (c *Class) Name() string {
	return c.name
}

// String returns the class name.
func (c *Class) String() string {
	return c.name
}

// FieldDecl is the declaration of a single public field.
type FieldDecl struct {
	name        string
	hasDefault  bool
	def         any
	array       bool
	nested      *Class
	nestedSet   bool
	validators  []Validator
	description string
	jsonType    string
}

func (f FieldDecl) apply(c *Class) {
	c.fields = append(c.fields, f)
}

// FieldOption configures a FieldDecl.
type FieldOption func(*FieldDecl)

// Field declares a public field. Without a Default option the field is required.
func Field(name string, opts ...FieldOption) FieldDecl {
	f := FieldDecl{name: name}
	for _, opt := range opts {
		opt(&f)
	}

	return f
}

// Default declares the value a field takes when it is not supplied.
// Declaring a default makes the field optional.
func Default(v any) FieldOption {
	return func(f *FieldDecl) {
		f.hasDefault = true
		f.def = v
	}
}

// Optional is shorthand for Default(nil).
func Optional() FieldOption {
	return Default(nil)
}

// Array declares the field as an array of plain values.
func Array() FieldOption {
	return func(f *FieldDecl) {
		f.array = true
	}
}

// Of declares the field as a single nested instance of c.
func Of(c *Class) FieldOption {
	return func(f *FieldDecl) {
		f.nested = c
		f.nestedSet = true
	}
}

// ArrayOf declares the field as an array whose elements are instances of c.
func ArrayOf(c *Class) FieldOption {
	return func(f *FieldDecl) {
		f.array = true
		f.nested = c
		f.nestedSet = true
	}
}

// Validate attaches validators to the field. They run in the given order,
// before any validator attached with Validates.
func Validate(vs ...Validator) FieldOption {
	return func(f *FieldDecl) {
		f.validators = append(f.validators, vs...)
	}
}

// Describe sets a human-readable description, exported in JSON Schema.
func Describe(text string) FieldOption {
	return func(f *FieldDecl) {
		f.description = text
	}
}

// Typed sets the JSON Schema type of a plain field (e.g. "string", "number").
// It is a documentation hint and is not enforced by Construct.
func Typed(jsonType string) FieldOption {
	return func(f *FieldDecl) {
		f.jsonType = jsonType
	}
}

type validatorDecl struct {
	field      string
	validators []Validator
}

func (v validatorDecl) apply(c *Class) {
	c.targets = append(c.targets, v)
}

// Validates attaches validators to the named field at class level. Validators
// declared this way run after the field's own validators, in member order.
// Naming a field the class does not declare is a declaration error.
func Validates(field string, vs ...Validator) Member {
	return validatorDecl{field: field, validators: vs}
}
