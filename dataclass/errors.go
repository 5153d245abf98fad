package dataclass

import (
	"fmt"
	"strings"

	"datakit/internal/common"
	"datakit/internal/diagnostic"
	"datakit/internal/match"
)

// ValidationError is returned by validators to reject a value. Its message is
// the only diagnostic payload. Field is set when the error is produced by
// Construct itself (for example a nested field given a non-mapping value).
type ValidationError struct {
	Field   string
	Message string
}

// Invalid returns a ValidationError with a formatted message.
func Invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MissingRequiredFieldsError reports every required field that was not
// supplied, in declaration order.
type MissingRequiredFieldsError struct {
	Class  string
	Fields []string
}

func (e *MissingRequiredFieldsError) Error() string {
	noun := "field"
	if common.IsMultiple(e.Fields) {
		noun = "fields"
	}

	return fmt.Sprintf("missing required %s: %s", noun, strings.Join(e.Fields, ", "))
}

// UnknownFieldError reports a supplied field the class does not declare.
type UnknownFieldError struct {
	Class      string
	Field      string
	Suggestion string
}

func newUnknownFieldError(def *Definition, name string) *UnknownFieldError {
	suggestion, _ := match.Suggest(name, def.Names())

	return &UnknownFieldError{Class: def.Name(), Field: name, Suggestion: suggestion}
}

func (e *UnknownFieldError) Error() string {
	msg := fmt.Sprintf("unknown field %q for %s", e.Field, e.Class)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}

	return msg
}

// DefinitionError reports problems found while resolving a class declaration.
type DefinitionError struct {
	Class    string
	Problems []string
}

func newDefinitionError(class string, diags *diagnostic.Diagnostics) *DefinitionError {
	return &DefinitionError{Class: class, Problems: diags.ErrorMessages()}
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("invalid data class %s: %s", e.Class, strings.Join(e.Problems, "; "))
}
