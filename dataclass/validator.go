package dataclass

import (
	"fmt"
	"reflect"
)

// Validator checks a raw field value and returns the value to keep, which may
// be a transformed replacement. A non-nil error aborts construction and is
// returned to the caller unchanged.
type Validator func(value any) (any, error)

// ValidatorFunc adapts a typed transform to a Validator. A value that is not a
// T fails with a ValidationError; no conversion is attempted, so numbers
// decoded from JSON must be handled as float64.
func ValidatorFunc[T any](fn func(T) (T, error)) Validator {
	return func(value any) (any, error) {
		v, ok := value.(T)
		if !ok {
			return nil, typeMismatch[T](value)
		}

		return fn(v)
	}
}

// Check adapts a typed predicate to a Validator that keeps the value as is.
func Check[T any](fn func(T) error) Validator {
	return func(value any) (any, error) {
		v, ok := value.(T)
		if !ok {
			return nil, typeMismatch[T](value)
		}

		if err := fn(v); err != nil {
			return nil, err
		}

		return value, nil
	}
}

func typeMismatch[T any](value any) *ValidationError {
	return Invalid("expected a value of type %s, got %s", reflect.TypeFor[T](), describeType(value))
}

func describeType(value any) string {
	if value == nil {
		return "null"
	}

	return fmt.Sprintf("%T", value)
}
