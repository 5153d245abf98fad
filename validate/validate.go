// Package validate provides reusable field validators for data classes and a
// catalog that builds them by name for declaration files.
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"datakit/dataclass"
)

// TitleCase replaces a string with its title-cased form: the first letter of
// every word upper case, the rest lower case.
func TitleCase() dataclass.Validator {
	return dataclass.ValidatorFunc(func(s string) (string, error) {
		// a Caser keeps state and is not safe for concurrent use
		return cases.Title(language.Und).String(s), nil
	})
}

// Trim removes leading and trailing white space.
func Trim() dataclass.Validator {
	return dataclass.ValidatorFunc(func(s string) (string, error) {
		return strings.TrimSpace(s), nil
	})
}

// Lower replaces a string with its lower-cased form.
func Lower() dataclass.Validator {
	return dataclass.ValidatorFunc(func(s string) (string, error) {
		return cases.Lower(language.Und).String(s), nil
	})
}

// NotEmpty rejects the empty string.
func NotEmpty(message string) dataclass.Validator {
	return dataclass.Check(func(s string) error {
		if s == "" {
			return reject(message, "value must not be empty")
		}

		return nil
	})
}

// Contains rejects strings that do not contain sub.
func Contains(sub, message string) dataclass.Validator {
	return dataclass.Check(func(s string) error {
		if !strings.Contains(s, sub) {
			return reject(message, "value must contain %q", sub)
		}

		return nil
	})
}

// HasPrefix rejects strings that do not start with prefix.
func HasPrefix(prefix, message string) dataclass.Validator {
	return dataclass.Check(func(s string) error {
		if !strings.HasPrefix(s, prefix) {
			return reject(message, "value must start with %q", prefix)
		}

		return nil
	})
}

// MinLength rejects strings shorter than n characters.
func MinLength(n int, message string) dataclass.Validator {
	return dataclass.Check(func(s string) error {
		if utf8.RuneCountInString(s) < n {
			return reject(message, "value is too short (minimum %d characters)", n)
		}

		return nil
	})
}

// MaxLength rejects strings longer than n characters.
func MaxLength(n int, message string) dataclass.Validator {
	return dataclass.Check(func(s string) error {
		if utf8.RuneCountInString(s) > n {
			return reject(message, "value is too long (maximum %d characters)", n)
		}

		return nil
	})
}

// Pattern rejects strings that do not match expr.
func Pattern(expr, message string) (dataclass.Validator, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}

	return dataclass.Check(func(s string) error {
		if !re.MatchString(s) {
			return reject(message, "value does not match %s", expr)
		}

		return nil
	}), nil
}

// MustPattern is like Pattern but panics on an invalid expression.
func MustPattern(expr, message string) dataclass.Validator {
	v, err := Pattern(expr, message)
	if err != nil {
		panic(err)
	}

	return v
}

// OneOf rejects strings that are not among options.
func OneOf(options ...string) dataclass.Validator {
	return dataclass.Check(func(s string) error {
		if !slices.Contains(options, s) {
			return dataclass.Invalid("value %q is not one of %s", s, strings.Join(options, ", "))
		}

		return nil
	})
}

// Range rejects numbers outside [lo, hi]. Values of any integer or floating
// point kind are accepted and kept as they are; any other type is rejected.
func Range(lo, hi float64) dataclass.Validator {
	return func(value any) (any, error) {
		n, ok := toFloat(value)
		if !ok {
			return nil, dataclass.Invalid("expected a number, got %T", value)
		}

		if n < lo {
			return nil, dataclass.Invalid("value %g is below minimum %g", n, lo)
		}

		if n > hi {
			return nil, dataclass.Invalid("value %g exceeds maximum %g", n, hi)
		}

		return value, nil
	}
}

// toFloat accepts every integer and floating point kind, named types included.
func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// reject uses message when set and the default wording otherwise.
func reject(message, format string, args ...any) *dataclass.ValidationError {
	if message != "" {
		return &dataclass.ValidationError{Message: message}
	}

	return dataclass.Invalid(format, args...)
}
