package validate

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"datakit/dataclass"
)

// Factory builds a validator from the arguments and message written in a
// declaration file. An empty message selects the validator's own wording.
type Factory func(args []string, message string) (dataclass.Validator, error)

// Catalog maps validator names to factories.
type Catalog map[string]Factory

// Builtins returns a fresh catalog of the validators in this package.
func Builtins() Catalog {
	return Catalog{
		"title_case": noArgs("title_case", TitleCase),
		"trim":       noArgs("trim", Trim),
		"lower":      noArgs("lower", Lower),
		"not_empty": func(args []string, message string) (dataclass.Validator, error) {
			if err := arity("not_empty", args, 0); err != nil {
				return nil, err
			}

			return NotEmpty(message), nil
		},
		"contains": func(args []string, message string) (dataclass.Validator, error) {
			if err := arity("contains", args, 1); err != nil {
				return nil, err
			}

			return Contains(args[0], message), nil
		},
		"has_prefix": func(args []string, message string) (dataclass.Validator, error) {
			if err := arity("has_prefix", args, 1); err != nil {
				return nil, err
			}

			return HasPrefix(args[0], message), nil
		},
		"min_length": lengthFactory("min_length", MinLength),
		"max_length": lengthFactory("max_length", MaxLength),
		"pattern": func(args []string, message string) (dataclass.Validator, error) {
			if err := arity("pattern", args, 1); err != nil {
				return nil, err
			}

			return Pattern(args[0], message)
		},
		"one_of": func(args []string, _ string) (dataclass.Validator, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("validator one_of needs at least one option")
			}

			return OneOf(args...), nil
		},
		"range": func(args []string, _ string) (dataclass.Validator, error) {
			if err := arity("range", args, 2); err != nil {
				return nil, err
			}

			lo, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return nil, fmt.Errorf("validator range: invalid minimum %q: %w", args[0], err)
			}

			hi, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return nil, fmt.Errorf("validator range: invalid maximum %q: %w", args[1], err)
			}

			if lo > hi {
				return nil, fmt.Errorf("validator range: minimum %g exceeds maximum %g", lo, hi)
			}

			return Range(lo, hi), nil
		},
	}
}

// Build instantiates the named validator.
func (c Catalog) Build(name string, args []string, message string) (dataclass.Validator, error) {
	factory, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("unknown validator %q", name)
	}

	return factory(args, message)
}

// Names returns the catalog's validator names, sorted.
func (c Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c))
}

func noArgs(name string, fn func() dataclass.Validator) Factory {
	return func(args []string, _ string) (dataclass.Validator, error) {
		if err := arity(name, args, 0); err != nil {
			return nil, err
		}

		return fn(), nil
	}
}

func lengthFactory(name string, fn func(int, string) dataclass.Validator) Factory {
	return func(args []string, message string) (dataclass.Validator, error) {
		if err := arity(name, args, 1); err != nil {
			return nil, err
		}

		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("validator %s: invalid length %q", name, args[0])
		}

		return fn(n, message), nil
	}
}

func arity(name string, args []string, want int) error {
	if len(args) != want {
		return fmt.Errorf("validator %s takes %d argument(s), got %d", name, want, len(args))
	}

	return nil
}
