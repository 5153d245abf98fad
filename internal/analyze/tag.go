package analyze

import (
	"fmt"
	"reflect"
	"strings"

	"datakit/internal/match"
)

// TagKey is the struct tag key that marks data class fields.
const TagKey = "datakit"

// fieldTag is a parsed datakit struct tag.
//
//	Name     string `datakit:"name,optional,validate=titleName|trimSpace"`
type fieldTag struct {
	Name       string
	Optional   bool
	Validators []string
}

// parseTag parses the datakit tag of a field. ok is false when the field
// carries no datakit tag or is excluded with "-".
func parseTag(tag reflect.StructTag, goName string) (fieldTag, bool, error) {
	raw, ok := tag.Lookup(TagKey)
	if !ok || raw == "-" {
		return fieldTag{}, false, nil
	}

	parts := strings.Split(raw, ",")

	ft := fieldTag{Name: strings.TrimSpace(parts[0])}

	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)

		switch {
		case opt == "":
		case opt == "optional":
			ft.Optional = true
		case strings.HasPrefix(opt, "validate="):
			for _, fn := range strings.Split(strings.TrimPrefix(opt, "validate="), "|") {
				if fn = strings.TrimSpace(fn); fn == "" {
					return fieldTag{}, false, fmt.Errorf("empty validator name in tag %q", raw)
				}

				ft.Validators = append(ft.Validators, fn)
			}
		default:
			return fieldTag{}, false, fmt.Errorf("unknown tag option %q", opt)
		}
	}

	if ft.Name == "" {
		ft.Name = defaultName(tag, goName)
	}

	return ft, true, nil
}

// defaultName returns the JSON tag name if present, otherwise the snake_case
// form of the Go field name.
func defaultName(tag reflect.StructTag, goName string) string {
	if name := jsonName(tag); name != "" {
		return name
	}

	return strings.Join(match.Tokens(goName), "_")
}

// jsonName returns the name part of the json tag, or "" when there is none.
func jsonName(tag reflect.StructTag) string {
	name, _, _ := strings.Cut(tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}
