package dataclass_test

import (
	"errors"
	"strings"

	"datakit/dataclass"
	"datakit/validate"
)

var (
	avatarClass = dataclass.Define("Avatar",
		dataclass.Field("url",
			dataclass.Typed("string"),
			dataclass.Describe("Public HTTPS address of the image"),
			dataclass.Validate(validate.HasPrefix("https://", "Url must start with 'https://'.")),
		),
	)

	linkClass = dataclass.Define("Link",
		dataclass.Field("url", dataclass.Typed("string")),
		dataclass.Field("description", dataclass.Typed("string"), dataclass.Optional()),
	)

	userClass = dataclass.Define("User",
		dataclass.Field("name", dataclass.Typed("string")),
		dataclass.Field("username", dataclass.Typed("string")),
		dataclass.Field("email", dataclass.Typed("string")),
		dataclass.Field("avatar", dataclass.Of(avatarClass), dataclass.Optional()),
		dataclass.Field("links", dataclass.ArrayOf(linkClass), dataclass.Default([]any{})),

		dataclass.Validates("name", validate.TitleCase()),
		dataclass.Validates("email", validate.Contains("@", "Email must contain an '@'.")),
	)
)

// errBadHost is returned unchanged through nested construction.
var errBadHost = errors.New("host is not allowed")

var (
	hostClass = dataclass.Define("Host",
		dataclass.Field("host", dataclass.Validate(dataclass.Check(func(s string) error {
			if strings.HasSuffix(s, ".invalid") {
				return errBadHost
			}

			return nil
		}))),
	)

	serverClass = dataclass.Define("Server",
		dataclass.Field("primary", dataclass.Of(hostClass)),
		dataclass.Field("replicas", dataclass.ArrayOf(hostClass), dataclass.Optional()),
	)
)

func frederic(kv ...any) *dataclass.Fields {
	base := dataclass.NewFields(
		"name", "frederic",
		"username", "freost",
		"email", "freost@example.org",
	)

	for i := 0; i+1 < len(kv); i += 2 {
		base.Set(kv[i].(string), kv[i+1])
	}

	return base
}

func keysOf(f *dataclass.Fields) []string {
	keys := make([]string, 0, f.Len())
	for pair := f.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	return keys
}
