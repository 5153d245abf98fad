// Package dataclass provides declarative, immutable data classes built from
// field mappings such as decoded JSON.
//
// A data class is declared once with Define and a list of fields:
//
//	var Avatar = dataclass.Define("Avatar",
//		dataclass.Field("url", dataclass.Validate(validate.HasPrefix("https://", "Url must start with 'https://'."))),
//	)
//
//	var User = dataclass.Define("User",
//		dataclass.Field("name", dataclass.Validate(validate.TitleCase())),
//		dataclass.Field("email"),
//		dataclass.Field("avatar", dataclass.Of(Avatar), dataclass.Optional()),
//		dataclass.Field("links", dataclass.ArrayOf(Link), dataclass.Default([]any{})),
//	)
//
// # Resolution
//
// The first time a class is used its declaration is resolved into a
// Definition: every field is classified as plain, nested or array-of-nested,
// validators are collected in declaration order and the required fields are
// indexed. A Registry resolves each class at most once and caches the result,
// including a failed resolution.
//
// # Construction
//
// Construct checks that every required field is present, then walks the
// supplied fields in their input order. Nested fields are built recursively
// from sub-mappings, plain fields are folded through their validators. Any
// error aborts the whole construction and is returned unchanged; no partial
// instance is ever returned.
//
// # Serialization
//
// Instances flatten back into declaration-ordered mappings (ToMapping,
// ToObject) and encode to JSON and YAML with the same key order. FromJSON and
// FromYAML decode while keeping the input key order and construct an instance.
package dataclass
