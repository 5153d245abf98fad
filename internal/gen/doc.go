// Package gen renders Go source declaring the data classes found by the
// analyze package.
//
// Generation uses text/template + go/format. For every package with tagged
// structs it writes one file holding:
//   - a <Type>Class variable built with dataclass.Define, nested classes first
//   - a Parse<Type> helper that constructs from JSON and decodes into the struct
package gen
