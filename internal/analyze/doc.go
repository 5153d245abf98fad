// Package analyze provides package loading and data class extraction.
//
// It uses golang.org/x/tools/go/packages with go/types to find structs whose
// fields carry a datakit tag:
//
//	Name   string  `datakit:"name,validate=titleName" json:"name"`
//	Avatar *Avatar `datakit:"avatar,optional" json:"avatar"`
//
// Key types:
//   - TypeID: package import path + type name
//   - ClassInfo: a tagged struct and its fields in struct order
//   - FieldInfo: field name, shape (plain, array, nested), JSON type and validators
package analyze
