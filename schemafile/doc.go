// Package schemafile loads data class declarations from YAML files.
//
// A declaration file lists classes and their fields; validators are named
// and looked up in a validate.Catalog:
//
//	version: "1"
//	classes:
//	  - name: Avatar
//	    fields:
//	      - name: url
//	        validators:
//	          - {name: has_prefix, args: ["https://"], message: "Url must start with 'https://'."}
//	  - name: User
//	    fields:
//	      - name: name
//	        validators: [title_case]
//	      - name: avatar
//	        of: Avatar
//	        optional: true
//
// Build declares the classes in nesting order, registers them by name and
// resolves them so declaration errors surface at load time.
package schemafile
