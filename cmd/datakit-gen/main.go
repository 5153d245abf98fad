// Command datakit-gen generates data class declarations from datakit struct
// tags and checks YAML declaration files.
//
//	datakit-gen [packages]           write zz_generated.datakit.go into each package
//	datakit-gen check <file.yaml>    validate a declaration file
//	datakit-gen schema <file.yaml> <class>
//	                                 print the JSON Schema of a declared class
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
