// Package diagnostic provides structured warnings and errors for data class
// declarations and schema files.
//
// Key capabilities:
//   - Error and warning collection with stable codes
//   - Class and field attribution
//   - "did you mean" suggestions for misspelled names
package diagnostic
