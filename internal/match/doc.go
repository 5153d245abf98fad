// Package match provides name normalization, Levenshtein distance, and
// "did you mean" ranking for misspelled field and class names.
//
// Key functions:
//   - Normalize: folds names for fuzzy comparison
//   - Levenshtein: computes edit distance between strings
//   - Suggest: picks the closest known name
package match
