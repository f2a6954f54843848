// Package preprocess turns raw source code into the canonical text that is
// embedded, cached and compared.
//
// Normalize is a pure function of its input: comments are stripped, whitespace
// collapsed, text lowercased and punctuation removed according to the Profile.
// The Extended profile additionally rewrites declarations, string literals and
// numeric literals so that cosmetic edits do not change the result.
//
// Output is bounded by a maximum length (512 by default). Longer text is cut
// on a word boundary and marked with a trailing "...".
package preprocess
