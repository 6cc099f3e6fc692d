// Package textops implements the text analysis commands of dFS: word counting,
// word sorting, word search and splitting a text by a list of separators.
//
// All operations work on the same tokenization: the text is split on whitespace,
// the characters in Punctuation are stripped from both ends of each token and the
// token is lowercased.
package textops
