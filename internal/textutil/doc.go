// Package textutil provides text processing helpers shared across the
// pipeline, primarily filename sanitization for transcript artifacts and
// display truncation for table output.
package textutil
