// Package frontmatter implements the vault text round-trip engine: a
// hand-rolled parser and serializer for the YAML-like metadata block at the
// top of journal markdown files.
//
// The format is deliberately not parsed with a YAML library. Vault files were
// written by hand and by earlier versions of the app; a general YAML parser
// would silently normalize quoting and ordering and break byte-compatibility
// on re-save. Only the field shapes this vault actually uses are supported:
// scalars, inline [a, b] arrays, and multi-line "- item" arrays, one level
// deep.
package frontmatter

import (
	"fmt"

	"github.com/craigeley/journal-companion-sub002/internal/records"
)

// ParseErrorKind classifies per-file parse failures.
type ParseErrorKind int

const (
	// MalformedDocument means the ---\n delimiter structure is absent or
	// broken (fewer than three segments).
	MalformedDocument ParseErrorKind = iota
	// MissingRequiredField means a required field (date_created on entries)
	// is absent or unparseable.
	MissingRequiredField
)

// ParseError reports why a single file failed to parse. Failures are always
// local to one file; bulk loaders log and skip rather than abort.
type ParseError struct {
	Kind  ParseErrorKind
	Field string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case MissingRequiredField:
		return fmt.Sprintf("frontmatter: missing required field %q", e.Field)
	default:
		return "frontmatter: malformed document"
	}
}

// fieldKind classifies a recognized frontmatter key.
type fieldKind int

const (
	scalarField fieldKind = iota
	arrayField
)

// fieldSet is the recognized-key schema for one record type.
type fieldSet map[string]fieldKind

// Document is the intermediate result of parsing one file's frontmatter
// block. Recognized fields land in Scalars/Arrays as raw strings; everything
// else is preserved in Unknown with best-effort typing and first-appearance
// order in UnknownOrder. UnknownOrder is always a permutation of Unknown's
// key set.
type Document struct {
	Scalars      map[string]string
	Arrays       map[string][]string
	Unknown      map[string]records.Scalar
	UnknownOrder []string
	Body         string
}
