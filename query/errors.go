package query

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is returned when query text matches no grammar template or
	// an object query has the wrong shape.
	ErrSyntax = errors.New("syntax error")

	// ErrSemantic is returned when a structurally valid query breaks a
	// cross-field rule (unknown column, type mismatch, ungrouped column...).
	ErrSemantic = errors.New("semantic error")

	// ErrMissingColumn is returned by evaluation when a row lacks a column the
	// query references. Validated queries over conforming rows never hit it.
	ErrMissingColumn = errors.New("column not found")
)

// Syntaxf returns an error wrapping ErrSyntax
func Syntaxf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}

// Semanticf returns an error wrapping ErrSemantic
func Semanticf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSemantic, fmt.Sprintf(format, args...))
}
