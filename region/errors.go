// Package region parses DS9/CIAO region file text into typed shape objects
// and converts shapes between coordinate reference frames.
package region

import (
	"errors"
	"fmt"
)

var (
	// ErrParse reports malformed input at the lexical or grammar level:
	// an unexpected character, an unmatched production, an unsupported
	// directive, or mismatched units inside a coordinate pair.
	ErrParse = errors.New("region: parse error")

	// ErrInconsistentArguments reports that a shape's argument schema
	// received too few, too many, or wrongly-typed coordinates.
	ErrInconsistentArguments = errors.New("region: inconsistent arguments")

	// ErrUnknownProperty reports access to a property that has neither a
	// stored value nor a documented default.
	ErrUnknownProperty = errors.New("region: unknown property")

	// ErrUnknownShape reports a shape name with no registered schema.
	ErrUnknownShape = errors.New("region: unknown shape")
)

func parseErrorf(pos int, format string, args ...any) error {
	return fmt.Errorf("%w: %s at position %d", ErrParse, fmt.Sprintf(format, args...), pos)
}

func inconsistentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInconsistentArguments, fmt.Sprintf(format, args...))
}
