package sqldb

import (
	"fmt"
	"regexp"
)

var IdentifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// savepoint names are never qualified
var simpleIdentifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidIdentifier reports an error wrapping ErrInvalidIdentifier if name is not
// a plain unquoted SQL identifier (letters, digits, underscores; max 63 bytes).
func ValidIdentifier(name string) error {
	if !simpleIdentifierRegexp.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// ValidQualifiedIdentifier accepts dotted names like "schema.table".
func ValidQualifiedIdentifier(name string) error {
	if !IdentifierRegexp.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}
