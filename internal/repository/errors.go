package repository

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
)

var (
	// ErrInvalidArgument marks a blank or unresolvable slug or group reference.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks an update or rename against a slug that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a delete blocked by live children or a uniqueness violation.
	ErrConflict = errors.New("conflict")
)

// sqlite constraint violations (duplicate slug, case-insensitive duplicate
// label) surface to callers as ErrConflict.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == 19 { // SQLITE_CONSTRAINT
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
