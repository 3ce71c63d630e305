package union

import (
	"errors"
	"fmt"

	"github.com/metaphiz/acts-as-union/record"
	"github.com/metaphiz/acts-as-union/source"
)

// NotFoundError is the single user-visible failure mode of the union core:
// an identifier lookup whose unique-hit count did not match the unique
// count of requested identifiers.
//
// IDs holds the originally requested identifier list, not only the missing
// ones: the caller knows what it asked for, and enumerating the precise
// misses would require an extra bookkeeping pass the routing layer does not
// otherwise need.
type NotFoundError struct {
	IDs []record.ID
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("couldn't find all records with ids: %v", e.IDs)
}

// Is makes the aggregate error satisfy errors.Is(err, source.ErrNotFound),
// so a View used as a member of an outer View signals "not found" the way
// any other member does.
func (e *NotFoundError) Is(target error) bool {
	return target == source.ErrNotFound
}

// IsNotFound reports whether err is the aggregate NotFoundError.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
