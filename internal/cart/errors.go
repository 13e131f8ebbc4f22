package cart

import (
	"errors"
	"fmt"
)

// ErrPersist marks a failed read or write of the durable cart copy.
// The in-memory cart stays authoritative when it is returned.
var ErrPersist = errors.New("cart persist failed")

type PersistError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("cart %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistError) Unwrap() []error {
	return []error{ErrPersist, e.Err}
}

// IsPersistWarning reports whether err is only a persistence warning.
func IsPersistWarning(err error) bool {
	return errors.Is(err, ErrPersist)
}
