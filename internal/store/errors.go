package store

import "fmt"

// PersistenceError wraps a failure from the underlying database. Queries and
// saves surface it instead of raw driver errors; "no rows" is never an error,
// it is a nil result.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
