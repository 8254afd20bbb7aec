package rowset

import "fmt"

// InvalidInputError reports that an input to a set operation is not a
// usable row-set, or lacks a required column. It is fatal to the call
// that raised it and is never retried.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// InvalidKeyError reports that a named key column is absent from a table.
type InvalidKeyError struct {
	Column string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("key column %q does not exist in the table", e.Column)
}
