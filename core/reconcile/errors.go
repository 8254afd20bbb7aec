package reconcile

import (
	"fmt"
	"strings"
)

// ColumnMismatchError reports that the new dataset lacks columns present
// in the store. It is raised before any diffing work begins.
type ColumnMismatchError struct {
	Missing []string
}

func (e *ColumnMismatchError) Error() string {
	return fmt.Sprintf("new dataset is missing store columns: %s", strings.Join(e.Missing, ", "))
}

// AlignmentError reports a broken internal invariant between matched rows
// and store identity: a matched or deleted store row carries no identity,
// or key alignment between the matched subsets failed. It indicates a
// defect upstream (a store snapshot without identity, or a key-matching
// bug) and must propagate uncaught.
type AlignmentError struct {
	Reason string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("row identity alignment failed: %s", e.Reason)
}
