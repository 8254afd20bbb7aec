package reconcile

import (
	"encoding/csv"
	"io"

	"data-curator/core/rowset"
)

// Options controls a single reconciliation.
type Options struct {
	// AllowDelete enables delete extraction. Call sites that maintain
	// append-only tables (audit trails) leave it off.
	AllowDelete bool
}

// BatchRow is one write operation: full rendered values in the batch's
// column order. Identity is nil for appends and set for updates.
type BatchRow struct {
	Identity *rowset.Identity
	Values   []string
}

// Batch is the single ordered artifact of a reconciliation: appended rows
// first, then updated rows, plus the identity pairs to delete. Columns is
// the store's original column order.
type Batch struct {
	Columns []string
	Rows    []BatchRow
	Deletes []rowset.Identity
}

// Empty reports whether the batch is a no-op.
func (b *Batch) Empty() bool {
	return len(b.Rows) == 0 && len(b.Deletes) == 0
}

// Appends returns the number of rows without identity.
func (b *Batch) Appends() int {
	n := 0
	for _, r := range b.Rows {
		if r.Identity == nil {
			n++
		}
	}
	return n
}

// Updates returns the number of rows carrying identity.
func (b *Batch) Updates() int {
	return len(b.Rows) - b.Appends()
}

// WriteCSV serializes the write rows for auditing, in the store's upload
// layout: ROW_ID and ROW_VERSION first (blank for appends), then the data
// columns. The header is always written so an empty batch still yields a
// valid file.
func (b *Batch) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{"ROW_ID", "ROW_VERSION"}, b.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range b.Rows {
		rec := make([]string, 0, len(header))
		if r.Identity != nil {
			rec = append(rec, r.Identity.ID, r.Identity.Version)
		} else {
			rec = append(rec, "", "")
		}
		rec = append(rec, r.Values...)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
