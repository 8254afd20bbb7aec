package submission

import (
	"context"
	"fmt"
	"strings"

	"data-curator/core/reconcile"
	"data-curator/core/rowset"
)

// InvalidReasonsTable tracks the latest validation failure per center and
// file, so operators can pull a center's outstanding errors.
const InvalidReasonsTable = "invalid_reasons"

var invalidReasonsColumns = []string{"CENTER", "FILE_NAME", "ERRORS"}
var invalidReasonsKeys = []string{"CENTER", "FILE_NAME"}

// recordInvalidReason upserts the error report for one center file.
func (s *Service) recordInvalidReason(ctx context.Context, center, filename, report string) error {
	entry := rowset.MustNewTable(invalidReasonsColumns...)
	if err := entry.AppendRow(rowset.String(center), rowset.String(filename), rowset.String(report)); err != nil {
		return err
	}
	return s.reconcileInvalidReasons(ctx, center, filename, entry)
}

// clearInvalidReason retires a stale error entry once the file validates.
func (s *Service) clearInvalidReason(ctx context.Context, center, filename string) error {
	empty := rowset.MustNewTable(invalidReasonsColumns...)
	return s.reconcileInvalidReasons(ctx, center, filename, empty)
}

// reconcileInvalidReasons applies the new entry set against the store
// rows for exactly this center and file, with deletes enabled so an empty
// entry set retires the row.
func (s *Service) reconcileInvalidReasons(ctx context.Context, center, filename string, entries *rowset.Table) error {
	snapshot, err := s.store.Snapshot(ctx, InvalidReasonsTable)
	if err != nil {
		return err
	}
	scoped, _, err := filterRows(snapshot, "CENTER", center)
	if err != nil {
		return err
	}
	scoped, _, err = filterRows(scoped, "FILE_NAME", filename)
	if err != nil {
		return err
	}

	batch, err := s.engine.Reconcile(scoped, entries, invalidReasonsKeys, reconcile.Options{AllowDelete: true})
	if err != nil {
		return fmt.Errorf("failed to reconcile %s: %w", InvalidReasonsTable, err)
	}
	return s.store.Apply(ctx, InvalidReasonsTable, batch)
}

// CenterErrorReport combines a center's outstanding file errors into one
// printable report, "No errors!" when the center is clean.
func (s *Service) CenterErrorReport(ctx context.Context, center string) (string, error) {
	center = strings.ToUpper(center)
	if !s.server.IsKnownCenter(center) {
		return "", fmt.Errorf("%w: %s", ErrUnknownCenter, center)
	}
	snapshot, err := s.store.Snapshot(ctx, InvalidReasonsTable)
	if err != nil {
		return "", err
	}
	scoped, _, err := filterRows(snapshot, "CENTER", center)
	if err != nil {
		return "", err
	}
	if scoped.Len() == 0 {
		return "No errors!", nil
	}

	var b strings.Builder
	for i := 0; i < scoped.Len(); i++ {
		name, _ := scoped.Value(i, "FILE_NAME")
		errs, _ := scoped.Value(i, "ERRORS")
		fmt.Fprintf(&b, "\t%s:\n\n%s\n\n", name.Render(), errs.Render())
	}
	return b.String(), nil
}
