package dashboard

import (
	"context"
	"fmt"
	"sort"

	"data-curator/core/reconcile"
	"data-curator/core/rowset"

	"go.uber.org/zap"
)

const (
	// ClinicalTable is the source of all dashboard numbers.
	ClinicalTable = "clinical"
	// CountsTable holds per-center sample and patient counts.
	CountsTable = "db_counts"
	// CompletenessTable holds per-field clinical data completeness.
	CompletenessTable = "data_completeness"
)

// notCollected marks a clinical value a center explicitly did not gather;
// it counts as missing for completeness.
const notCollected = "Not Collected"

// completenessSkipColumns are identifier and optional-by-design columns
// excluded from the completeness report.
var completenessSkipColumns = map[string]struct{}{
	"CENTER":               {},
	"PATIENT_ID":           {},
	"SAMPLE_ID":            {},
	"SAMPLE_TYPE_DETAILED": {},
	"SECONDARY_RACE":       {},
	"TERTIARY_RACE":        {},
}

// Reader is the cached read side of the store.
type Reader interface {
	Get(ctx context.Context, table string) (*rowset.Table, error)
	Invalidate(table string)
}

// Applier is the write side of the store.
type Applier interface {
	Snapshot(ctx context.Context, table string) (*rowset.Table, error)
	Apply(ctx context.Context, table string, batch *reconcile.Batch) error
}

// Updater recomputes the dashboard tables.
type Updater struct {
	reader Reader
	store  Applier
	engine *reconcile.Engine
	logger *zap.Logger
}

// NewUpdater creates a dashboard updater.
func NewUpdater(reader Reader, store Applier, logger *zap.Logger) *Updater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Updater{
		reader: reader,
		store:  store,
		engine: reconcile.NewEngine(logger),
		logger: logger,
	}
}

// Refresh recomputes both dashboard tables from the current clinical
// snapshot and reconciles them into the store.
func (u *Updater) Refresh(ctx context.Context) error {
	clinical, err := u.reader.Get(ctx, ClinicalTable)
	if err != nil {
		return fmt.Errorf("failed to load clinical data: %w", err)
	}

	counts, err := computeCounts(clinical)
	if err != nil {
		return err
	}
	if err := u.reconcileInto(ctx, CountsTable, counts, []string{"CENTER"}); err != nil {
		return err
	}

	completeness, err := computeCompleteness(clinical)
	if err != nil {
		return err
	}
	if err := u.reconcileInto(ctx, CompletenessTable, completeness, []string{"FIELD", "CENTER"}); err != nil {
		return err
	}

	u.logger.Info("dashboard tables refreshed",
		zap.Int("centers", counts.Len()),
		zap.Int("completeness_rows", completeness.Len()),
	)
	return nil
}

func (u *Updater) reconcileInto(ctx context.Context, table string, computed *rowset.Table, keys []string) error {
	snapshot, err := u.store.Snapshot(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", table, err)
	}
	batch, err := u.engine.Reconcile(snapshot, computed, keys, reconcile.Options{AllowDelete: true})
	if err != nil {
		return fmt.Errorf("failed to reconcile %s: %w", table, err)
	}
	if err := u.store.Apply(ctx, table, batch); err != nil {
		return err
	}
	u.reader.Invalidate(table)
	return nil
}

// computeCounts builds the db_counts table: distinct samples and patients
// per center, centers in sorted order.
func computeCounts(clinical *rowset.Table) (*rowset.Table, error) {
	for _, col := range []string{"CENTER", "SAMPLE_ID", "PATIENT_ID"} {
		if !clinical.HasColumn(col) {
			return nil, &rowset.InvalidInputError{Reason: fmt.Sprintf("clinical table has no %s column", col)}
		}
	}
	centerIdx, _ := clinical.ColumnIndex("CENTER")
	sampleIdx, _ := clinical.ColumnIndex("SAMPLE_ID")
	patientIdx, _ := clinical.ColumnIndex("PATIENT_ID")

	samples := make(map[string]map[string]struct{})
	patients := make(map[string]map[string]struct{})
	for i := 0; i < clinical.Len(); i++ {
		row := clinical.Row(i)
		center := row.Values[centerIdx].Render()
		if center == "" {
			continue
		}
		addDistinct(samples, center, row.Values[sampleIdx].Render())
		addDistinct(patients, center, row.Values[patientIdx].Render())
	}

	out := rowset.MustNewTable("CENTER", "SAMPLES", "PATIENTS")
	for _, center := range sortedKeys(samples) {
		err := out.AppendRow(
			rowset.String(center),
			rowset.Int(int64(len(samples[center]))),
			rowset.Int(int64(len(patients[center]))),
		)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// computeCompleteness builds the data_completeness table: for every
// center and reportable clinical field, the fraction of values that are
// present and not "Not Collected".
func computeCompleteness(clinical *rowset.Table) (*rowset.Table, error) {
	centerIdx, ok := clinical.ColumnIndex("CENTER")
	if !ok {
		return nil, &rowset.InvalidInputError{Reason: "clinical table has no CENTER column"}
	}

	rowsByCenter := make(map[string][]int)
	for i := 0; i < clinical.Len(); i++ {
		center := clinical.Row(i).Values[centerIdx].Render()
		if center == "" {
			continue
		}
		rowsByCenter[center] = append(rowsByCenter[center], i)
	}

	out := rowset.MustNewTable("FIELD", "CENTER", "TOTAL", "COMPLETENESS")
	for _, center := range sortedKeys(rowsByCenter) {
		rows := rowsByCenter[center]
		for _, col := range clinical.Columns() {
			if _, skip := completenessSkipColumns[col]; skip {
				continue
			}
			notMissing := 0
			for _, i := range rows {
				v, _ := clinical.Value(i, col)
				if !v.IsNull() && v.Render() != "" && v.Render() != notCollected {
					notMissing++
				}
			}
			err := out.AppendRow(
				rowset.String(col),
				rowset.String(center),
				rowset.Int(int64(len(rows))),
				rowset.Float(float64(notMissing)/float64(len(rows))),
			)
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func addDistinct(set map[string]map[string]struct{}, center, value string) {
	if value == "" {
		return
	}
	if set[center] == nil {
		set[center] = make(map[string]struct{})
	}
	set[center][value] = struct{}{}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
