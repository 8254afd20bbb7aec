package reconcile

import (
	"fmt"

	"data-curator/core/rowset"

	"go.uber.org/zap"
)

// Engine computes reconciliation batches. It is stateless apart from its
// logger and safe for concurrent use.
type Engine struct {
	log *zap.Logger
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Reconcile diffs the new dataset against the current store snapshot and
// returns the ordered write-batch: appends, then updates, plus delete
// identity pairs when opts.AllowDelete is set. Neither input is mutated.
//
// The store snapshot's rows must carry identity; the new dataset's rows
// must not. Both tables must share the store's column set, matched by the
// composite key built from keyCols.
func (e *Engine) Reconcile(store, newData *rowset.Table, keyCols []string, opts Options) (*Batch, error) {
	if store == nil || newData == nil {
		return nil, &rowset.InvalidInputError{Reason: "must pass in non-nil tables"}
	}
	if len(keyCols) == 0 {
		return nil, &rowset.InvalidInputError{Reason: "at least one key column is required"}
	}
	origCols := store.Columns()

	storeKeyed, err := store.FillMissing().WithKey(keyCols)
	if err != nil {
		return nil, err
	}
	newKeyed, err := newData.FillMissing().WithKey(keyCols)
	if err != nil {
		return nil, err
	}

	// Column order must match the store exactly; fail before any diffing.
	var missing []string
	for _, c := range origCols {
		if !newKeyed.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &ColumnMismatchError{Missing: missing}
	}
	newKeyed, err = newKeyed.Project(append(append([]string(nil), origCols...), rowset.KeyColumn))
	if err != nil {
		return nil, err
	}

	appends, err := e.computeAppends(newKeyed, storeKeyed)
	if err != nil {
		return nil, err
	}
	updates, err := e.computeUpdates(newKeyed, storeKeyed, origCols)
	if err != nil {
		return nil, err
	}
	var deletes []rowset.Identity
	if opts.AllowDelete {
		deletes, err = e.computeDeletes(newKeyed, storeKeyed)
		if err != nil {
			return nil, err
		}
	}

	batch := &Batch{Columns: origCols, Deletes: deletes}
	appendBatchRows(batch, appends, false)
	appendBatchRows(batch, updates, true)
	return batch, nil
}

// computeAppends returns new-dataset rows whose key is absent from the
// store, with the key helper column removed.
func (e *Engine) computeAppends(newKeyed, storeKeyed *rowset.Table) (*rowset.Table, error) {
	diff, err := rowset.LeftDiff(newKeyed, storeKeyed, rowset.KeyColumn)
	if err != nil {
		return nil, err
	}
	if diff.Len() > 0 {
		e.log.Info("adding rows", zap.Int("count", diff.Len()))
	} else {
		e.log.Info("no new rows")
	}
	return diff.DropColumn(rowset.KeyColumn), nil
}

// computeUpdates compares the overlapping subsets of the new dataset and
// the store row by row and returns the differing rows as new-dataset
// values carrying the store row's original identity.
func (e *Engine) computeUpdates(newKeyed, storeKeyed *rowset.Table, origCols []string) (*rowset.Table, error) {
	matchedNew, err := rowset.LeftUnion(newKeyed, storeKeyed, rowset.KeyColumn)
	if err != nil {
		return nil, err
	}
	matchedStore, err := rowset.LeftUnion(storeKeyed, newKeyed, rowset.KeyColumn)
	if err != nil {
		return nil, err
	}

	// Duplicate keys on the new side collapse to the first occurrence.
	deduped, err := matchedNew.DedupeBy(rowset.KeyColumn)
	if err != nil {
		return nil, err
	}
	if dropped := matchedNew.Len() - deduped.Len(); dropped > 0 {
		e.log.Warn("duplicate keys in new dataset, keeping first occurrence",
			zap.Int("dropped", dropped))
	}

	keyIdx, _ := deduped.ColumnIndex(rowset.KeyColumn)
	newByKey := make(map[string]int, deduped.Len())
	for i := 0; i < deduped.Len(); i++ {
		newByKey[deduped.Row(i).Values[keyIdx].Render()] = i
	}

	out := rowset.MustNewTable(origCols...)
	storeKeyIdx, _ := matchedStore.ColumnIndex(rowset.KeyColumn)
	for i := 0; i < matchedStore.Len(); i++ {
		storeRow := matchedStore.Row(i)
		key := storeRow.Values[storeKeyIdx].Render()
		j, ok := newByKey[key]
		if !ok {
			return nil, &AlignmentError{
				Reason: fmt.Sprintf("store key %q has no counterpart in the matched new dataset", key),
			}
		}
		differs := false
		values := make([]rowset.Value, len(origCols))
		for c, col := range origCols {
			nv, _ := deduped.Value(j, col)
			sv, _ := matchedStore.Value(i, col)
			values[c] = nv
			if !nv.Equal(sv) {
				differs = true
			}
		}
		if !differs {
			continue
		}
		if storeRow.Identity == nil {
			return nil, &AlignmentError{
				Reason: fmt.Sprintf("store row with key %q carries no identity", key),
			}
		}
		if err := out.AppendIdentifiedRow(*storeRow.Identity, values...); err != nil {
			return nil, err
		}
	}

	if out.Len() > 0 {
		e.log.Info("updating rows", zap.Int("count", out.Len()))
	} else {
		e.log.Info("no updated rows")
	}
	return out, nil
}

// computeDeletes returns identity pairs for store rows whose key is
// absent from the new dataset, in store order.
func (e *Engine) computeDeletes(newKeyed, storeKeyed *rowset.Table) ([]rowset.Identity, error) {
	gone, err := rowset.LeftDiff(storeKeyed, newKeyed, rowset.KeyColumn)
	if err != nil {
		return nil, err
	}
	if gone.Len() == 0 {
		e.log.Info("no deleted rows")
		return nil, nil
	}
	e.log.Info("deleting rows", zap.Int("count", gone.Len()))
	deletes := make([]rowset.Identity, 0, gone.Len())
	for i := 0; i < gone.Len(); i++ {
		row := gone.Row(i)
		if row.Identity == nil {
			return nil, &AlignmentError{Reason: fmt.Sprintf("store row %d marked for deletion carries no identity", i)}
		}
		deletes = append(deletes, *row.Identity)
	}
	return deletes, nil
}

func appendBatchRows(batch *Batch, t *rowset.Table, withIdentity bool) {
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		values := make([]string, len(row.Values))
		for j, v := range row.Values {
			values[j] = v.Render()
		}
		br := BatchRow{Values: values}
		if withIdentity && row.Identity != nil {
			id := *row.Identity
			br.Identity = &id
		}
		batch.Rows = append(batch.Rows, br)
	}
}
