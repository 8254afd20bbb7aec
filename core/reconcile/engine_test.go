package reconcile_test

import (
	"bytes"
	"testing"

	"data-curator/core/reconcile"
	"data-curator/core/rowset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStore builds a store snapshot over (test, foo) with identified rows.
func newStore(t *testing.T, rows ...[3]string) *rowset.Table {
	t.Helper()
	tbl := rowset.MustNewTable("test", "foo")
	for _, r := range rows {
		id, err := rowset.ParseLocator(r[0])
		require.NoError(t, err)
		var foo rowset.Value
		if r[2] == "" {
			foo = rowset.Null()
		} else {
			foo = rowset.String(r[2])
		}
		require.NoError(t, tbl.AppendIdentifiedRow(id, rowset.String(r[1]), foo))
	}
	return tbl
}

func newDataset(t *testing.T, rows ...[2]string) *rowset.Table {
	t.Helper()
	tbl := rowset.MustNewTable("test", "foo")
	for _, r := range rows {
		require.NoError(t, tbl.AppendRow(rowset.String(r[0]), rowset.String(r[1])))
	}
	return tbl
}

func TestReconcile_AppendsUpdatesNoDeletes(t *testing.T) {
	store := newStore(t,
		[3]string{"1_3", "test1", "1"},
		[3]string{"2_3", "test2", "2"},
	)
	newData := newDataset(t,
		[2]string{"test1", "1"},
		[2]string{"test2", "5"},
		[2]string{"test3", "9"},
	)

	engine := reconcile.NewEngine(nil)
	batch, err := engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"test", "foo"}, batch.Columns)
	require.Len(t, batch.Rows, 2)
	assert.Empty(t, batch.Deletes)

	// Appends come first and carry no identity.
	appended := batch.Rows[0]
	assert.Nil(t, appended.Identity)
	assert.Equal(t, []string{"test3", "9"}, appended.Values)

	// Updates carry the store row's original identity.
	updated := batch.Rows[1]
	require.NotNil(t, updated.Identity)
	assert.Equal(t, rowset.Identity{ID: "2", Version: "3"}, *updated.Identity)
	assert.Equal(t, []string{"test2", "5"}, updated.Values)
}

func TestReconcile_DeleteExtraction(t *testing.T) {
	store := newStore(t, [3]string{"3_5", "test3", "3"})
	newData := newDataset(t, [2]string{"test4", "4"})

	engine := reconcile.NewEngine(nil)

	// Deletes are gated by the caller flag.
	batch, err := engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{})
	require.NoError(t, err)
	assert.Empty(t, batch.Deletes)

	batch, err = engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{AllowDelete: true})
	require.NoError(t, err)
	require.Len(t, batch.Deletes, 1)
	assert.Equal(t, rowset.Identity{ID: "3", Version: "5"}, batch.Deletes[0])
}

func TestReconcile_Idempotent(t *testing.T) {
	store := newStore(t,
		[3]string{"1_3", "test1", "1"},
		[3]string{"2_3", "test2", "2"},
		[3]string{"3_5", "test3", ""},
	)
	// Feed the store's own contents back, identity stripped.
	cols := store.Columns()
	newData := rowset.MustNewTable(cols...)
	for i := 0; i < store.Len(); i++ {
		require.NoError(t, newData.AppendRow(store.Row(i).Values...))
	}

	engine := reconcile.NewEngine(nil)
	batch, err := engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{AllowDelete: true})
	require.NoError(t, err)
	assert.True(t, batch.Empty())
}

func TestReconcile_NullEqualsEmptyString(t *testing.T) {
	// Store has "" in foo, new dataset has null: no update.
	store := newStore(t, [3]string{"1_3", "test1", ""})
	newData := rowset.MustNewTable("test", "foo")
	require.NoError(t, newData.AppendRow(rowset.String("test1"), rowset.Null()))

	engine := reconcile.NewEngine(nil)
	batch, err := engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{AllowDelete: true})
	require.NoError(t, err)
	assert.True(t, batch.Empty())
}

func TestReconcile_IntegerFloatKeysMatch(t *testing.T) {
	store := rowset.MustNewTable("pos", "val")
	require.NoError(t, store.AppendIdentifiedRow(rowset.Identity{ID: "1", Version: "1"},
		rowset.Int(140453136), rowset.String("a")))
	newData := rowset.MustNewTable("pos", "val")
	require.NoError(t, newData.AppendRow(rowset.Float(140453136.0), rowset.String("a")))

	engine := reconcile.NewEngine(nil)
	batch, err := engine.Reconcile(store, newData, []string{"pos"}, reconcile.Options{AllowDelete: true})
	require.NoError(t, err)
	assert.True(t, batch.Empty())
}

func TestReconcile_DuplicateNewKeysKeepFirst(t *testing.T) {
	store := newStore(t, [3]string{"1_3", "test1", "1"})
	newData := newDataset(t,
		[2]string{"test1", "7"},
		[2]string{"test1", "8"},
	)

	engine := reconcile.NewEngine(nil)
	batch, err := engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{})
	require.NoError(t, err)
	require.Len(t, batch.Rows, 1)
	assert.Equal(t, []string{"test1", "7"}, batch.Rows[0].Values)
}

func TestReconcile_ColumnMismatchFailsFast(t *testing.T) {
	store := newStore(t, [3]string{"1_3", "test1", "1"})
	newData := rowset.MustNewTable("test")
	require.NoError(t, newData.AppendRow(rowset.String("test1")))

	engine := reconcile.NewEngine(nil)
	batch, err := engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{})
	var mismatch *reconcile.ColumnMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, []string{"foo"}, mismatch.Missing)
	// No partial batch is returned.
	assert.Nil(t, batch)
}

func TestReconcile_ExtraNewColumnsAreDropped(t *testing.T) {
	store := newStore(t, [3]string{"1_3", "test1", "1"})
	newData := rowset.MustNewTable("foo", "test", "extra")
	require.NoError(t, newData.AppendRow(
		rowset.String("1"), rowset.String("test1"), rowset.String("ignored")))

	engine := reconcile.NewEngine(nil)
	batch, err := engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{AllowDelete: true})
	require.NoError(t, err)
	// Same data, reordered columns, extra column ignored: no-op.
	assert.True(t, batch.Empty())
	assert.Equal(t, []string{"test", "foo"}, batch.Columns)
}

func TestReconcile_MissingKeyColumn(t *testing.T) {
	store := newStore(t, [3]string{"1_3", "test1", "1"})
	newData := newDataset(t, [2]string{"test1", "1"})

	engine := reconcile.NewEngine(nil)
	_, err := engine.Reconcile(store, newData, []string{"nope"}, reconcile.Options{})
	var keyErr *rowset.InvalidKeyError
	assert.ErrorAs(t, err, &keyErr)
}

func TestReconcile_NilInput(t *testing.T) {
	engine := reconcile.NewEngine(nil)
	_, err := engine.Reconcile(nil, nil, []string{"test"}, reconcile.Options{})
	var invalid *rowset.InvalidInputError
	assert.ErrorAs(t, err, &invalid)

	_, err = engine.Reconcile(newStore(t), newDataset(t), nil, reconcile.Options{})
	assert.ErrorAs(t, err, &invalid)
}

func TestReconcile_StoreRowWithoutIdentity(t *testing.T) {
	store := rowset.MustNewTable("test", "foo")
	require.NoError(t, store.AppendRow(rowset.String("test1"), rowset.String("1")))
	newData := newDataset(t, [2]string{"test1", "2"})

	engine := reconcile.NewEngine(nil)
	_, err := engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{})
	var alignment *reconcile.AlignmentError
	assert.ErrorAs(t, err, &alignment)
}

func TestReconcile_DeleteRowWithoutIdentity(t *testing.T) {
	store := rowset.MustNewTable("test", "foo")
	require.NoError(t, store.AppendRow(rowset.String("gone"), rowset.String("1")))
	newData := newDataset(t, [2]string{"other", "2"})

	engine := reconcile.NewEngine(nil)
	_, err := engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{AllowDelete: true})
	var alignment *reconcile.AlignmentError
	assert.ErrorAs(t, err, &alignment)
}

func TestReconcile_KeySetsAreDisjoint(t *testing.T) {
	store := newStore(t,
		[3]string{"1_1", "keep", "1"},
		[3]string{"2_1", "change", "2"},
		[3]string{"3_1", "drop", "3"},
	)
	newData := newDataset(t,
		[2]string{"keep", "1"},
		[2]string{"change", "9"},
		[2]string{"add", "4"},
	)

	engine := reconcile.NewEngine(nil)
	batch, err := engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{AllowDelete: true})
	require.NoError(t, err)

	assert.Equal(t, 1, batch.Appends())
	assert.Equal(t, 1, batch.Updates())
	require.Len(t, batch.Deletes, 1)

	keys := map[string]int{}
	for _, r := range batch.Rows {
		keys[r.Values[0]]++
	}
	assert.Equal(t, map[string]int{"add": 1, "change": 1}, keys)
	assert.Equal(t, "3", batch.Deletes[0].ID)
}

func TestReconcile_InputsNotMutated(t *testing.T) {
	store := newStore(t, [3]string{"1_3", "test1", ""})
	newData := newDataset(t, [2]string{"test2", "2"})

	engine := reconcile.NewEngine(nil)
	_, err := engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{AllowDelete: true})
	require.NoError(t, err)

	// The null cell is still null and no helper column appeared.
	v, _ := store.Value(0, "foo")
	assert.True(t, v.IsNull())
	assert.False(t, store.HasColumn(rowset.KeyColumn))
	assert.False(t, newData.HasColumn(rowset.KeyColumn))
}

func TestBatch_WriteCSV(t *testing.T) {
	store := newStore(t, [3]string{"2_3", "test2", "2"})
	newData := newDataset(t,
		[2]string{"test2", "5"},
		[2]string{"test3", "9"},
	)

	engine := reconcile.NewEngine(nil)
	batch, err := engine.Reconcile(store, newData, []string{"test"}, reconcile.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, batch.WriteCSV(&buf))
	assert.Equal(t,
		"ROW_ID,ROW_VERSION,test,foo\n"+
			",,test3,9\n"+
			"2,3,test2,5\n",
		buf.String())
}

func TestBatch_WriteCSV_EmptyBatchKeepsHeader(t *testing.T) {
	batch := &reconcile.Batch{Columns: []string{"a", "b"}}
	var buf bytes.Buffer
	require.NoError(t, batch.WriteCSV(&buf))
	assert.Equal(t, "ROW_ID,ROW_VERSION,a,b\n", buf.String())
}
