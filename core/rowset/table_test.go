package rowset_test

import (
	"testing"

	"data-curator/core/rowset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *rowset.Table {
	t.Helper()
	tbl := rowset.MustNewTable("test", "foo", "baz")
	require.NoError(t, tbl.AppendRow(rowset.String("test1"), rowset.Int(1), rowset.Null()))
	require.NoError(t, tbl.AppendRow(rowset.String("test2"), rowset.Int(2), rowset.Float(3.2)))
	return tbl
}

func TestNewTable_DuplicateColumn(t *testing.T) {
	_, err := rowset.NewTable("a", "b", "a")
	var invalid *rowset.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestAppendRow_ArityMismatch(t *testing.T) {
	tbl := rowset.MustNewTable("a", "b")
	err := tbl.AppendRow(rowset.String("only-one"))
	var invalid *rowset.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestWithKey_SingleColumn(t *testing.T) {
	tbl := sampleTable(t)
	keyed, err := tbl.WithKey([]string{"test"})
	require.NoError(t, err)

	assert.Equal(t, []string{"test", "foo", "baz", rowset.KeyColumn}, keyed.Columns())
	v, ok := keyed.Value(0, rowset.KeyColumn)
	require.True(t, ok)
	assert.Equal(t, "test1", v.Render())

	// The original table is untouched.
	assert.False(t, tbl.HasColumn(rowset.KeyColumn))
}

func TestWithKey_CompositeCoercesToString(t *testing.T) {
	tbl := rowset.MustNewTable("chrom", "pos")
	require.NoError(t, tbl.AppendRow(rowset.String("7"), rowset.Float(140453136.0)))

	keyed, err := tbl.WithKey([]string{"chrom", "pos"})
	require.NoError(t, err)
	v, _ := keyed.Value(0, rowset.KeyColumn)
	assert.Equal(t, "7 140453136", v.Render())
}

func TestWithKey_MissingColumn(t *testing.T) {
	tbl := sampleTable(t)
	_, err := tbl.WithKey([]string{"nope"})
	var keyErr *rowset.InvalidKeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "nope", keyErr.Column)
}

func TestFillMissing_DoesNotMutateOriginal(t *testing.T) {
	tbl := sampleTable(t)
	filled := tbl.FillMissing()

	v, _ := filled.Value(0, "baz")
	assert.False(t, v.IsNull())
	assert.Equal(t, "", v.Render())

	orig, _ := tbl.Value(0, "baz")
	assert.True(t, orig.IsNull())
}

func TestProject_ReordersAndKeepsIdentity(t *testing.T) {
	tbl := rowset.MustNewTable("a", "b")
	require.NoError(t, tbl.AppendIdentifiedRow(
		rowset.Identity{ID: "1", Version: "3"},
		rowset.String("x"), rowset.Int(9),
	))

	out, err := tbl.Project([]string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, out.Columns())
	require.NotNil(t, out.Row(0).Identity)
	assert.Equal(t, "1_3", out.Row(0).Identity.Locator())
}

func TestProject_MissingColumn(t *testing.T) {
	tbl := sampleTable(t)
	_, err := tbl.Project([]string{"test", "missing"})
	var invalid *rowset.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestDedupeBy_KeepsFirstOccurrence(t *testing.T) {
	tbl := rowset.MustNewTable("k", "v")
	require.NoError(t, tbl.AppendRow(rowset.String("dup"), rowset.Int(1)))
	require.NoError(t, tbl.AppendRow(rowset.String("dup"), rowset.Int(2)))
	require.NoError(t, tbl.AppendRow(rowset.String("solo"), rowset.Int(3)))

	out, err := tbl.DedupeBy("k")
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	v, _ := out.Value(0, "v")
	assert.Equal(t, "1", v.Render())
}

func TestDropColumn(t *testing.T) {
	tbl := sampleTable(t)
	out := tbl.DropColumn("foo")
	assert.Equal(t, []string{"test", "baz"}, out.Columns())
	assert.Equal(t, tbl.Len(), out.Len())

	// Dropping an absent column is a plain copy.
	same := tbl.DropColumn("absent")
	assert.Equal(t, tbl.Columns(), same.Columns())
}

func TestParseLocator(t *testing.T) {
	id, err := rowset.ParseLocator("12_7")
	require.NoError(t, err)
	assert.Equal(t, rowset.Identity{ID: "12", Version: "7"}, id)

	for _, bad := range []string{"", "12", "_7", "12_"} {
		_, err := rowset.ParseLocator(bad)
		assert.Error(t, err, "locator %q", bad)
	}
}
