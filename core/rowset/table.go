package rowset

import (
	"fmt"
	"strings"
)

// KeyColumn is the helper column holding the space-joined composite key
// during a reconciliation.
const KeyColumn = "UNIQUE_KEY"

// Identity locates a specific row version in the backing store.
type Identity struct {
	ID      string
	Version string
}

// Locator returns the "{row_id}_{row_version}" form used by the store.
func (id Identity) Locator() string {
	return id.ID + "_" + id.Version
}

// ParseLocator splits a "{row_id}_{row_version}" locator string.
func ParseLocator(locator string) (Identity, error) {
	i := strings.IndexByte(locator, '_')
	if i <= 0 || i == len(locator)-1 {
		return Identity{}, fmt.Errorf("malformed row locator %q", locator)
	}
	return Identity{ID: locator[:i], Version: locator[i+1:]}, nil
}

// Row is a single record. Identity is nil for rows that do not originate
// from the store (e.g. a freshly validated submission).
type Row struct {
	Identity *Identity
	Values   []Value
}

// Table is an ordered collection of rows over a fixed column set.
type Table struct {
	cols  []string
	index map[string]int
	rows  []Row
}

// NewTable creates an empty table with the given column order.
func NewTable(cols ...string) (*Table, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := index[c]; dup {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("duplicate column %q", c)}
		}
		index[c] = i
	}
	return &Table{
		cols:  append([]string(nil), cols...),
		index: index,
	}, nil
}

// MustNewTable is NewTable for statically known column sets (tests, fixtures).
func MustNewTable(cols ...string) *Table {
	t, err := NewTable(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th row. The returned row shares storage with the
// table; callers must not modify it.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Value returns the cell at row i, named column.
func (t *Table) Value(i int, col string) (Value, bool) {
	j, ok := t.index[col]
	if !ok {
		return Value{}, false
	}
	return t.rows[i].Values[j], true
}

// AppendRow adds a row without identity. The number of values must match
// the column count.
func (t *Table) AppendRow(values ...Value) error {
	return t.appendRow(nil, values)
}

// AppendIdentifiedRow adds a row carrying store identity.
func (t *Table) AppendIdentifiedRow(id Identity, values ...Value) error {
	return t.appendRow(&id, values)
}

func (t *Table) appendRow(id *Identity, values []Value) error {
	if len(values) != len(t.cols) {
		return &InvalidInputError{
			Reason: fmt.Sprintf("row has %d values, table has %d columns", len(values), len(t.cols)),
		}
	}
	t.rows = append(t.rows, Row{Identity: id, Values: append([]Value(nil), values...)})
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := t.emptyLike(t.cols)
	out.rows = make([]Row, len(t.rows))
	for i, r := range t.rows {
		out.rows[i] = cloneRow(r)
	}
	return out
}

// FillMissing returns a copy with every missing value replaced by the
// empty string, making null and "" indistinguishable downstream.
func (t *Table) FillMissing() *Table {
	out := t.emptyLike(t.cols)
	out.rows = make([]Row, len(t.rows))
	for i, r := range t.rows {
		nr := cloneRow(r)
		for j, v := range nr.Values {
			if v.IsNull() {
				nr.Values[j] = String("")
			}
		}
		out.rows[i] = nr
	}
	return out
}

// Project returns a copy restricted to the given columns, in the given
// order. Row identity is preserved.
func (t *Table) Project(cols []string) (*Table, error) {
	src := make([]int, len(cols))
	for i, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("column %q does not exist in the table", c)}
		}
		src[i] = j
	}
	out := t.emptyLike(cols)
	out.rows = make([]Row, len(t.rows))
	for i, r := range t.rows {
		values := make([]Value, len(cols))
		for k, j := range src {
			values[k] = r.Values[j]
		}
		out.rows[i] = Row{Identity: cloneIdentity(r.Identity), Values: values}
	}
	return out, nil
}

// WithKey returns a copy carrying an extra UNIQUE_KEY column: the
// space-joined rendered values of the named key columns, in order.
func (t *Table) WithKey(keyCols []string) (*Table, error) {
	if t.HasColumn(KeyColumn) {
		return nil, &InvalidInputError{Reason: "table already carries a " + KeyColumn + " column"}
	}
	src := make([]int, len(keyCols))
	for i, c := range keyCols {
		j, ok := t.index[c]
		if !ok {
			return nil, &InvalidKeyError{Column: c}
		}
		src[i] = j
	}
	out := t.emptyLike(append(t.Columns(), KeyColumn))
	out.rows = make([]Row, len(t.rows))
	parts := make([]string, len(keyCols))
	for i, r := range t.rows {
		for k, j := range src {
			parts[k] = r.Values[j].Render()
		}
		values := make([]Value, 0, len(r.Values)+1)
		values = append(values, cloneRow(r).Values...)
		values = append(values, String(strings.Join(parts, " ")))
		out.rows[i] = Row{Identity: cloneIdentity(r.Identity), Values: values}
	}
	return out, nil
}

// DropColumn returns a copy without the named column. Dropping an absent
// column is a no-op copy.
func (t *Table) DropColumn(name string) *Table {
	if !t.HasColumn(name) {
		return t.Clone()
	}
	cols := make([]string, 0, len(t.cols)-1)
	for _, c := range t.cols {
		if c != name {
			cols = append(cols, c)
		}
	}
	out, _ := t.Project(cols)
	return out
}

// DedupeBy returns a copy keeping only the first row for each distinct
// value of the named column. Rows lacking the column are rejected.
func (t *Table) DedupeBy(col string) (*Table, error) {
	j, ok := t.index[col]
	if !ok {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("column %q does not exist in the table", col)}
	}
	seen := make(map[string]struct{}, len(t.rows))
	out := t.emptyLike(t.cols)
	for _, r := range t.rows {
		k := r.Values[j].Render()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out.rows = append(out.rows, cloneRow(r))
	}
	return out, nil
}

func (t *Table) emptyLike(cols []string) *Table {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}
	return &Table{cols: append([]string(nil), cols...), index: index}
}

func cloneRow(r Row) Row {
	return Row{Identity: cloneIdentity(r.Identity), Values: append([]Value(nil), r.Values...)}
}

func cloneIdentity(id *Identity) *Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
