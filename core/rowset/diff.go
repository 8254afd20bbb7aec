package rowset

import "fmt"

// checkValid verifies a table is usable for a set operation over the
// named column.
func checkValid(t *Table, col string) error {
	if t == nil {
		return &InvalidInputError{Reason: "must pass in a non-nil table"}
	}
	if !t.HasColumn(col) {
		return &InvalidInputError{Reason: fmt.Sprintf("%q column must exist in both tables", col)}
	}
	return nil
}

// LeftDiff returns the subset of left whose values in the named column do
// not appear anywhere in right's values for that column. Row order follows
// left's original order.
func LeftDiff(left, right *Table, col string) (*Table, error) {
	if err := checkValid(left, col); err != nil {
		return nil, err
	}
	if err := checkValid(right, col); err != nil {
		return nil, err
	}
	inRight := keySet(right, col)
	j, _ := left.ColumnIndex(col)
	out := left.emptyLike(left.cols)
	for _, r := range left.rows {
		if _, ok := inRight[r.Values[j].Render()]; !ok {
			out.rows = append(out.rows, cloneRow(r))
		}
	}
	return out, nil
}

// LeftUnion returns the subset of left whose values in the named column do
// appear in right. Row order follows left's original order.
func LeftUnion(left, right *Table, col string) (*Table, error) {
	if err := checkValid(left, col); err != nil {
		return nil, err
	}
	if err := checkValid(right, col); err != nil {
		return nil, err
	}
	inRight := keySet(right, col)
	j, _ := left.ColumnIndex(col)
	out := left.emptyLike(left.cols)
	for _, r := range left.rows {
		if _, ok := inRight[r.Values[j].Render()]; ok {
			out.rows = append(out.rows, cloneRow(r))
		}
	}
	return out, nil
}

func keySet(t *Table, col string) map[string]struct{} {
	j, _ := t.ColumnIndex(col)
	set := make(map[string]struct{}, len(t.rows))
	for _, r := range t.rows {
		set[r.Values[j].Render()] = struct{}{}
	}
	return set
}
