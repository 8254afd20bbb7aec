package rowset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ReadTSV parses tab-separated content into a table. The first record is
// the header. Column kinds are inferred once over the whole column: a
// column whose every non-empty cell parses as an integer is KindInt, else
// as a float is KindFloat, otherwise KindString. Empty cells become
// missing values.
func ReadTSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse tsv: %w", err)
	}
	if len(records) == 0 {
		return nil, &InvalidInputError{Reason: "tsv content has no header record"}
	}
	header := records[0]
	body := records[1:]

	kinds := inferKinds(header, body)
	t, err := NewTable(header...)
	if err != nil {
		return nil, err
	}
	for _, rec := range body {
		values := make([]Value, len(header))
		for j := range header {
			values[j] = parseCell(rec[j], kinds[j])
		}
		if err := t.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// WriteTSV serializes the table as tab-separated content: header record
// followed by rendered rows. Identity is not written; it belongs to the
// store, not the file.
func (t *Table) WriteTSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(t.cols); err != nil {
		return fmt.Errorf("failed to write tsv header: %w", err)
	}
	rec := make([]string, len(t.cols))
	for _, r := range t.rows {
		for j, v := range r.Values {
			rec[j] = v.Render()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write tsv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func inferKinds(header []string, body [][]string) []Kind {
	kinds := make([]Kind, len(header))
	for j := range header {
		kinds[j] = inferColumnKind(body, j)
	}
	return kinds
}

func inferColumnKind(body [][]string, col int) Kind {
	sawValue := false
	allInt := true
	allFloat := true
	for _, rec := range body {
		cell := rec[col]
		if cell == "" {
			continue
		}
		sawValue = true
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			allFloat = false
		}
		if !allInt && !allFloat {
			return KindString
		}
	}
	if !sawValue {
		return KindString
	}
	if allInt {
		return KindInt
	}
	if allFloat {
		return KindFloat
	}
	return KindString
}

func parseCell(cell string, kind Kind) Value {
	if cell == "" {
		return Null()
	}
	switch kind {
	case KindInt:
		i, _ := strconv.ParseInt(cell, 10, 64)
		return Int(i)
	case KindFloat:
		f, _ := strconv.ParseFloat(cell, 64)
		return Float(f)
	default:
		return String(cell)
	}
}
