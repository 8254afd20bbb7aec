package dashboard

import (
	"context"
	"fmt"
	"strconv"
)

// CenterCounts is one db_counts row.
type CenterCounts struct {
	Center   string `json:"center"`
	Samples  int    `json:"samples"`
	Patients int    `json:"patients"`
}

// FieldCompleteness is one data_completeness row.
type FieldCompleteness struct {
	Field        string  `json:"field"`
	Center       string  `json:"center"`
	Total        int     `json:"total"`
	Completeness float64 `json:"completeness"`
}

// Summary is the dashboard payload served over HTTP.
type Summary struct {
	Counts       []CenterCounts      `json:"counts"`
	Completeness []FieldCompleteness `json:"completeness"`
}

// Summarize reads the current dashboard tables into a summary.
func (u *Updater) Summarize(ctx context.Context) (*Summary, error) {
	countsTable, err := u.reader.Get(ctx, CountsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", CountsTable, err)
	}
	completenessTable, err := u.reader.Get(ctx, CompletenessTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", CompletenessTable, err)
	}

	summary := &Summary{}
	for i := 0; i < countsTable.Len(); i++ {
		center, _ := countsTable.Value(i, "CENTER")
		samples, _ := countsTable.Value(i, "SAMPLES")
		patients, _ := countsTable.Value(i, "PATIENTS")
		summary.Counts = append(summary.Counts, CenterCounts{
			Center:   center.Render(),
			Samples:  atoi(samples.Render()),
			Patients: atoi(patients.Render()),
		})
	}
	for i := 0; i < completenessTable.Len(); i++ {
		field, _ := completenessTable.Value(i, "FIELD")
		center, _ := completenessTable.Value(i, "CENTER")
		total, _ := completenessTable.Value(i, "TOTAL")
		completeness, _ := completenessTable.Value(i, "COMPLETENESS")
		summary.Completeness = append(summary.Completeness, FieldCompleteness{
			Field:        field.Render(),
			Center:       center.Render(),
			Total:        atoi(total.Render()),
			Completeness: atof(completeness.Render()),
		})
	}
	return summary, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
