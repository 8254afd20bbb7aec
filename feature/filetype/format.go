package filetype

import (
	"fmt"
	"io"
	"strings"

	"data-curator/core/rowset"
)

// Format describes one submitted file type.
type Format interface {
	// Name returns the file type name (e.g. "clinical", "maf").
	Name() string
	// ValidateFilename reports whether the filename belongs to this
	// format for the given center.
	ValidateFilename(center, filename string) error
	// Read parses the file into a row set.
	Read(r io.Reader) (*rowset.Table, error)
	// Validate performs structural validation of the row set.
	Validate(t *rowset.Table) *ValidationResult
	// KeyColumns returns the composite key columns for reconciliation.
	KeyColumns() []string
	// TableName returns the central store table this format feeds.
	TableName() string
}

// ValidationResult collects errors and warnings from validation.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// IsValid reports whether the file passed validation.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Report aggregates errors and warnings into a printable message.
func (r *ValidationResult) Report() string {
	var b strings.Builder
	if r.IsValid() {
		b.WriteString("YOUR FILE IS VALIDATED!\n")
	} else {
		b.WriteString("----------------ERRORS----------------\n")
		for _, e := range r.Errors {
			b.WriteString(e)
			b.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("-------------WARNINGS-------------\n")
		for _, w := range r.Warnings {
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// checkRequiredColumns appends an error per required column the table
// is missing, and an error if the table has no data rows.
func checkRequiredColumns(t *rowset.Table, required []string, result *ValidationResult) {
	for _, col := range required {
		if !t.HasColumn(col) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("file must contain the %s column", col))
		}
	}
	if t.Len() == 0 {
		result.Errors = append(result.Errors, "file must contain at least one data row")
	}
}

// filenameError builds the standard wrong-filename error.
func filenameError(fileType, expected string) error {
	return fmt.Errorf("%s filename must be named %s", fileType, expected)
}
