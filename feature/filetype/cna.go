package filetype

import (
	"fmt"
	"io"

	"data-curator/core/rowset"
)

// CNA is the copy number alteration file format.
type CNA struct{}

// Name returns the file type name.
func (c *CNA) Name() string { return "cna" }

// ValidateFilename accepts data_CNA_<CENTER>.txt.
func (c *CNA) ValidateFilename(center, filename string) error {
	expected := fmt.Sprintf("data_CNA_%s.txt", center)
	if filename != expected {
		return filenameError("cna", expected)
	}
	return nil
}

// Read parses the file into a row set.
func (c *CNA) Read(r io.Reader) (*rowset.Table, error) {
	return rowset.ReadTSV(r)
}

// Validate checks the structural requirements of a cna file. The file
// is wide (one column per sample), so only the gene column is required.
func (c *CNA) Validate(t *rowset.Table) *ValidationResult {
	result := &ValidationResult{}
	checkRequiredColumns(t, []string{"HUGO_SYMBOL"}, result)
	if len(t.Columns()) < 2 {
		result.Errors = append(result.Errors,
			"cna file must contain at least one sample column")
	}
	return result
}

// KeyColumns returns the composite key for the cna table.
func (c *CNA) KeyColumns() []string { return []string{"HUGO_SYMBOL"} }

// TableName returns the central store table this format feeds.
func (c *CNA) TableName() string { return "cna" }
