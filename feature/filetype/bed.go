package filetype

import (
	"fmt"
	"io"
	"strings"

	"data-curator/core/rowset"
)

// BED is the gene panel region file format.
type BED struct{}

// Name returns the file type name.
func (b *BED) Name() string { return "bed" }

// ValidateFilename accepts <CENTER>-<PANEL>.bed.
func (b *BED) ValidateFilename(center, filename string) error {
	prefix := center + "-"
	if !strings.HasPrefix(filename, prefix) || !strings.HasSuffix(filename, ".bed") {
		return filenameError("bed", fmt.Sprintf("%s-<PANEL>.bed", center))
	}
	panel := strings.TrimSuffix(strings.TrimPrefix(filename, prefix), ".bed")
	if panel == "" {
		return filenameError("bed", fmt.Sprintf("%s-<PANEL>.bed", center))
	}
	return nil
}

// Read parses the file into a row set.
func (b *BED) Read(r io.Reader) (*rowset.Table, error) {
	return rowset.ReadTSV(r)
}

// Validate checks the structural requirements of a bed file.
func (b *BED) Validate(t *rowset.Table) *ValidationResult {
	result := &ValidationResult{}
	checkRequiredColumns(t, []string{
		"CHROMOSOME",
		"START_POSITION",
		"END_POSITION",
		"HUGO_SYMBOL",
		"SEQ_ASSAY_ID",
	}, result)
	return result
}

// KeyColumns returns the composite key for the bed table.
func (b *BED) KeyColumns() []string {
	return []string{
		"CHROMOSOME",
		"START_POSITION",
		"END_POSITION",
		"HUGO_SYMBOL",
		"SEQ_ASSAY_ID",
	}
}

// TableName returns the central store table this format feeds.
func (b *BED) TableName() string { return "bed" }
