package filetype

import (
	"fmt"
	"io"

	"data-curator/core/rowset"
)

// MAF is the mutation annotation file format.
type MAF struct{}

// Name returns the file type name.
func (m *MAF) Name() string { return "maf" }

// ValidateFilename accepts data_mutations_extended_<CENTER>.txt.
func (m *MAF) ValidateFilename(center, filename string) error {
	expected := fmt.Sprintf("data_mutations_extended_%s.txt", center)
	if filename != expected {
		return filenameError("maf", expected)
	}
	return nil
}

// Read parses the file into a row set.
func (m *MAF) Read(r io.Reader) (*rowset.Table, error) {
	return rowset.ReadTSV(r)
}

// Validate checks the structural requirements of a maf file.
func (m *MAF) Validate(t *rowset.Table) *ValidationResult {
	result := &ValidationResult{}
	checkRequiredColumns(t, []string{
		"CHROMOSOME",
		"START_POSITION",
		"REFERENCE_ALLELE",
		"TUMOR_SAMPLE_BARCODE",
		"TUMOR_SEQ_ALLELE2",
		"T_ALT_COUNT",
	}, result)
	return result
}

// KeyColumns returns the composite key for the mutations table.
func (m *MAF) KeyColumns() []string {
	return []string{
		"CHROMOSOME",
		"START_POSITION",
		"REFERENCE_ALLELE",
		"TUMOR_SAMPLE_BARCODE",
		"TUMOR_SEQ_ALLELE2",
	}
}

// TableName returns the central store table this format feeds.
func (m *MAF) TableName() string { return "mutations" }
