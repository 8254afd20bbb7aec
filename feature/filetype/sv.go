package filetype

import (
	"fmt"
	"io"

	"data-curator/core/rowset"
)

// SV is the structural variant file format.
type SV struct{}

// Name returns the file type name.
func (s *SV) Name() string { return "sv" }

// ValidateFilename accepts data_sv_<CENTER>.txt.
func (s *SV) ValidateFilename(center, filename string) error {
	expected := fmt.Sprintf("data_sv_%s.txt", center)
	if filename != expected {
		return filenameError("sv", expected)
	}
	return nil
}

// Read parses the file into a row set.
func (s *SV) Read(r io.Reader) (*rowset.Table, error) {
	return rowset.ReadTSV(r)
}

// Validate checks the structural requirements of an sv file.
func (s *SV) Validate(t *rowset.Table) *ValidationResult {
	result := &ValidationResult{}
	checkRequiredColumns(t, []string{
		"SAMPLE_ID",
		"SV_STATUS",
		"SITE1_HUGO_SYMBOL",
		"SITE2_HUGO_SYMBOL",
	}, result)
	return result
}

// KeyColumns returns the composite key for the sv table.
func (s *SV) KeyColumns() []string {
	return []string{"SAMPLE_ID", "SITE1_HUGO_SYMBOL", "SITE2_HUGO_SYMBOL"}
}

// TableName returns the central store table this format feeds.
func (s *SV) TableName() string { return "sv" }
