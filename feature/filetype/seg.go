package filetype

import (
	"fmt"
	"io"

	"data-curator/core/rowset"
)

// SEG is the copy number segment file format.
type SEG struct{}

// Name returns the file type name.
func (s *SEG) Name() string { return "seg" }

// ValidateFilename accepts genie_data_cna_hg19_<CENTER>.seg.
func (s *SEG) ValidateFilename(center, filename string) error {
	expected := fmt.Sprintf("genie_data_cna_hg19_%s.seg", center)
	if filename != expected {
		return filenameError("seg", expected)
	}
	return nil
}

// Read parses the file into a row set.
func (s *SEG) Read(r io.Reader) (*rowset.Table, error) {
	return rowset.ReadTSV(r)
}

// Validate checks the structural requirements of a seg file.
func (s *SEG) Validate(t *rowset.Table) *ValidationResult {
	result := &ValidationResult{}
	checkRequiredColumns(t, []string{
		"ID",
		"CHROM",
		"LOC.START",
		"LOC.END",
		"NUM.MARK",
		"SEG.MEAN",
	}, result)
	return result
}

// KeyColumns returns the composite key for the seg table.
func (s *SEG) KeyColumns() []string {
	return []string{"ID", "CHROM", "LOC.START", "LOC.END", "SEG.MEAN"}
}

// TableName returns the central store table this format feeds.
func (s *SEG) TableName() string { return "seg" }
