package filetype

import (
	"fmt"
	"io"
	"strings"

	"data-curator/core/rowset"
)

// Clinical is the clinical sample/patient file format.
type Clinical struct{}

// Name returns the file type name.
func (c *Clinical) Name() string { return "clinical" }

// ValidateFilename accepts data_clinical_supp_<CENTER>.txt and the
// split sample/patient variants.
func (c *Clinical) ValidateFilename(center, filename string) error {
	accepted := []string{
		fmt.Sprintf("data_clinical_supp_%s.txt", center),
		fmt.Sprintf("data_clinical_supp_sample_%s.txt", center),
		fmt.Sprintf("data_clinical_supp_patient_%s.txt", center),
	}
	for _, name := range accepted {
		if filename == name {
			return nil
		}
	}
	return filenameError("clinical", fmt.Sprintf("data_clinical_supp_%s.txt", center))
}

// Read parses the file into a row set. A file without a CENTER column
// gets one derived from the sample id prefix (GENIE-<CENTER>-...).
func (c *Clinical) Read(r io.Reader) (*rowset.Table, error) {
	t, err := rowset.ReadTSV(r)
	if err != nil {
		return nil, err
	}
	return deriveCenter(t)
}

// Validate checks the structural requirements of a clinical file.
func (c *Clinical) Validate(t *rowset.Table) *ValidationResult {
	result := &ValidationResult{}
	checkRequiredColumns(t, []string{"SAMPLE_ID", "PATIENT_ID"}, result)
	if !t.HasColumn("CENTER") {
		result.Errors = append(result.Errors,
			"file must contain a CENTER column or sample ids to derive it from")
	}
	return result
}

// KeyColumns returns the composite key for the clinical table.
func (c *Clinical) KeyColumns() []string { return []string{"SAMPLE_ID"} }

// TableName returns the central store table this format feeds.
func (c *Clinical) TableName() string { return "clinical" }

// deriveCenter appends a CENTER column built from the sample id prefix
// when the file does not carry one. Sample ids without a center segment
// yield a missing value, which validation of the row's other columns and
// the reconciler's null handling treat as empty.
func deriveCenter(t *rowset.Table) (*rowset.Table, error) {
	if t.HasColumn("CENTER") || !t.HasColumn("SAMPLE_ID") {
		return t, nil
	}
	sampleIdx, _ := t.ColumnIndex("SAMPLE_ID")
	out, err := rowset.NewTable(append(t.Columns(), "CENTER")...)
	if err != nil {
		return nil, err
	}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		values := make([]rowset.Value, 0, len(row.Values)+1)
		values = append(values, row.Values...)
		values = append(values, centerFromSampleID(row.Values[sampleIdx]))
		if err := out.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// centerFromSampleID extracts the center code from a GENIE-<CENTER>-...
// sample id.
func centerFromSampleID(sample rowset.Value) rowset.Value {
	parts := strings.Split(sample.Render(), "-")
	if len(parts) < 2 || parts[1] == "" {
		return rowset.Null()
	}
	return rowset.String(parts[1])
}
