package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"data-curator/feature/filetype"

	"github.com/spf13/cobra"
)

// validateCmd validates a center file locally, without touching the
// store. The filename routes the file to its type.
var validateCmd = &cobra.Command{
	Use:   "validate <center> <file>",
	Short: "Validate a center file locally",
	Long: `Validate a submitted file against its file type's structural rules.
The filename determines the file type, e.g.:

  validate SAGE data_clinical_supp_SAGE.txt
  validate SAGE genie_data_cna_hg19_SAGE.seg`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func init() {
	RootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	center := strings.ToUpper(args[0])
	path := args[1]

	format, err := filetype.NewRegistry().Resolve(center, filepath.Base(path))
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	table, err := format.Read(f)
	if err != nil {
		return fmt.Errorf("the file cannot be read: %w", err)
	}

	result := format.Validate(table)
	fmt.Print(result.Report())
	if !result.IsValid() {
		return errors.New("file failed validation")
	}
	return nil
}
