// Package filetype maps submitted consortium files to their format.
//
// Each file type (clinical, maf, bed, cna, seg, sv) implements the Format
// interface: filename validation routes a submission to its format, the
// format reads the file into a row set, performs structural validation,
// and names the central store table plus the key columns the reconciler
// uses for that table.
package filetype
