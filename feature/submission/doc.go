// Package submission implements the center file intake pipeline: fetch a
// submitted file from the bucket, route it to its file type, validate it,
// and on success reconcile it into the central store table for that type.
// Validation failures are tracked per center in the invalid_reasons table.
package submission
