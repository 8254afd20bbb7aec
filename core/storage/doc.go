// Package storage provides an abstraction layer for object storage.
//
// It wraps the MinIO Go client behind a small interface so both AWS S3
// and self-hosted MinIO work, and so the pipeline can be unit tested with
// the mock client in core/storage/mocks. Submitted center files live
// under "{center}/" prefixes; archived batch and report artifacts go
// under "reports/".
package storage
