package submission

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"data-curator/core/reconcile"
	"data-curator/core/rowset"
	"data-curator/core/server"
	"data-curator/core/storage"
	"data-curator/feature/filetype"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrUnknownCenter is returned when a submission names a center that is
// not on the configured roster.
var ErrUnknownCenter = errors.New("unknown center")

// TableStore is the slice of the central store the pipeline needs.
type TableStore interface {
	Snapshot(ctx context.Context, table string) (*rowset.Table, error)
	Apply(ctx context.Context, table string, batch *reconcile.Batch) error
}

// Result is the outcome of processing one submitted file.
type Result struct {
	Center   string `json:"center"`
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	Valid    bool   `json:"valid"`
	Report   string `json:"report"`
	Appends  int    `json:"appends"`
	Updates  int    `json:"updates"`
	Deletes  int    `json:"deletes"`
}

// Service runs the submission pipeline.
type Service struct {
	client   storage.Client
	bucket   string
	store    TableStore
	registry *filetype.Registry
	engine   *reconcile.Engine
	server   server.Config
	logger   *zap.Logger
}

// NewService creates a submission service.
func NewService(client storage.Client, bucket string, store TableStore, cfg server.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:   client,
		bucket:   bucket,
		store:    store,
		registry: filetype.NewRegistry(),
		engine:   reconcile.NewEngine(logger),
		server:   cfg,
		logger:   logger,
	}
}

// Upload stores raw file content in the center's bucket prefix so it can
// be processed.
func (s *Service) Upload(ctx context.Context, center, filename string, content []byte) error {
	center = strings.ToUpper(center)
	if !s.server.IsKnownCenter(center) {
		return fmt.Errorf("%w: %s", ErrUnknownCenter, center)
	}
	_, err := s.client.PutObject(ctx, s.bucket, objectName(center, filename),
		bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: "text/tab-separated-values"})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	return nil
}

// Process validates a submitted file and, when it passes, reconciles it
// into the file type's store table. Validation failures are recorded in
// the invalid_reasons table and reported in the result, not as an error.
func (s *Service) Process(ctx context.Context, center, filename string) (*Result, error) {
	center = strings.ToUpper(center)
	if !s.server.IsKnownCenter(center) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCenter, center)
	}

	format, err := s.registry.Resolve(center, filename)
	if err != nil {
		return nil, err
	}
	l := s.logger.With(
		zap.String("center", center),
		zap.String("filename", filename),
		zap.String("file_type", format.Name()),
	)

	obj, err := s.client.GetObject(ctx, s.bucket, objectName(center, filename), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", filename, err)
	}
	defer obj.Close()

	result := &Result{Center: center, Filename: filename, FileType: format.Name()}

	table, err := format.Read(obj)
	if err != nil {
		// An unreadable file is a validation failure, not a pipeline error.
		vr := &filetype.ValidationResult{
			Errors: []string{fmt.Sprintf("the file cannot be read: %v", err)},
		}
		result.Report = vr.Report()
		l.Warn("submission cannot be read", zap.Error(err))
		return result, s.recordInvalidReason(ctx, center, filename, vr.Report())
	}

	vr := format.Validate(table)
	result.Valid = vr.IsValid()
	result.Report = vr.Report()
	if !vr.IsValid() {
		l.Warn("submission failed validation", zap.Int("errors", len(vr.Errors)))
		return result, s.recordInvalidReason(ctx, center, filename, vr.Report())
	}

	snapshot, err := s.store.Snapshot(ctx, format.TableName())
	if err != nil {
		return nil, err
	}
	// Scope the snapshot to the submitting center when the table tracks
	// centers: a center's resubmission may then retire its own rows
	// without touching anyone else's.
	scoped, hasCenter, err := filterRows(snapshot, "CENTER", center)
	if err != nil {
		return nil, err
	}

	batch, err := s.engine.Reconcile(scoped, table, format.KeyColumns(), reconcile.Options{AllowDelete: hasCenter})
	if err != nil {
		return nil, err
	}
	result.Appends = batch.Appends()
	result.Updates = batch.Updates()
	result.Deletes = len(batch.Deletes)

	if err := s.archiveBatch(ctx, center, filename, batch); err != nil {
		return nil, err
	}
	if err := s.store.Apply(ctx, format.TableName(), batch); err != nil {
		return nil, err
	}
	if err := s.clearInvalidReason(ctx, center, filename); err != nil {
		return nil, err
	}

	l.Info("submission processed",
		zap.Int("appends", result.Appends),
		zap.Int("updates", result.Updates),
		zap.Int("deletes", result.Deletes),
	)
	return result, nil
}

// archiveBatch uploads the batch's audit CSV next to the submission.
func (s *Service) archiveBatch(ctx context.Context, center, filename string, batch *reconcile.Batch) error {
	var buf bytes.Buffer
	if err := batch.WriteCSV(&buf); err != nil {
		return fmt.Errorf("failed to serialize audit batch: %w", err)
	}
	name := "audit/" + center + "/" + filename + ".csv"
	_, err := s.client.PutObject(ctx, s.bucket, name,
		bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return fmt.Errorf("failed to archive audit batch: %w", err)
	}
	return nil
}

func objectName(center, filename string) string {
	return center + "/" + filename
}

// filterRows returns the rows whose rendered value in the named column
// equals want. When the column does not exist the table is returned
// unchanged and ok is false.
func filterRows(t *rowset.Table, col, want string) (scoped *rowset.Table, ok bool, err error) {
	idx, ok := t.ColumnIndex(col)
	if !ok {
		return t, false, nil
	}
	out := rowset.MustNewTable(t.Columns()...)
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		if row.Values[idx].Render() != want {
			continue
		}
		if row.Identity != nil {
			err = out.AppendIdentifiedRow(*row.Identity, row.Values...)
		} else {
			err = out.AppendRow(row.Values...)
		}
		if err != nil {
			return nil, false, err
		}
	}
	return out, true, nil
}
