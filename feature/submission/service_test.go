package submission_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"data-curator/core/reconcile"
	"data-curator/core/rowset"
	"data-curator/core/server"
	"data-curator/core/storage/mocks"
	"data-curator/feature/submission"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory TableStore recording applied batches.
type fakeStore struct {
	tables  map[string]*rowset.Table
	applied map[string][]*reconcile.Batch
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables:  make(map[string]*rowset.Table),
		applied: make(map[string][]*reconcile.Batch),
	}
}

func (f *fakeStore) Snapshot(_ context.Context, table string) (*rowset.Table, error) {
	t, ok := f.tables[table]
	if !ok {
		return nil, fmt.Errorf("no such table %s", table)
	}
	return t.Clone(), nil
}

func (f *fakeStore) Apply(_ context.Context, table string, batch *reconcile.Batch) error {
	f.applied[table] = append(f.applied[table], batch)
	return nil
}

func clinicalStore(t *testing.T) *rowset.Table {
	t.Helper()
	table := rowset.MustNewTable("SAMPLE_ID", "PATIENT_ID", "CENTER")
	require.NoError(t, table.AppendIdentifiedRow(rowset.Identity{ID: "1", Version: "3"},
		rowset.String("GENIE-SAGE-1-1"), rowset.String("GENIE-SAGE-1"), rowset.String("SAGE")))
	require.NoError(t, table.AppendIdentifiedRow(rowset.Identity{ID: "2", Version: "1"},
		rowset.String("GENIE-SAGE-2-1"), rowset.String("GENIE-SAGE-2"), rowset.String("SAGE")))
	require.NoError(t, table.AppendIdentifiedRow(rowset.Identity{ID: "3", Version: "1"},
		rowset.String("GENIE-OTHER-1-1"), rowset.String("GENIE-OTHER-1"), rowset.String("OTHER")))
	return table
}

func emptyInvalidReasons() *rowset.Table {
	return rowset.MustNewTable("CENTER", "FILE_NAME", "ERRORS")
}

func newTestService(store *fakeStore, client *mocks.Client) *submission.Service {
	return submission.NewService(client, "submissions", store, server.Config{Centers: "SAGE,OTHER"}, nil)
}

func TestProcess_ValidClinical(t *testing.T) {
	store := newFakeStore()
	store.tables["clinical"] = clinicalStore(t)
	store.tables[submission.InvalidReasonsTable] = emptyInvalidReasons()

	// New file: keeps sample 1, changes sample 2's patient, drops nothing,
	// adds sample 4.
	content := "SAMPLE_ID\tPATIENT_ID\tCENTER\n" +
		"GENIE-SAGE-1-1\tGENIE-SAGE-1\tSAGE\n" +
		"GENIE-SAGE-2-1\tGENIE-SAGE-9\tSAGE\n" +
		"GENIE-SAGE-4-1\tGENIE-SAGE-4\tSAGE\n"

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "submissions", "SAGE/data_clinical_supp_SAGE.txt", mock.Anything).
		Return(io.NopCloser(strings.NewReader(content)), nil)
	client.On("PutObject", mock.Anything, "submissions", "audit/SAGE/data_clinical_supp_SAGE.txt.csv",
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := newTestService(store, client)
	result, err := svc.Process(context.Background(), "SAGE", "data_clinical_supp_SAGE.txt")
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, "clinical", result.FileType)
	assert.Equal(t, 1, result.Appends)
	assert.Equal(t, 1, result.Updates)
	assert.Equal(t, 0, result.Deletes)

	require.Len(t, store.applied["clinical"], 1)
	batch := store.applied["clinical"][0]
	assert.Equal(t, []string{"SAMPLE_ID", "PATIENT_ID", "CENTER"}, batch.Columns)

	client.AssertExpectations(t)
}

func TestProcess_CenterScopedDeletes(t *testing.T) {
	store := newFakeStore()
	store.tables["clinical"] = clinicalStore(t)
	store.tables[submission.InvalidReasonsTable] = emptyInvalidReasons()

	// The resubmission drops sample 2. The OTHER center's row must survive.
	content := "SAMPLE_ID\tPATIENT_ID\tCENTER\n" +
		"GENIE-SAGE-1-1\tGENIE-SAGE-1\tSAGE\n"

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader(content)), nil)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := newTestService(store, client)
	result, err := svc.Process(context.Background(), "SAGE", "data_clinical_supp_SAGE.txt")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deletes)
	batch := store.applied["clinical"][0]
	require.Len(t, batch.Deletes, 1)
	assert.Equal(t, rowset.Identity{ID: "2", Version: "1"}, batch.Deletes[0])
}

func TestProcess_ClinicalWithoutCenterColumn(t *testing.T) {
	store := newFakeStore()
	store.tables["clinical"] = clinicalStore(t)
	store.tables[submission.InvalidReasonsTable] = emptyInvalidReasons()

	// No CENTER column; it must be derived from the sample id prefix so
	// the file reconciles against the store's full column set instead of
	// failing mid-pipeline. Sample 2 is dropped, sample 4 is new.
	content := "SAMPLE_ID\tPATIENT_ID\n" +
		"GENIE-SAGE-1-1\tGENIE-SAGE-1\n" +
		"GENIE-SAGE-4-1\tGENIE-SAGE-4\n"

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader(content)), nil)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := newTestService(store, client)
	result, err := svc.Process(context.Background(), "SAGE", "data_clinical_supp_SAGE.txt")
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.Appends)
	assert.Equal(t, 0, result.Updates)
	assert.Equal(t, 1, result.Deletes)

	// The appended row carries the derived center.
	batch := store.applied["clinical"][0]
	appended := findBatchRow(t, batch, "SAMPLE_ID", "GENIE-SAGE-4-1")
	centerIdx := columnIndex(batch.Columns, "CENTER")
	assert.Equal(t, "SAGE", appended[centerIdx])
}

func findBatchRow(t *testing.T, batch *reconcile.Batch, col, want string) []string {
	t.Helper()
	idx := columnIndex(batch.Columns, col)
	require.GreaterOrEqual(t, idx, 0)
	for _, r := range batch.Rows {
		if r.Values[idx] == want {
			return r.Values
		}
	}
	t.Fatalf("no batch row with %s = %s", col, want)
	return nil
}

func columnIndex(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}

func TestProcess_InvalidFileIsRecorded(t *testing.T) {
	store := newFakeStore()
	store.tables[submission.InvalidReasonsTable] = emptyInvalidReasons()

	// Missing PATIENT_ID column.
	content := "SAMPLE_ID\tCENTER\nGENIE-SAGE-1-1\tSAGE\n"

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader(content)), nil)

	svc := newTestService(store, client)
	result, err := svc.Process(context.Background(), "SAGE", "data_clinical_supp_SAGE.txt")
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Contains(t, result.Report, "file must contain the PATIENT_ID column")

	// No write to the clinical table, one upsert into invalid_reasons.
	assert.Empty(t, store.applied["clinical"])
	require.Len(t, store.applied[submission.InvalidReasonsTable], 1)
	assert.Equal(t, 1, store.applied[submission.InvalidReasonsTable][0].Appends())
}

func TestProcess_UnknownCenter(t *testing.T) {
	svc := newTestService(newFakeStore(), new(mocks.Client))

	_, err := svc.Process(context.Background(), "NOPE", "data_sv_NOPE.txt")
	assert.ErrorIs(t, err, submission.ErrUnknownCenter)
}

func TestProcess_UnknownFilename(t *testing.T) {
	svc := newTestService(newFakeStore(), new(mocks.Client))

	_, err := svc.Process(context.Background(), "SAGE", "notes.docx")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, submission.ErrUnknownCenter)
}

func TestCenterErrorReport(t *testing.T) {
	store := newFakeStore()
	reasons := emptyInvalidReasons()
	require.NoError(t, reasons.AppendIdentifiedRow(rowset.Identity{ID: "1", Version: "1"},
		rowset.String("SAGE"), rowset.String("data_sv_SAGE.txt"), rowset.String("file must contain the SAMPLE_ID column")))
	store.tables[submission.InvalidReasonsTable] = reasons

	svc := newTestService(store, new(mocks.Client))

	t.Run("WithErrors", func(t *testing.T) {
		report, err := svc.CenterErrorReport(context.Background(), "SAGE")
		require.NoError(t, err)
		assert.Contains(t, report, "data_sv_SAGE.txt")
		assert.Contains(t, report, "file must contain the SAMPLE_ID column")
	})

	t.Run("CleanCenter", func(t *testing.T) {
		report, err := svc.CenterErrorReport(context.Background(), "OTHER")
		require.NoError(t, err)
		assert.Equal(t, "No errors!", report)
	})

	t.Run("UnknownCenter", func(t *testing.T) {
		_, err := svc.CenterErrorReport(context.Background(), "NOPE")
		assert.ErrorIs(t, err, submission.ErrUnknownCenter)
	})
}

func TestUpload(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "submissions", "SAGE/data_sv_SAGE.txt",
		mock.Anything, int64(4), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := newTestService(newFakeStore(), client)
	err := svc.Upload(context.Background(), "sage", "data_sv_SAGE.txt", []byte("abcd"))
	require.NoError(t, err)
	client.AssertExpectations(t)
}
