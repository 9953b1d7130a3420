package usecases

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomdata/import-backend/models"
	"github.com/ecomdata/import-backend/repositories"
	"github.com/ecomdata/import-backend/usecases/mapping"
	"github.com/ecomdata/import-backend/usecases/validation"
	"github.com/ecomdata/import-backend/utils"
)

type fakeExecutor struct{}

func (fakeExecutor) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (fakeExecutor) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (fakeExecutor) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (fakeExecutor) RawTx() pgx.Tx { return nil }

type fakeExecutorGetter struct{}

func (fakeExecutorGetter) GetExecutor() repositories.Executor { return fakeExecutor{} }

func (fakeExecutorGetter) Transaction(ctx context.Context, fn func(tx repositories.Transaction) error) error {
	return fn(fakeExecutor{})
}

type fakeJobRepository struct {
	mu           sync.Mutex
	jobs         map[string]models.ImportJob
	insertedRows []repositories.ImportedRow
	insertErr    error
}

func newFakeJobRepository() *fakeJobRepository {
	return &fakeJobRepository{jobs: make(map[string]models.ImportJob)}
}

func (r *fakeJobRepository) CreateImportJob(ctx context.Context, exec repositories.Executor,
	input models.CreateImportJobInput,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[input.Id] = models.ImportJob{
		Id:        input.Id,
		OwnerId:   input.OwnerId,
		DataType:  input.DataType,
		FileName:  input.FileName,
		FilePath:  input.FilePath,
		FileSize:  input.FileSize,
		FileKind:  input.FileKind,
		Status:    models.ImportStatusUploaded,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return nil
}

func (r *fakeJobRepository) GetImportJobById(ctx context.Context, exec repositories.Executor,
	id string,
) (models.ImportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return models.ImportJob{}, errors.Wrapf(models.NotFoundError, "import job %s", id)
	}
	return job, nil
}

func (r *fakeJobRepository) UpdateImportJob(ctx context.Context, exec repositories.Executor,
	input models.UpdateImportJobInput,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[input.Id]
	if !ok {
		return errors.Wrapf(models.NotFoundError, "import job %s", input.Id)
	}
	if input.Status != nil {
		job.Status = *input.Status
	}
	if input.SourceFields != nil {
		job.SourceFields = input.SourceFields
	}
	if input.Mapping != nil {
		job.Mapping = input.Mapping
	}
	if input.ValidationSummary != nil {
		job.ValidationSummary = input.ValidationSummary
	}
	if input.TotalRows != nil {
		job.TotalRows = *input.TotalRows
	}
	if input.ProcessedRows != nil {
		job.ProcessedRows = *input.ProcessedRows
	}
	if input.SuccessRows != nil {
		job.SuccessRows = *input.SuccessRows
	}
	if input.FailedRows != nil {
		job.FailedRows = *input.FailedRows
	}
	if input.ErrorMessage != nil {
		job.ErrorMessage = *input.ErrorMessage
	}
	job.UpdatedAt = time.Now()
	r.jobs[input.Id] = job
	return nil
}

func (r *fakeJobRepository) ListImportJobsByOwner(ctx context.Context, exec repositories.Executor,
	ownerId string, page models.PageParams,
) ([]models.ImportJob, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var jobs []models.ImportJob
	for _, job := range r.jobs {
		if job.OwnerId == ownerId {
			jobs = append(jobs, job)
		}
	}
	return jobs, len(jobs), nil
}

func (r *fakeJobRepository) InsertImportedRows(ctx context.Context, exec repositories.Executor,
	rows []repositories.ImportedRow,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.insertedRows = append(r.insertedRows, rows...)
	return nil
}

type fakeProgressRepository struct {
	mu        sync.Mutex
	progress  map[string]models.ImportProgress
	cancelled map[string]bool

	// cancelAfterChecks makes IsCancellationRequested report true from the
	// n-th call on, to simulate a cancel request landing mid-run
	cancelAfterChecks int
	checks            int
}

func newFakeProgressRepository() *fakeProgressRepository {
	return &fakeProgressRepository{
		progress:  make(map[string]models.ImportProgress),
		cancelled: make(map[string]bool),
	}
}

func (r *fakeProgressRepository) SaveProgress(ctx context.Context, progress models.ImportProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress[progress.JobId] = progress
	return nil
}

func (r *fakeProgressRepository) GetProgress(ctx context.Context, jobId string) (*models.ImportProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	progress, ok := r.progress[jobId]
	if !ok {
		return nil, nil
	}
	return &progress, nil
}

func (r *fakeProgressRepository) RequestCancellation(ctx context.Context, jobId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled[jobId] = true
	return nil
}

func (r *fakeProgressRepository) IsCancellationRequested(ctx context.Context, jobId string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks++
	if r.cancelled[jobId] {
		return true, nil
	}
	return r.cancelAfterChecks > 0 && r.checks >= r.cancelAfterChecks, nil
}

func (r *fakeProgressRepository) ClearJob(ctx context.Context, jobId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.progress, jobId)
	delete(r.cancelled, jobId)
	return nil
}

type fakeBlobRepository struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeBlobRepository() *fakeBlobRepository {
	return &fakeBlobRepository{files: make(map[string][]byte)}
}

func (r *fakeBlobRepository) GetBlob(ctx context.Context, bucketUrl, fileName string) (repositories.Blob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.files[fileName]
	if !ok {
		return repositories.Blob{}, errors.Wrapf(models.NotFoundError, "file %s", fileName)
	}
	return repositories.Blob{
		FileName:   fileName,
		ReadCloser: io.NopCloser(bytes.NewReader(data)),
	}, nil
}

type fakeBlobWriter struct {
	buf   bytes.Buffer
	store func([]byte)
}

func (w *fakeBlobWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *fakeBlobWriter) Close() error {
	w.store(w.buf.Bytes())
	return nil
}

func (r *fakeBlobRepository) OpenStream(ctx context.Context, bucketUrl, fileName string) (io.WriteCloser, error) {
	return &fakeBlobWriter{store: func(data []byte) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.files[fileName] = data
	}}, nil
}

func (r *fakeBlobRepository) DeleteFile(ctx context.Context, bucketUrl, fileName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, fileName)
	return nil
}

type importTestHarness struct {
	uc       *ImportUseCase
	jobs     *fakeJobRepository
	progress *fakeProgressRepository
	blobs    *fakeBlobRepository
	ctx      context.Context
}

func newImportTestHarness(t *testing.T, batchSize int) *importTestHarness {
	t.Helper()

	jobs := newFakeJobRepository()
	progress := newFakeProgressRepository()
	blobs := newFakeBlobRepository()

	uc := &ImportUseCase{
		executorGetter:      fakeExecutorGetter{},
		importJobRepository: jobs,
		progressRepository:  progress,
		blobRepository:      blobs,
		registry:            validation.DefaultRegistry(),
		aliases:             mapping.DefaultAliasTable(),
		bucketUrl:           "mem://test",
		batchSize:           batchSize,
	}

	ctx := utils.StoreCredentialsInContext(context.Background(), models.Credentials{UserId: "user-1"})
	return &importTestHarness{uc: uc, jobs: jobs, progress: progress, blobs: blobs, ctx: ctx}
}

// orderCsv builds a well formed order file with rowCount data rows. Rows whose
// 1-based number appears in badRows get a non-numeric amount.
func orderCsv(rowCount int, badRows ...int) string {
	bad := make(map[int]bool, len(badRows))
	for _, row := range badRows {
		bad[row] = true
	}

	var b strings.Builder
	b.WriteString("order_id,amount,order_date\n")
	for i := 1; i <= rowCount; i++ {
		amount := "10.50"
		if bad[i] {
			amount = "not-a-number"
		}
		fmt.Fprintf(&b, "A-%d,%s,2026-08-01\n", i, amount)
	}
	return b.String()
}

var testOrderMapping = map[string]string{
	"order_id":   "order_id",
	"amount":     "amount",
	"order_date": "order_date",
}

func (h *importTestHarness) seedJob(status models.ImportStatus, csv string) models.ImportJob {
	job := models.ImportJob{
		Id:           "job-1",
		OwnerId:      "user-1",
		DataType:     "order",
		FileName:     "orders.csv",
		FilePath:     "imports/job-1/orders.csv",
		FileKind:     models.FileKindCsv,
		Status:       status,
		SourceFields: []string{"order_id", "amount", "order_date"},
		Mapping:      testOrderMapping,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	h.jobs.jobs[job.Id] = job
	h.blobs.files[job.FilePath] = []byte(csv)
	return job
}

func TestUploadFile(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)

	content := orderCsv(2)
	job, err := h.uc.UploadFile(h.ctx, UploadFileInput{
		DataType: "order",
		FileName: "orders.csv",
		Reader:   strings.NewReader(content),
	})
	require.NoError(t, err)

	assert.Equal(t, models.ImportStatusUploaded, job.Status)
	assert.Equal(t, "user-1", job.OwnerId)
	assert.Equal(t, models.FileKindCsv, job.FileKind)
	assert.Equal(t, int64(len(content)), job.FileSize)
	assert.Equal(t, []byte(content), h.blobs.files[job.FilePath])
}

func TestUploadFileRejectsUnsupportedFormat(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)

	_, err := h.uc.UploadFile(h.ctx, UploadFileInput{
		DataType: "order",
		FileName: "orders.pdf",
		Reader:   strings.NewReader("whatever"),
	})
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
	assert.Empty(t, h.blobs.files)
}

func TestUploadFileRejectsUnknownDataType(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)

	_, err := h.uc.UploadFile(h.ctx, UploadFileInput{
		DataType: "invoice",
		FileName: "orders.csv",
		Reader:   strings.NewReader("id\n"),
	})
	assert.ErrorIs(t, err, models.ErrUnknownDataType)
}

func TestUploadFileRequiresCredentials(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)

	_, err := h.uc.UploadFile(context.Background(), UploadFileInput{
		DataType: "order",
		FileName: "orders.csv",
		Reader:   strings.NewReader("id\n"),
	})
	assert.ErrorIs(t, err, models.UnAuthorizedError)
}

func TestParseFile(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)
	h.seedJob(models.ImportStatusUploaded, orderCsv(25))

	job, preview, err := h.uc.ParseFile(h.ctx, "job-1")
	require.NoError(t, err)

	assert.Equal(t, models.ImportStatusParsed, job.Status)
	assert.Equal(t, []string{"order_id", "amount", "order_date"}, job.SourceFields)
	assert.Equal(t, 25, job.TotalRows)
	assert.Len(t, preview, PreviewRowCount)
	assert.Equal(t, "A-1", preview[0]["order_id"])
}

func TestParseFileRejectsWrongState(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)
	h.seedJob(models.ImportStatusCompleted, orderCsv(1))

	_, _, err := h.uc.ParseFile(h.ctx, "job-1")
	assert.ErrorIs(t, err, models.ErrInvalidJobState)
}

func TestParseFailureMarksJobFailed(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)
	h.seedJob(models.ImportStatusUploaded, "order_id,amount,order_id\nA-1,10,A-1\n")

	_, _, err := h.uc.ParseFile(h.ctx, "job-1")
	assert.ErrorIs(t, err, models.ErrDuplicateColumn)

	job := h.jobs.jobs["job-1"]
	assert.Equal(t, models.ImportStatusFailed, job.Status)
	assert.NotEmpty(t, job.ErrorMessage)
}

func TestProposeMapping(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)
	h.seedJob(models.ImportStatusParsed, orderCsv(2))

	proposal, err := h.uc.ProposeMapping(h.ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, proposal, 3)

	for _, m := range proposal {
		assert.Equal(t, m.SourceField, m.TargetField)
		assert.Equal(t, models.ConfidenceHigh, m.Confidence)
	}
	assert.Equal(t, models.ImportStatusMapping, h.jobs.jobs["job-1"].Status)
}

func TestSetMapping(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)
	h.seedJob(models.ImportStatusMapping, orderCsv(2))

	job, err := h.uc.SetMapping(h.ctx, "job-1", testOrderMapping)
	require.NoError(t, err)
	assert.Equal(t, models.ImportStatusMapped, job.Status)
	assert.Equal(t, testOrderMapping, job.Mapping)
}

func TestSetMappingRejectsBadEntries(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)
	h.seedJob(models.ImportStatusMapping, orderCsv(2))

	_, err := h.uc.SetMapping(h.ctx, "job-1", map[string]string{"ghost_column": "amount"})
	assert.ErrorIs(t, err, models.BadParameterError)

	_, err = h.uc.SetMapping(h.ctx, "job-1", map[string]string{"amount": "not_a_target"})
	assert.ErrorIs(t, err, models.BadParameterError)

	_, err = h.uc.SetMapping(h.ctx, "job-1", map[string]string{
		"order_id": "amount",
		"amount":   "amount",
	})
	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestSetMappingFrozenOnceImporting(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)
	h.seedJob(models.ImportStatusImporting, orderCsv(2))

	_, err := h.uc.SetMapping(h.ctx, "job-1", testOrderMapping)
	assert.ErrorIs(t, err, models.ErrMappingFrozen)
}

func TestValidateRows(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)
	h.seedJob(models.ImportStatusMapped, orderCsv(10, 3, 7))

	summary, err := h.uc.ValidateRows(h.ctx, "job-1")
	require.NoError(t, err)

	assert.Equal(t, 10, summary.TotalRows)
	assert.Equal(t, 8, summary.Passed)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 2, summary.ErrorsByField["amount"])

	job := h.jobs.jobs["job-1"]
	assert.Equal(t, models.ImportStatusValidated, job.Status)
	require.NotNil(t, job.ValidationSummary)
	assert.Equal(t, 2, job.ValidationSummary.Failed)
}

func TestValidateRowsRejectsWrongState(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)
	h.seedJob(models.ImportStatusParsed, orderCsv(2))

	_, err := h.uc.ValidateRows(h.ctx, "job-1")
	assert.ErrorIs(t, err, models.ErrInvalidJobState)
}

func TestOwnershipIsEnforced(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)
	job := h.seedJob(models.ImportStatusParsed, orderCsv(2))
	job.OwnerId = "someone-else"
	h.jobs.jobs[job.Id] = job

	_, err := h.uc.GetJob(h.ctx, "job-1")
	assert.ErrorIs(t, err, models.ForbiddenError)

	_, _, err = h.uc.ParseFile(h.ctx, "job-1")
	assert.ErrorIs(t, err, models.ForbiddenError)

	_, err = h.uc.ConfirmImport(h.ctx, "job-1")
	assert.ErrorIs(t, err, models.ForbiddenError)
}

func TestGetStatusPrefersSnapshot(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)
	h.seedJob(models.ImportStatusImporting, orderCsv(2))

	require.NoError(t, h.progress.SaveProgress(h.ctx, models.ImportProgress{
		JobId:         "job-1",
		Status:        models.ImportStatusImporting,
		TotalRows:     5000,
		ProcessedRows: 3000,
		SuccessRows:   2990,
		FailedRows:    10,
	}))

	progress, err := h.uc.GetStatus(h.ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, 3000, progress.ProcessedRows)
}

func TestGetStatusFallsBackToDurableRecord(t *testing.T) {
	h := newImportTestHarness(t, DefaultBatchSize)
	job := h.seedJob(models.ImportStatusCompleted, orderCsv(2))
	job.TotalRows = 2
	job.ProcessedRows = 2
	job.SuccessRows = 2
	h.jobs.jobs[job.Id] = job

	progress, err := h.uc.GetStatus(h.ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ImportStatusCompleted, progress.Status)
	assert.Equal(t, 2, progress.SuccessRows)
}
