package usecases

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/ecomdata/import-backend/models"
	"github.com/ecomdata/import-backend/pure_utils"
	"github.com/ecomdata/import-backend/repositories"
	"github.com/ecomdata/import-backend/usecases/mapping"
	"github.com/ecomdata/import-backend/usecases/parsing"
	"github.com/ecomdata/import-backend/usecases/validation"
	"github.com/ecomdata/import-backend/utils"
)

const (
	// DefaultBatchSize is the number of rows committed per transaction during a
	// confirm run. Cancellation is only observed at these boundaries.
	DefaultBatchSize = 1000

	// PreviewRowCount is how many leading data rows parse returns for display.
	PreviewRowCount = 10

	// maxSampleErrors caps the per-run row error sample kept in memory and
	// returned by confirm.
	maxSampleErrors = 100
)

type executorGetter interface {
	GetExecutor() repositories.Executor
	Transaction(ctx context.Context, fn func(tx repositories.Transaction) error) error
}

type importJobRepository interface {
	CreateImportJob(ctx context.Context, exec repositories.Executor, input models.CreateImportJobInput) error
	GetImportJobById(ctx context.Context, exec repositories.Executor, id string) (models.ImportJob, error)
	UpdateImportJob(ctx context.Context, exec repositories.Executor, input models.UpdateImportJobInput) error
	ListImportJobsByOwner(ctx context.Context, exec repositories.Executor,
		ownerId string, page models.PageParams) ([]models.ImportJob, int, error)
	InsertImportedRows(ctx context.Context, exec repositories.Executor, rows []repositories.ImportedRow) error
}

// ImportUseCase drives one import job through its lifecycle. It is the only
// writer of job status and row counters; repositories stay mechanical.
type ImportUseCase struct {
	executorGetter      executorGetter
	importJobRepository importJobRepository
	progressRepository  repositories.ImportProgressRepository
	blobRepository      repositories.BlobRepository
	registry            *validation.Registry
	aliases             mapping.AliasTable
	bucketUrl           string
	batchSize           int
}

type UploadFileInput struct {
	DataType string
	FileName string
	Reader   io.Reader
}

// UploadFile stores the raw file and creates the job record in status uploaded.
// Format and data type are checked up front so a doomed upload fails fast.
func (uc *ImportUseCase) UploadFile(ctx context.Context, input UploadFileInput) (models.ImportJob, error) {
	creds := utils.CredentialsFromCtx(ctx)
	if creds.UserId == "" {
		return models.ImportJob{}, errors.Wrap(models.UnAuthorizedError, "missing credentials")
	}

	fileKind := models.FileKindFromName(input.FileName)
	if fileKind == models.FileKindUnknown {
		return models.ImportJob{}, errors.Wrapf(models.ErrUnsupportedFormat,
			"file %q is neither csv nor xlsx", input.FileName)
	}
	if _, err := uc.registry.Get(input.DataType); err != nil {
		return models.ImportJob{}, err
	}

	jobId := uuid.NewString()
	filePath := fmt.Sprintf("imports/%s/%s", jobId, input.FileName)

	writer, err := uc.blobRepository.OpenStream(ctx, uc.bucketUrl, filePath)
	if err != nil {
		return models.ImportJob{}, err
	}
	written, err := io.Copy(writer, input.Reader)
	if closeErr := writer.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return models.ImportJob{}, errors.Wrap(err, "could not store uploaded file")
	}

	exec := uc.executorGetter.GetExecutor()
	err = uc.importJobRepository.CreateImportJob(ctx, exec, models.CreateImportJobInput{
		Id:       jobId,
		OwnerId:  creds.UserId,
		DataType: input.DataType,
		FileName: input.FileName,
		FilePath: filePath,
		FileSize: written,
		FileKind: fileKind,
	})
	if err != nil {
		return models.ImportJob{}, err
	}

	utils.LoggerFromContext(ctx).InfoContext(ctx, "import file uploaded",
		"job_id", jobId, "data_type", input.DataType, "file_size", written)

	return uc.importJobRepository.GetImportJobById(ctx, exec, jobId)
}

// ParseFile reads the stored file once, records the source columns and the row
// count, and returns a short preview. A parse failure marks the job failed.
func (uc *ImportUseCase) ParseFile(ctx context.Context, jobId string) (models.ImportJob, []parsing.Row, error) {
	exec := uc.executorGetter.GetExecutor()
	job, err := uc.getJobForOwner(ctx, exec, jobId)
	if err != nil {
		return models.ImportJob{}, nil, err
	}
	if !job.Status.CanTransitionTo(models.ImportStatusParsing) {
		return models.ImportJob{}, nil, errors.Wrapf(models.ErrInvalidJobState,
			"cannot parse a job in status %q", job.Status)
	}

	if err := uc.updateStatus(ctx, exec, jobId, models.ImportStatusParsing); err != nil {
		return models.ImportJob{}, nil, err
	}

	preview := make([]parsing.Row, 0, PreviewRowCount)
	totalRows := 0
	header, err := uc.parseStoredFile(ctx, job, func(rowNumber int, row parsing.Row) error {
		totalRows++
		if len(preview) < PreviewRowCount {
			preview = append(preview, row)
		}
		return nil
	})
	if err != nil {
		return models.ImportJob{}, nil, uc.failJob(ctx, exec, jobId, err)
	}

	err = uc.importJobRepository.UpdateImportJob(ctx, exec, models.UpdateImportJobInput{
		Id:           jobId,
		Status:       pure_utils.Ptr(models.ImportStatusParsed),
		SourceFields: header,
		TotalRows:    &totalRows,
	})
	if err != nil {
		return models.ImportJob{}, nil, err
	}

	job, err = uc.importJobRepository.GetImportJobById(ctx, exec, jobId)
	return job, preview, err
}

// ProposeMapping computes the automatic source-to-target mapping proposal for
// review. The job moves to status mapping; nothing is confirmed yet.
func (uc *ImportUseCase) ProposeMapping(ctx context.Context, jobId string) ([]models.FieldMapping, error) {
	exec := uc.executorGetter.GetExecutor()
	job, err := uc.getJobForOwner(ctx, exec, jobId)
	if err != nil {
		return nil, err
	}
	if !job.Status.CanTransitionTo(models.ImportStatusMapping) {
		return nil, errors.Wrapf(models.ErrInvalidJobState,
			"cannot map a job in status %q", job.Status)
	}

	dataType, err := uc.registry.Get(job.DataType)
	if err != nil {
		return nil, err
	}

	mapper := mapping.NewMapper(dataType.TargetFields, uc.aliases)
	for source, target := range job.Mapping {
		mapper.ApplyOverride(source, target)
	}
	proposal := mapper.Propose(job.SourceFields)

	if err := uc.updateStatus(ctx, exec, jobId, models.ImportStatusMapping); err != nil {
		return nil, err
	}
	return proposal, nil
}

// SetMapping confirms the source-to-target mapping, after checking every entry
// against the parsed columns and the data type's target fields. The mapping is
// frozen once importing has started.
func (uc *ImportUseCase) SetMapping(ctx context.Context, jobId string, confirmed map[string]string) (models.ImportJob, error) {
	exec := uc.executorGetter.GetExecutor()
	job, err := uc.getJobForOwner(ctx, exec, jobId)
	if err != nil {
		return models.ImportJob{}, err
	}
	if job.Status == models.ImportStatusImporting || job.Status.IsTerminal() {
		return models.ImportJob{}, errors.Wrapf(models.ErrMappingFrozen,
			"job is in status %q", job.Status)
	}
	if !job.Status.CanTransitionTo(models.ImportStatusMapped) &&
		!job.Status.CanTransitionTo(models.ImportStatusMapping) {
		return models.ImportJob{}, errors.Wrapf(models.ErrInvalidJobState,
			"cannot set the mapping of a job in status %q", job.Status)
	}

	dataType, err := uc.registry.Get(job.DataType)
	if err != nil {
		return models.ImportJob{}, err
	}
	if err := checkMapping(confirmed, job.SourceFields, dataType.TargetFields); err != nil {
		return models.ImportJob{}, err
	}

	err = uc.importJobRepository.UpdateImportJob(ctx, exec, models.UpdateImportJobInput{
		Id:      jobId,
		Status:  pure_utils.Ptr(models.ImportStatusMapped),
		Mapping: confirmed,
	})
	if err != nil {
		return models.ImportJob{}, err
	}
	return uc.importJobRepository.GetImportJobById(ctx, exec, jobId)
}

func checkMapping(confirmed map[string]string, sourceFields, targetFields []string) error {
	knownSources := make(map[string]bool, len(sourceFields))
	for _, source := range sourceFields {
		knownSources[source] = true
	}
	knownTargets := make(map[string]bool, len(targetFields))
	for _, target := range targetFields {
		knownTargets[target] = true
	}

	usedTargets := make(map[string]string, len(confirmed))
	for source, target := range confirmed {
		if !knownSources[source] {
			return errors.Wrapf(models.BadParameterError,
				"source column %q does not exist in the file", source)
		}
		if target == "" {
			continue
		}
		if !knownTargets[target] {
			return errors.Wrapf(models.BadParameterError,
				"unknown target field %q", target)
		}
		if other, taken := usedTargets[target]; taken {
			return errors.Wrapf(models.BadParameterError,
				"target field %q is mapped from both %q and %q", target, other, source)
		}
		usedTargets[target] = source
	}
	if len(usedTargets) == 0 {
		return errors.Wrap(models.BadParameterError, "mapping must bind at least one column")
	}
	return nil
}

// ValidateRows replays the file through the confirmed mapping and the data
// type's rules, and persists the resulting summary. The job is importable only
// after this pass, whatever the failure count.
func (uc *ImportUseCase) ValidateRows(ctx context.Context, jobId string) (models.ValidationSummary, error) {
	exec := uc.executorGetter.GetExecutor()
	job, err := uc.getJobForOwner(ctx, exec, jobId)
	if err != nil {
		return models.ValidationSummary{}, err
	}
	if !job.Status.CanTransitionTo(models.ImportStatusValidating) {
		return models.ValidationSummary{}, errors.Wrapf(models.ErrInvalidJobState,
			"cannot validate a job in status %q", job.Status)
	}
	if len(job.Mapping) == 0 {
		return models.ValidationSummary{}, errors.Wrap(models.ErrInvalidJobState,
			"no confirmed mapping")
	}

	dataType, err := uc.registry.Get(job.DataType)
	if err != nil {
		return models.ValidationSummary{}, err
	}

	if err := uc.updateStatus(ctx, exec, jobId, models.ImportStatusValidating); err != nil {
		return models.ValidationSummary{}, err
	}

	builder := validation.NewSummaryBuilder()
	_, err = uc.parseStoredFile(ctx, job, func(rowNumber int, row parsing.Row) error {
		mapped := mapping.Transform(row, job.Mapping)
		builder.AddRow(dataType.Validator.ValidateRow(rowNumber, mapped))
		return nil
	})
	if err != nil {
		return models.ValidationSummary{}, uc.failJob(ctx, exec, jobId, err)
	}

	summary := builder.Summary()
	err = uc.importJobRepository.UpdateImportJob(ctx, exec, models.UpdateImportJobInput{
		Id:                jobId,
		Status:            pure_utils.Ptr(models.ImportStatusValidated),
		ValidationSummary: &summary,
	})
	if err != nil {
		return models.ValidationSummary{}, err
	}
	return summary, nil
}

// Cancel requests cancellation of a job. For a running confirm the flag is the
// only write: the import loop observes it at the next batch boundary and owns
// the final status. For any other non-terminal status the job is cancelled
// durably right away.
func (uc *ImportUseCase) Cancel(ctx context.Context, jobId string) (models.ImportJob, error) {
	exec := uc.executorGetter.GetExecutor()
	job, err := uc.getJobForOwner(ctx, exec, jobId)
	if err != nil {
		return models.ImportJob{}, err
	}
	if job.Status.IsTerminal() {
		return models.ImportJob{}, errors.Wrapf(models.ErrInvalidJobState,
			"job already finished in status %q", job.Status)
	}

	if err := uc.progressRepository.RequestCancellation(ctx, jobId); err != nil {
		return models.ImportJob{}, err
	}
	if job.Status == models.ImportStatusImporting {
		return job, nil
	}

	if err := uc.updateStatus(ctx, exec, jobId, models.ImportStatusCancelled); err != nil {
		return models.ImportJob{}, err
	}
	return uc.importJobRepository.GetImportJobById(ctx, exec, jobId)
}

// GetStatus serves the live progress snapshot when one exists, falling back to
// the durable record for idle or finished jobs.
func (uc *ImportUseCase) GetStatus(ctx context.Context, jobId string) (models.ImportProgress, error) {
	exec := uc.executorGetter.GetExecutor()
	job, err := uc.getJobForOwner(ctx, exec, jobId)
	if err != nil {
		return models.ImportProgress{}, err
	}

	progress, err := uc.progressRepository.GetProgress(ctx, jobId)
	if err != nil {
		return models.ImportProgress{}, err
	}
	if progress != nil {
		return *progress, nil
	}

	return models.ImportProgress{
		JobId:         job.Id,
		Status:        job.Status,
		TotalRows:     job.TotalRows,
		ProcessedRows: job.ProcessedRows,
		SuccessRows:   job.SuccessRows,
		FailedRows:    job.FailedRows,
	}, nil
}

// GetJob returns the full durable record of one job.
func (uc *ImportUseCase) GetJob(ctx context.Context, jobId string) (models.ImportJob, error) {
	return uc.getJobForOwner(ctx, uc.executorGetter.GetExecutor(), jobId)
}

// ListHistory returns the caller's jobs, newest first.
func (uc *ImportUseCase) ListHistory(ctx context.Context, page models.PageParams) (models.Paged[models.ImportJob], error) {
	creds := utils.CredentialsFromCtx(ctx)
	if creds.UserId == "" {
		return models.Paged[models.ImportJob]{}, errors.Wrap(models.UnAuthorizedError, "missing credentials")
	}

	page = page.Normalize()
	jobs, total, err := uc.importJobRepository.ListImportJobsByOwner(
		ctx, uc.executorGetter.GetExecutor(), creds.UserId, page)
	if err != nil {
		return models.Paged[models.ImportJob]{}, err
	}
	return models.Paged[models.ImportJob]{Items: jobs, Total: total, Page: page.Page, Size: page.Size}, nil
}

func (uc *ImportUseCase) getJobForOwner(ctx context.Context, exec repositories.Executor,
	jobId string,
) (models.ImportJob, error) {
	job, err := uc.importJobRepository.GetImportJobById(ctx, exec, jobId)
	if err != nil {
		return models.ImportJob{}, err
	}
	if !utils.CredentialsFromCtx(ctx).CanAccessJob(job) {
		return models.ImportJob{}, errors.Wrapf(models.ForbiddenError,
			"import job %s belongs to another user", jobId)
	}
	return job, nil
}

func (uc *ImportUseCase) updateStatus(ctx context.Context, exec repositories.Executor,
	jobId string, status models.ImportStatus,
) error {
	return uc.importJobRepository.UpdateImportJob(ctx, exec, models.UpdateImportJobInput{
		Id:     jobId,
		Status: &status,
	})
}

func (uc *ImportUseCase) failJob(ctx context.Context, exec repositories.Executor,
	jobId string, cause error,
) error {
	message := cause.Error()
	err := uc.importJobRepository.UpdateImportJob(ctx, exec, models.UpdateImportJobInput{
		Id:           jobId,
		Status:       pure_utils.Ptr(models.ImportStatusFailed),
		ErrorMessage: &message,
	})
	if err != nil {
		utils.LoggerFromContext(ctx).ErrorContext(ctx, "could not mark import job failed",
			"job_id", jobId, "error", err.Error())
	}
	return cause
}

func (uc *ImportUseCase) parseStoredFile(ctx context.Context, job models.ImportJob,
	fn parsing.RowFunc,
) ([]string, error) {
	parser, err := parsing.ParserFor(job.FileKind)
	if err != nil {
		return nil, err
	}

	file, err := uc.blobRepository.GetBlob(ctx, uc.bucketUrl, job.FilePath)
	if err != nil {
		return nil, err
	}
	defer file.ReadCloser.Close()

	return parser.Parse(file.ReadCloser, fn)
}
