package usecases

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/ecomdata/import-backend/models"
	"github.com/ecomdata/import-backend/pure_utils"
	"github.com/ecomdata/import-backend/repositories"
	"github.com/ecomdata/import-backend/usecases/mapping"
	"github.com/ecomdata/import-backend/usecases/parsing"
	"github.com/ecomdata/import-backend/usecases/validation"
	"github.com/ecomdata/import-backend/utils"
)

// errImportCancelled aborts the row loop from inside the parse callback. It
// never escapes ConfirmImport.
var errImportCancelled = errors.New("import run cancelled")

// ConfirmImport replays the validated file and lands the passing rows in
// batches, one transaction per batch. The cancellation flag is checked at every
// batch boundary, before the pending batch is committed: on cancellation the
// pending rows are discarded and the persisted counters describe exactly the
// committed batches. Rows failing validation are counted and sampled but never
// block the run.
func (uc *ImportUseCase) ConfirmImport(ctx context.Context, jobId string) (models.ImportResult, error) {
	exec := uc.executorGetter.GetExecutor()
	job, err := uc.getJobForOwner(ctx, exec, jobId)
	if err != nil {
		return models.ImportResult{}, err
	}
	if job.Status != models.ImportStatusValidated {
		return models.ImportResult{}, errors.Wrapf(models.ErrInvalidJobState,
			"cannot confirm a job in status %q", job.Status)
	}

	dataType, err := uc.registry.Get(job.DataType)
	if err != nil {
		return models.ImportResult{}, err
	}

	// a leftover flag from a previous lifecycle must not cancel this run
	if err := uc.progressRepository.ClearJob(ctx, jobId); err != nil {
		return models.ImportResult{}, err
	}

	zero := 0
	err = uc.importJobRepository.UpdateImportJob(ctx, exec, models.UpdateImportJobInput{
		Id:            jobId,
		Status:        pure_utils.Ptr(models.ImportStatusImporting),
		ProcessedRows: &zero,
		SuccessRows:   &zero,
		FailedRows:    &zero,
	})
	if err != nil {
		return models.ImportResult{}, err
	}

	run := &importRun{uc: uc, job: job, validator: dataType.Validator}
	if err := run.snapshot(ctx, models.ImportStatusImporting); err != nil {
		return models.ImportResult{}, err
	}

	_, parseErr := uc.parseStoredFile(ctx, job, func(rowNumber int, row parsing.Row) error {
		return run.handleRow(ctx, rowNumber, row)
	})

	switch {
	case errors.Is(parseErr, errImportCancelled):
		return run.finishCancelled(ctx, exec)
	case parseErr != nil:
		return models.ImportResult{}, uc.failJob(ctx, exec, jobId, parseErr)
	default:
		return run.finishCompleted(ctx, exec)
	}
}

// importRun carries the state of one confirm run. Counters exist in two
// flavors: the live ones, which include the rows of the pending batch, and the
// committed ones, which only ever advance when a batch transaction commits.
type importRun struct {
	uc        *ImportUseCase
	job       models.ImportJob
	validator *validation.Validator

	buffer []repositories.ImportedRow

	processed int
	success   int
	failed    int

	committedProcessed int
	committedSuccess   int
	committedFailed    int

	sampleErrors []models.RowError
}

func (r *importRun) handleRow(ctx context.Context, rowNumber int, row parsing.Row) error {
	mapped := mapping.Transform(row, r.job.Mapping)
	issues := r.validator.ValidateRow(rowNumber, mapped)

	r.processed++
	if firstError, found := firstErrorIssue(issues); found {
		r.failed++
		if len(r.sampleErrors) < maxSampleErrors {
			r.sampleErrors = append(r.sampleErrors, models.RowError{
				RowNumber: rowNumber,
				Message:   firstError.Field + ": " + firstError.Message,
			})
		}
	} else {
		r.success++
		r.buffer = append(r.buffer, repositories.ImportedRow{
			JobId:     r.job.Id,
			DataType:  r.job.DataType,
			RowNumber: rowNumber,
			Data:      mapped,
		})
	}

	if r.processed-r.committedProcessed < r.uc.batchSize {
		return nil
	}
	return r.batchBoundary(ctx)
}

func (r *importRun) batchBoundary(ctx context.Context) error {
	cancelled, err := r.uc.progressRepository.IsCancellationRequested(ctx, r.job.Id)
	if err != nil {
		return err
	}
	if cancelled {
		// the pending batch is dropped: counters roll back to the last commit
		r.buffer = nil
		r.processed = r.committedProcessed
		r.success = r.committedSuccess
		r.failed = r.committedFailed
		return errImportCancelled
	}

	if err := r.commitBatch(ctx); err != nil {
		return err
	}

	if err := r.snapshot(ctx, models.ImportStatusImporting); err != nil {
		// the snapshot is a convenience read model, a failed write must not
		// abort the run
		utils.LoggerFromContext(ctx).WarnContext(ctx, "could not save import progress",
			"job_id", r.job.Id, "error", err.Error())
	}
	return nil
}

// commitBatch lands the pending rows and the matching counters atomically, so
// the durable record never counts a row whose insert did not commit.
func (r *importRun) commitBatch(ctx context.Context) error {
	err := r.uc.executorGetter.Transaction(ctx, func(tx repositories.Transaction) error {
		if err := r.uc.importJobRepository.InsertImportedRows(ctx, tx, r.buffer); err != nil {
			return err
		}
		return r.uc.importJobRepository.UpdateImportJob(ctx, tx, models.UpdateImportJobInput{
			Id:            r.job.Id,
			ProcessedRows: &r.processed,
			SuccessRows:   &r.success,
			FailedRows:    &r.failed,
		})
	})
	if err != nil {
		return err
	}

	r.committedProcessed = r.processed
	r.committedSuccess = r.success
	r.committedFailed = r.failed
	r.buffer = nil
	return nil
}

func (r *importRun) finishCompleted(ctx context.Context, exec repositories.Executor) (models.ImportResult, error) {
	// final partial batch, plus the terminal status, in one transaction
	err := r.uc.executorGetter.Transaction(ctx, func(tx repositories.Transaction) error {
		if err := r.uc.importJobRepository.InsertImportedRows(ctx, tx, r.buffer); err != nil {
			return err
		}
		return r.uc.importJobRepository.UpdateImportJob(ctx, tx, models.UpdateImportJobInput{
			Id:            r.job.Id,
			Status:        pure_utils.Ptr(models.ImportStatusCompleted),
			ProcessedRows: &r.processed,
			SuccessRows:   &r.success,
			FailedRows:    &r.failed,
		})
	})
	if err != nil {
		return models.ImportResult{}, err
	}
	r.buffer = nil
	r.committedProcessed = r.processed
	r.committedSuccess = r.success
	r.committedFailed = r.failed

	if err := r.snapshot(ctx, models.ImportStatusCompleted); err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "could not save final import progress",
			"job_id", r.job.Id, "error", err.Error())
	}

	utils.LoggerFromContext(ctx).InfoContext(ctx, "import run completed",
		"job_id", r.job.Id, "processed", r.processed, "success", r.success, "failed", r.failed)

	return models.ImportResult{
		Total:        r.processed,
		Success:      r.success,
		Failed:       r.failed,
		SampleErrors: r.sampleErrors,
	}, nil
}

func (r *importRun) finishCancelled(ctx context.Context, exec repositories.Executor) (models.ImportResult, error) {
	err := r.uc.importJobRepository.UpdateImportJob(ctx, exec, models.UpdateImportJobInput{
		Id:            r.job.Id,
		Status:        pure_utils.Ptr(models.ImportStatusCancelled),
		ProcessedRows: &r.committedProcessed,
		SuccessRows:   &r.committedSuccess,
		FailedRows:    &r.committedFailed,
	})
	if err != nil {
		return models.ImportResult{}, err
	}

	if err := r.snapshot(ctx, models.ImportStatusCancelled); err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "could not save final import progress",
			"job_id", r.job.Id, "error", err.Error())
	}

	utils.LoggerFromContext(ctx).InfoContext(ctx, "import run cancelled",
		"job_id", r.job.Id, "processed", r.committedProcessed)

	return models.ImportResult{
		Total:        r.committedProcessed,
		Success:      r.committedSuccess,
		Failed:       r.committedFailed,
		SampleErrors: r.sampleErrors,
		Cancelled:    true,
	}, nil
}

func firstErrorIssue(issues []models.ValidationIssue) (models.ValidationIssue, bool) {
	for _, issue := range issues {
		if issue.Severity == models.SeverityError {
			return issue, true
		}
	}
	return models.ValidationIssue{}, false
}

func (r *importRun) snapshot(ctx context.Context, status models.ImportStatus) error {
	return r.uc.progressRepository.SaveProgress(ctx, models.ImportProgress{
		JobId:         r.job.Id,
		Status:        status,
		TotalRows:     r.job.TotalRows,
		ProcessedRows: r.committedProcessed,
		SuccessRows:   r.committedSuccess,
		FailedRows:    r.committedFailed,
	})
}
