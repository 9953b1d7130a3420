package repositories

import (
	"context"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"

	"github.com/ecomdata/import-backend/models"
	"github.com/ecomdata/import-backend/repositories/dbmodels"
)

func (repo *ImportDbRepository) CreateImportJob(ctx context.Context, exec Executor,
	input models.CreateImportJobInput,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_IMPORT_JOBS).
			Columns(
				"id",
				"owner_id",
				"data_type",
				"file_name",
				"file_path",
				"file_size",
				"file_kind",
				"status",
			).
			Values(
				input.Id,
				input.OwnerId,
				input.DataType,
				input.FileName,
				input.FilePath,
				input.FileSize,
				string(input.FileKind),
				string(models.ImportStatusUploaded),
			),
	)
}

func (repo *ImportDbRepository) GetImportJobById(ctx context.Context, exec Executor,
	id string,
) (models.ImportJob, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectImportJobColumn...).
			From(dbmodels.TABLE_IMPORT_JOBS).
			Where(squirrel.Eq{"id": id}),
		dbmodels.AdaptImportJob,
	)
}

func (repo *ImportDbRepository) UpdateImportJob(ctx context.Context, exec Executor,
	input models.UpdateImportJobInput,
) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_IMPORT_JOBS).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": input.Id})

	if input.Status != nil {
		query = query.Set("status", string(*input.Status))
	}
	if input.SourceFields != nil {
		encoded, err := json.Marshal(input.SourceFields)
		if err != nil {
			return errors.Wrap(err, "can't encode source fields")
		}
		query = query.Set("source_fields", encoded)
	}
	if input.Mapping != nil {
		encoded, err := json.Marshal(input.Mapping)
		if err != nil {
			return errors.Wrap(err, "can't encode mapping")
		}
		query = query.Set("mapping", encoded)
	}
	if input.ValidationSummary != nil {
		encoded, err := json.Marshal(input.ValidationSummary)
		if err != nil {
			return errors.Wrap(err, "can't encode validation summary")
		}
		query = query.Set("validation_summary", encoded)
	}
	if input.TotalRows != nil {
		query = query.Set("total_rows", *input.TotalRows)
	}
	if input.ProcessedRows != nil {
		query = query.Set("processed_rows", *input.ProcessedRows)
	}
	if input.SuccessRows != nil {
		query = query.Set("success_rows", *input.SuccessRows)
	}
	if input.FailedRows != nil {
		query = query.Set("failed_rows", *input.FailedRows)
	}
	if input.ErrorMessage != nil {
		query = query.Set("error_message", *input.ErrorMessage)
	}

	return ExecBuilder(ctx, exec, query)
}

func (repo *ImportDbRepository) ListImportJobsByOwner(ctx context.Context, exec Executor,
	ownerId string, page models.PageParams,
) ([]models.ImportJob, int, error) {
	jobs, err := SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectImportJobColumn...).
			From(dbmodels.TABLE_IMPORT_JOBS).
			Where(squirrel.Eq{"owner_id": ownerId}).
			OrderBy("created_at DESC", "id DESC").
			Offset(uint64(page.Offset())).
			Limit(uint64(page.Size)),
		dbmodels.AdaptImportJob,
	)
	if err != nil {
		return nil, 0, err
	}

	total, err := SqlToRowCount(
		ctx,
		exec,
		NewQueryBuilder().
			Select("count(*)").
			From(dbmodels.TABLE_IMPORT_JOBS).
			Where(squirrel.Eq{"owner_id": ownerId}),
	)
	if err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}
