package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"

	"github.com/ecomdata/import-backend/models"
	"github.com/ecomdata/import-backend/utils"
)

type DBImportJob struct {
	Id                string      `db:"id"`
	OwnerId           string      `db:"owner_id"`
	DataType          string      `db:"data_type"`
	FileName          string      `db:"file_name"`
	FilePath          string      `db:"file_path"`
	FileSize          int64       `db:"file_size"`
	FileKind          string      `db:"file_kind"`
	Status            string      `db:"status"`
	SourceFields      []byte      `db:"source_fields"`
	Mapping           []byte      `db:"mapping"`
	ValidationSummary []byte      `db:"validation_summary"`
	TotalRows         int         `db:"total_rows"`
	ProcessedRows     int         `db:"processed_rows"`
	SuccessRows       int         `db:"success_rows"`
	FailedRows        int         `db:"failed_rows"`
	ErrorMessage      null.String `db:"error_message"`
	CreatedAt         time.Time   `db:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at"`
}

const TABLE_IMPORT_JOBS = "import_jobs"

var SelectImportJobColumn = utils.ColumnList[DBImportJob]()

func AdaptImportJob(db DBImportJob) (models.ImportJob, error) {
	job := models.ImportJob{
		Id:            db.Id,
		OwnerId:       db.OwnerId,
		DataType:      db.DataType,
		FileName:      db.FileName,
		FilePath:      db.FilePath,
		FileSize:      db.FileSize,
		FileKind:      models.FileKind(db.FileKind),
		Status:        models.ImportStatusFrom(db.Status),
		TotalRows:     db.TotalRows,
		ProcessedRows: db.ProcessedRows,
		SuccessRows:   db.SuccessRows,
		FailedRows:    db.FailedRows,
		ErrorMessage:  db.ErrorMessage.String,
		CreatedAt:     db.CreatedAt,
		UpdatedAt:     db.UpdatedAt,
	}

	if len(db.SourceFields) > 0 {
		if err := json.Unmarshal(db.SourceFields, &job.SourceFields); err != nil {
			return models.ImportJob{}, errors.Wrap(err, "can't decode import job source fields")
		}
	}
	if len(db.Mapping) > 0 {
		if err := json.Unmarshal(db.Mapping, &job.Mapping); err != nil {
			return models.ImportJob{}, errors.Wrap(err, "can't decode import job mapping")
		}
	}
	if len(db.ValidationSummary) > 0 {
		var summary models.ValidationSummary
		if err := json.Unmarshal(db.ValidationSummary, &summary); err != nil {
			return models.ImportJob{}, errors.Wrap(err, "can't decode import job validation summary")
		}
		job.ValidationSummary = &summary
	}

	return job, nil
}
