package repositories

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const TABLE_IMPORTED_ROWS = "imported_rows"

// ImportedRow is one committed row of an import run, landed with its job id and
// original row number so downstream consumers can trace it back to the file.
type ImportedRow struct {
	JobId     string
	DataType  string
	RowNumber int
	Data      map[string]any
}

// InsertImportedRows lands one batch of rows. The whole batch shares one
// statement; per-row business failures are filtered out by the caller before
// this point, so an error here is an infrastructure error for the batch.
func (repo *ImportDbRepository) InsertImportedRows(ctx context.Context, exec Executor,
	rows []ImportedRow,
) error {
	if len(rows) == 0 {
		return nil
	}

	query := NewQueryBuilder().
		Insert(TABLE_IMPORTED_ROWS).
		Columns("id", "import_job_id", "data_type", "row_number", "row_data")

	for _, row := range rows {
		encoded, err := json.Marshal(row.Data)
		if err != nil {
			return errors.Wrap(err, "can't encode imported row data")
		}
		query = query.Values(uuid.NewString(), row.JobId, row.DataType, row.RowNumber, encoded)
	}

	return ExecBuilder(ctx, exec, query)
}

// CountImportedRows returns the number of rows landed for one job.
func (repo *ImportDbRepository) CountImportedRows(ctx context.Context, exec Executor,
	jobId string,
) (int, error) {
	return SqlToRowCount(
		ctx,
		exec,
		NewQueryBuilder().
			Select("count(*)").
			From(TABLE_IMPORTED_ROWS).
			Where("import_job_id = ?", jobId),
	)
}
