package repositories

import (
	"context"

	"github.com/cockroachdb/errors"
)

func (repo *ImportDbRepository) Liveness(ctx context.Context, exec Executor) error {
	var liveness int
	err := exec.QueryRow(ctx, "SELECT 1").Scan(&liveness)
	return errors.Wrap(err, "database liveness check failed")
}
