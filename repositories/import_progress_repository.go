package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/ecomdata/import-backend/models"
)

const (
	importKeyPrefix = "import"

	// ProgressTtl bounds how long a progress snapshot outlives its last write.
	ProgressTtl = time.Hour
	// CancelTtl bounds how long a cancellation flag can linger; a stale flag
	// must not outlive the job it targets.
	CancelTtl = time.Hour
)

// ImportProgressRepository is the ephemeral side channel shared between the
// request driving a confirm run and any out-of-band cancel request. Progress
// reads must never need a database round trip.
type ImportProgressRepository interface {
	SaveProgress(ctx context.Context, progress models.ImportProgress) error
	GetProgress(ctx context.Context, jobId string) (*models.ImportProgress, error)
	RequestCancellation(ctx context.Context, jobId string) error
	IsCancellationRequested(ctx context.Context, jobId string) (bool, error)
	ClearJob(ctx context.Context, jobId string) error
}

type importProgressRepository struct {
	client *RedisClient
}

func NewImportProgressRepository(client *RedisClient) ImportProgressRepository {
	return &importProgressRepository{client: client}
}

func progressKey(jobId string) string {
	return fmt.Sprintf("%s:%s:progress", importKeyPrefix, jobId)
}

func cancelKey(jobId string) string {
	return fmt.Sprintf("%s:%s:cancel", importKeyPrefix, jobId)
}

func (repo *importProgressRepository) SaveProgress(ctx context.Context, progress models.ImportProgress) error {
	marshalled, err := json.Marshal(progress)
	if err != nil {
		return errors.Wrap(err, "could not encode import progress")
	}

	return errors.Wrap(
		repo.client.client.Set(ctx, progressKey(progress.JobId), marshalled, ProgressTtl).Err(),
		"could not save import progress")
}

func (repo *importProgressRepository) GetProgress(ctx context.Context, jobId string) (*models.ImportProgress, error) {
	raw, err := repo.client.client.Get(ctx, progressKey(jobId)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read import progress")
	}

	var progress models.ImportProgress
	if err := json.Unmarshal([]byte(raw), &progress); err != nil {
		// a corrupt snapshot is treated as absent, the durable record is the fallback
		return nil, nil
	}
	return &progress, nil
}

func (repo *importProgressRepository) RequestCancellation(ctx context.Context, jobId string) error {
	return errors.Wrap(
		repo.client.client.Set(ctx, cancelKey(jobId), "1", CancelTtl).Err(),
		"could not set cancellation flag")
}

func (repo *importProgressRepository) IsCancellationRequested(ctx context.Context, jobId string) (bool, error) {
	count, err := repo.client.client.Exists(ctx, cancelKey(jobId)).Result()
	if err != nil {
		return false, errors.Wrap(err, "could not read cancellation flag")
	}
	return count > 0, nil
}

func (repo *importProgressRepository) ClearJob(ctx context.Context, jobId string) error {
	return errors.Wrap(
		repo.client.client.Del(ctx, progressKey(jobId), cancelKey(jobId)).Err(),
		"could not clear import keys")
}
