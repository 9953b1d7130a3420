package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// ImportDbRepository holds the methods accessing the durable import tables. It
// is stateless: the executor (pool or open transaction) is passed per call.
type ImportDbRepository struct{}

// Repositories aggregates every repository the usecases depend on.
type Repositories struct {
	ExecutorGetter     ExecutorGetter
	ImportDbRepository *ImportDbRepository
	ProgressRepository ImportProgressRepository
	BlobRepository     BlobRepository
}

func NewRepositories(pool *pgxpool.Pool, redisClient *RedisClient) Repositories {
	return Repositories{
		ExecutorGetter:     NewExecutorGetter(pool),
		ImportDbRepository: &ImportDbRepository{},
		ProgressRepository: NewImportProgressRepository(redisClient),
		BlobRepository:     NewBlobRepository(),
	}
}
