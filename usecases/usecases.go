package usecases

import (
	"github.com/ecomdata/import-backend/repositories"
	"github.com/ecomdata/import-backend/usecases/mapping"
	"github.com/ecomdata/import-backend/usecases/validation"
)

type Usecases struct {
	Repositories repositories.Repositories
	bucketUrl    string
	batchSize    int
	registry     *validation.Registry
	aliases      mapping.AliasTable
}

type Option func(*Usecases)

func WithBucketUrl(bucketUrl string) Option {
	return func(u *Usecases) {
		u.bucketUrl = bucketUrl
	}
}

func WithBatchSize(batchSize int) Option {
	return func(u *Usecases) {
		u.batchSize = batchSize
	}
}

func WithRegistry(registry *validation.Registry) Option {
	return func(u *Usecases) {
		u.registry = registry
	}
}

func WithAliasTable(aliases mapping.AliasTable) Option {
	return func(u *Usecases) {
		u.aliases = aliases
	}
}

func NewUsecases(repos repositories.Repositories, opts ...Option) Usecases {
	usecases := Usecases{
		Repositories: repos,
		batchSize:    DefaultBatchSize,
		registry:     validation.DefaultRegistry(),
		aliases:      mapping.DefaultAliasTable(),
	}
	for _, opt := range opts {
		opt(&usecases)
	}
	return usecases
}

func (usecases *Usecases) NewLivenessUsecase() LivenessUsecase {
	return LivenessUsecase{
		executorGetter:     usecases.Repositories.ExecutorGetter,
		livenessRepository: usecases.Repositories.ImportDbRepository,
	}
}

func (usecases *Usecases) NewImportUseCase() ImportUseCase {
	return ImportUseCase{
		executorGetter:      usecases.Repositories.ExecutorGetter,
		importJobRepository: usecases.Repositories.ImportDbRepository,
		progressRepository:  usecases.Repositories.ProgressRepository,
		blobRepository:      usecases.Repositories.BlobRepository,
		registry:            usecases.registry,
		aliases:             usecases.aliases,
		bucketUrl:           usecases.bucketUrl,
		batchSize:           usecases.batchSize,
	}
}
