package usecases

import (
	"context"

	"github.com/ecomdata/import-backend/repositories"
)

type livenessRepository interface {
	Liveness(ctx context.Context, exec repositories.Executor) error
}

type LivenessUsecase struct {
	executorGetter     executorGetter
	livenessRepository livenessRepository
}

func (uc LivenessUsecase) Liveness(ctx context.Context) error {
	return uc.livenessRepository.Liveness(ctx, uc.executorGetter.GetExecutor())
}
