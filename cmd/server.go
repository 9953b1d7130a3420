package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ecomdata/import-backend/api"
	"github.com/ecomdata/import-backend/infra"
	"github.com/ecomdata/import-backend/repositories"
	"github.com/ecomdata/import-backend/usecases"
	"github.com/ecomdata/import-backend/utils"
)

func RunServer() error {
	apiConfig := api.Configuration{
		Env:            utils.GetEnv("ENV", "development"),
		Port:           utils.GetEnv("PORT", "8080"),
		AllowedOrigins: allowedOriginsFromEnv(),
		MaxUploadSize:  int64(utils.GetIntEnv("MAX_UPLOAD_SIZE_MB", 100)) * 1024 * 1024,
		DefaultTimeout: time.Duration(utils.GetIntEnv("DEFAULT_TIMEOUT_SECOND", 30)) * time.Second,
		ConfirmTimeout: time.Duration(utils.GetIntEnv("CONFIRM_TIMEOUT_SECOND", 600)) * time.Second,
	}
	bucketUrl := utils.GetEnv("UPLOAD_BUCKET_URL", "file:///tmp/import-uploads")
	batchSize := utils.GetIntEnv("IMPORT_BATCH_SIZE", usecases.DefaultBatchSize)

	logger := utils.NewLogger(apiConfig.Env)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfigFromEnv())
	if err != nil {
		return err
	}

	redisClient, err := repositories.NewRedisClient(ctx, redisConfigFromEnv())
	if err != nil {
		return err
	}

	repos := repositories.NewRepositories(pool, redisClient)
	uc := usecases.NewUsecases(repos,
		usecases.WithBucketUrl(bucketUrl),
		usecases.WithBatchSize(batchSize),
	)

	router := api.InitRouterMiddlewares(ctx, apiConfig)
	server := api.NewServer(router, apiConfig, uc)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server", slog.String("port", apiConfig.Port))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "error while serving the api", "error", err.Error())
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "error while shutting down the server")
	}
	return nil
}
