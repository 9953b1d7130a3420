package cmd

import (
	"github.com/ecomdata/import-backend/repositories"
	"github.com/ecomdata/import-backend/utils"
)

func RunMigrations() error {
	logger := utils.NewLogger(utils.GetEnv("ENV", "development"))
	return repositories.RunMigrations(pgConfigFromEnv(), logger)
}
