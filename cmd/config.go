package cmd

import (
	"strings"

	"github.com/ecomdata/import-backend/infra"
	"github.com/ecomdata/import-backend/utils"
)

func pgConfigFromEnv() infra.PgConfig {
	return infra.PgConfig{
		ConnectionString:   utils.GetEnv("PG_CONNECTION_STRING", ""),
		Hostname:           utils.GetEnv("PG_HOSTNAME", "localhost"),
		Port:               utils.GetEnv("PG_PORT", "5432"),
		User:               utils.GetEnv("PG_USER", "postgres"),
		Password:           utils.GetEnv("PG_PASSWORD", ""),
		Database:           utils.GetEnv("PG_DATABASE", "imports"),
		SslMode:            utils.GetEnv("PG_SSL_MODE", "prefer"),
		MaxPoolConnections: utils.GetIntEnv("PG_MAX_POOL_SIZE", 0),
	}
}

func redisConfigFromEnv() infra.RedisConfig {
	return infra.RedisConfig{
		Address:       utils.GetEnv("REDIS_ADDRESS", "localhost:6379"),
		Password:      utils.GetEnv("REDIS_PASSWORD", ""),
		Tls:           utils.GetEnv("REDIS_TLS", "") == "true",
		TlsSkipVerify: utils.GetEnv("REDIS_TLS_SKIP_VERIFY", "") == "true",
	}
}

func allowedOriginsFromEnv() []string {
	raw := utils.GetEnv("ALLOWED_ORIGINS", "")
	if raw == "" {
		return nil
	}
	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
