package infra

import (
	"fmt"
)

type PgConfig struct {
	ConnectionString   string
	Hostname           string
	Port               string
	User               string
	Password           string
	Database           string
	SslMode            string
	MaxPoolConnections int
}

func (config PgConfig) GetConnectionString() string {
	if config.ConnectionString != "" {
		return config.ConnectionString
	}

	if config.SslMode == "" {
		config.SslMode = "prefer"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s database=%s sslmode=%s",
		config.Hostname, config.Port, config.User, config.Password, config.Database, config.SslMode)
}

type RedisConfig struct {
	Address       string
	Password      string
	Tls           bool
	TlsSkipVerify bool
}

type BlobConfig struct {
	// BucketUrl is a gocloud.dev bucket url, e.g. file:///tmp/uploads,
	// gs://bucket-name or s3://bucket-name.
	BucketUrl string
}
