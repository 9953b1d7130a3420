package api

import "time"

type Configuration struct {
	Env            string
	Port           string
	AllowedOrigins []string

	// MaxUploadSize bounds the multipart file accepted by the upload endpoint.
	MaxUploadSize int64

	DefaultTimeout time.Duration
	// ConfirmTimeout bounds the synchronous confirm run, which replays the whole
	// file and is by far the longest request of the API.
	ConfirmTimeout time.Duration
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Env:            "production",
		Port:           "8080",
		MaxUploadSize:  100 * 1024 * 1024,
		DefaultTimeout: 30 * time.Second,
		ConfirmTimeout: 10 * time.Minute,
	}
}
