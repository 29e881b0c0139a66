package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig has no env-default tags so unset variables keep whatever the
// defaults and the JSON file produced.
type envConfig struct {
	APIBaseURL     string        `env:"THONHUB_API_BASE_URL"`
	RequestTimeout time.Duration `env:"THONHUB_REQUEST_TIMEOUT"`
	CredentialsDB  string        `env:"THONHUB_CREDENTIALS_DB"`
	LogLevel       string        `env:"THONHUB_LOG_LEVEL"`
}

func parseEnv(cfg *Config) {
	var ec envConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		panic(err)
	}

	if ec.APIBaseURL != "" {
		cfg.APIBaseURL = ec.APIBaseURL
	}
	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.CredentialsDB != "" {
		cfg.CredentialsDB = ec.CredentialsDB
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
}
