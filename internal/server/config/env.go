package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type envConfig struct {
	HTTPAddr             string        `env:"DEVSERVER_HTTP_ADDR"`
	DatabaseDSN          string        `env:"DEVSERVER_DATABASE_DSN"`
	SecretKey            string        `env:"DEVSERVER_SECRET_KEY"`
	AccessTokenValidity  time.Duration `env:"DEVSERVER_ACCESS_TOKEN_VALIDITY"`
	RefreshTokenValidity time.Duration `env:"DEVSERVER_REFRESH_TOKEN_VALIDITY"`
	UploadDir            string        `env:"DEVSERVER_UPLOAD_DIR"`
	LogLevel             string        `env:"DEVSERVER_LOG_LEVEL"`
	S3RootUser           string        `env:"S3_ROOT_USER"`
	S3RootPassword       string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket             string        `env:"S3_BUCKET"`
	S3Region             string        `env:"S3_REGION"`
	S3BaseEndpoint       string        `env:"S3_BASE_ENDPOINT"`
}

func parseEnv(config *Config) {
	var e envConfig
	if err := cleanenv.ReadEnv(&e); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, e.HTTPAddr)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.SecretKey, e.SecretKey)
	if e.AccessTokenValidity > 0 {
		config.AccessTokenValidity = e.AccessTokenValidity
	}
	if e.RefreshTokenValidity > 0 {
		config.RefreshTokenValidity = e.RefreshTokenValidity
	}
	setString(&config.UploadDir, e.UploadDir)
	setString(&config.LogLevel, e.LogLevel)
	setString(&config.S3RootUser, e.S3RootUser)
	setString(&config.S3RootPassword, e.S3RootPassword)
	setString(&config.S3Bucket, e.S3Bucket)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)
}
