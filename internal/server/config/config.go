// Package config handles configuration for the development backend,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the ThonHub development server.
//
// Fields:
//   - HTTPAddr: bind address of the REST API.
//   - DatabaseDSN: SQLite data source; the default keeps all state in memory.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Do not use
//     the default outside local development.
//   - AccessTokenValidity / RefreshTokenValidity: token lifetimes.
//   - UploadDir: where uploaded resumes are kept when S3 is not configured.
//   - MaxUploadSize: upper bound of a multipart upload, in bytes.
//   - S3*: object storage settings; a non-empty S3Bucket switches resume
//     storage to S3.
type Config struct {
	HTTPAddr             string
	DatabaseDSN          string
	SecretKey            string
	AccessTokenValidity  time.Duration
	RefreshTokenValidity time.Duration
	UploadDir            string
	MaxUploadSize        int64
	LogLevel             string
	S3RootUser           string
	S3RootPassword       string
	S3Bucket             string
	S3Region             string
	S3BaseEndpoint       string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5000"
	c.DatabaseDSN = ":memory:"
	c.SecretKey = "secretKey"
	c.AccessTokenValidity = 5 * time.Minute
	c.RefreshTokenValidity = 24 * time.Hour
	c.UploadDir = "uploads"
	c.MaxUploadSize = 5 << 20
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// UseS3 reports whether resumes go to object storage.
func (c *Config) UseS3() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config from defaults, an optional JSON file, the
// environment and flags, in that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
