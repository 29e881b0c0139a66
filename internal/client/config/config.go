package config

import (
	"time"

	"github.com/thonhub/thonhub/internal/common"
)

// Config holds runtime settings for the ThonHub CLI.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	CredentialsDB  string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = common.DefaultAPIBaseURL
	c.RequestTimeout = 20 * time.Second
	c.CredentialsDB = common.DefaultCredentials
	c.LogLevel = "warn"
}

// LoadConfig applies defaults, then JSON, environment and flags. It panics
// on malformed input.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
