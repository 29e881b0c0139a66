package config

import (
	"encoding/json"
	"os"

	"github.com/thonhub/thonhub/internal/flagx"
	"github.com/thonhub/thonhub/internal/timex"
)

// JsonConfig is the on-disk shape. Empty fields leave the current value.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	CredentialsDB  string         `json:"credentials_db"`
	LogLevel       string         `json:"log_level"`
}

func parseJson(cfg *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.CredentialsDB != "" {
		cfg.CredentialsDB = jc.CredentialsDB
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
