package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mpfc/securebanking/internal/flagx"
)

// JsonConfig is the intermediate DTO used only for reading JSON
// configuration files. Duration fields are strings in time.ParseDuration
// form ("30m", "2m"). After unmarshalling, non-empty values are copied into
// the runtime Config.
type JsonConfig struct {
	EndpointAddr                string `json:"endpoint_addr"`
	DatabaseDSN                 string `json:"database_dsn"`
	EncryptionKey               string `json:"encryption_key"`
	SecretKey                   string `json:"secret_key"`
	AccessTokenValidityDuration string `json:"access_token_validity_duration"`
	LockoutMaxFailures          int    `json:"lockout_max_failures"`
	LockoutDuration             string `json:"lockout_duration"`
	LockoutEvictAfter           string `json:"lockout_evict_after"`
	S3Enabled                   *bool  `json:"s3_enabled"`
	S3RootUser                  string `json:"s3_root_user"`
	S3RootPassword              string `json:"s3_root_password"`
	S3Bucket                    string `json:"s3_bucket"`
	S3Region                    string `json:"s3_region"`
	S3BaseEndpoint              string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. Absent fields keep their
// current (default) values. An unreadable or invalid file panics at startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	applyString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	applyDuration := func(dst *time.Duration, v string) {
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}

	applyString(&config.EndpointAddr, c.EndpointAddr)
	applyString(&config.DatabaseDSN, c.DatabaseDSN)
	applyString(&config.EncryptionKey, c.EncryptionKey)
	applyString(&config.SecretKey, c.SecretKey)
	applyDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	if c.LockoutMaxFailures > 0 {
		config.LockoutMaxFailures = c.LockoutMaxFailures
	}
	applyDuration(&config.LockoutDuration, c.LockoutDuration)
	applyDuration(&config.LockoutEvictAfter, c.LockoutEvictAfter)
	if c.S3Enabled != nil {
		config.S3Enabled = *c.S3Enabled
	}
	applyString(&config.S3RootUser, c.S3RootUser)
	applyString(&config.S3RootPassword, c.S3RootPassword)
	applyString(&config.S3Bucket, c.S3Bucket)
	applyString(&config.S3Region, c.S3Region)
	applyString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}
