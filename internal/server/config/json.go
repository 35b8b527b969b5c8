package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations use
// timex.Duration, so both "1h" and integer nanoseconds are accepted.
// Zero values leave the corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	StorageBackend               string         `json:"storage_backend"`
	DatabaseDSN                  string         `json:"database_dsn"`
	BoltPath                     string         `json:"bolt_path"`
	RedisAddr                    string         `json:"redis_addr"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	PasswordHashCost             int            `json:"password_hash_cost"`
	LogLevel                     string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config onto
// config. Without the flag nothing is loaded. An unreadable file or invalid
// JSON panics: the server must not start on a half-read config.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFilePath(args)
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

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.BoltPath, c.BoltPath)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.PasswordHashCost > 0 {
		config.PasswordHashCost = c.PasswordHashCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
