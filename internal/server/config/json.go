package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is an intermediate DTO for reading JSON configuration files.
// Duration fields use timex.Duration, which accepts both strings such as
// "60m" and integer nanoseconds. After unmarshalling, set fields are copied
// into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	PasswordHashCost            int            `json:"password_hash_cost"`
	CORSAllowedOrigins          []string       `json:"cors_allowed_origins"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into config. If neither flag is set, nothing is loaded.
// An unreadable or invalid file panics: a config file that was explicitly
// requested must not be silently ignored.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.PasswordHashCost > 0 {
		config.PasswordHashCost = c.PasswordHashCost
	}
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}
