package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig is an intermediate DTO for environment parsing. Its values are
// copied into Config only when set, so defaults survive a partial environment.
type envConfig struct {
	EndpointAddrHTTP           string `env:"RUN_ADDRESS"`
	DatabaseDSN                string `env:"DATABASE_URL"`
	SecretKey                  string `env:"SECRET_KEY"`
	AccessTokenValidityMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	PasswordHashCost           int    `env:"PASSWORD_HASH_COST"`
	CORSOrigins                string `env:"CORS_ORIGINS"`
}

// parseEnv overlays environment variables onto config. CORS_ORIGINS is a
// comma-separated list, or "*".
func parseEnv(config *Config) {
	e := envConfig{}
	if err := env.Parse(&e); err != nil {
		panic(err)
	}

	if e.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = e.EndpointAddrHTTP
	}
	if e.DatabaseDSN != "" {
		config.DatabaseDSN = e.DatabaseDSN
	}
	if e.SecretKey != "" {
		config.SecretKey = e.SecretKey
	}
	if e.AccessTokenValidityMinutes > 0 {
		config.AccessTokenValidityDuration = time.Duration(e.AccessTokenValidityMinutes) * time.Minute
	}
	if e.PasswordHashCost > 0 {
		config.PasswordHashCost = e.PasswordHashCost
	}
	if e.CORSOrigins != "" {
		config.CORSAllowedOrigins = splitOrigins(e.CORSOrigins)
	}
}

func splitOrigins(s string) []string {
	if strings.TrimSpace(s) == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
