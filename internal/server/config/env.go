package config

import (
	"os"
	"time"
)

// parseEnv overlays configuration from environment variables. Env has the
// last word so containerized deployments can override file and flag values.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ENDPOINT_ADDR_HTTP"); ok && v != "" {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("MONGO_URI"); ok && v != "" {
		config.MongoURI = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("LOCK_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.LockTimeout = d
		}
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_VALIDITY"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
}
