package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/nitelabs/niteos/internal/flagx"
	"github.com/nitelabs/niteos/internal/timex"
)

// JsonConfig is the DTO used only for reading JSON configuration files.
// It uses timex.Duration for interval fields, which parses both string
// values such as "5s" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	MongoURI                    string         `json:"mongo_uri"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	LockTimeout                 timex.Duration `json:"lock_timeout"`
	DemoGrant                   *int64         `json:"demo_grant"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flag into the provided Config. If no flag is given, nothing
// is loaded. An unreadable or invalid file panics: a half-applied config
// is worse than a crash at startup.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

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
	if c.MongoURI != "" {
		config.MongoURI = c.MongoURI
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.LockTimeout.Duration != 0 {
		config.LockTimeout = time.Duration(c.LockTimeout.Duration)
	}
	if c.DemoGrant != nil {
		config.DemoGrant = *c.DemoGrant
	}
}
