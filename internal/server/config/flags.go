package config

import (
	"flag"
	"os"
	"time"

	"github.com/nitelabs/niteos/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-m string   MongoDB URI for the analytics sink
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-l int      per-user lock timeout, seconds
//	-w int      welcome grant for demo accounts, Nitecoin
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-s", "-t", "-l", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoURI, "m", config.MongoURI, "mongo URI for analytics events")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	lockTimeout := fs.Int("l", int(config.LockTimeout.Seconds()), "per-user lock timeout (in seconds)")

	fs.Int64Var(&config.DemoGrant, "w", config.DemoGrant, "welcome grant for demo accounts")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.LockTimeout = time.Duration(*lockTimeout) * time.Second
}
