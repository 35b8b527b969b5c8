package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-k string   storage backend: postgres, sqlite or bolt
//	-d string   PostgreSQL DSN or SQLite DSN
//	-b string   bbolt database file
//	-R string   Redis address for refresh tokens (empty disables)
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-w int      bcrypt cost
//	-l string   log level
//
// Flags not listed here are ignored so that -c/-config can share the
// command line. Panics on malformed values.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.StorageBackend, "k", config.StorageBackend, "storage backend (postgres, sqlite, bolt)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.BoltPath, "b", config.BoltPath, "bbolt database file")
	fs.StringVar(&config.RedisAddr, "R", config.RedisAddr, "redis address for refresh tokens")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.IntVar(&config.PasswordHashCost, "w", config.PasswordHashCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := flagx.ParseKnown(fs, args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
