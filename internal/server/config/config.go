// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime settings for the reference server.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP API.
//   - EndpointAddrGRPC: bind address of the gRPC endpoint; empty disables it.
//   - DatabaseDSN: PostgreSQL DSN (pgx); empty keeps users and tokens in memory.
//   - RedisAddr: when set, refresh tokens live in Redis instead of the database.
//   - AdminUser: username that receives the admin role when it registers.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
type Config struct {
	EndpointAddr                 string
	EndpointAddrGRPC             string
	DatabaseDSN                  string
	RedisAddr                    string
	AdminUser                    string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.EndpointAddrGRPC = ""
	c.DatabaseDSN = ""
	c.RedisAddr = ""
	c.AdminUser = "admin"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Minute
	c.RefreshTokenValidityDuration = 3 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects settings that would make every session fail: an empty
// signing secret, non-positive lifetimes, or a refresh token that dies before
// the access token it is meant to renew.
func (c *Config) Validate() error {
	switch {
	case c.EndpointAddr == "":
		return fmt.Errorf("%w: HTTP address is empty", ErrInvalidConfig)
	case c.SecretKey == "":
		return fmt.Errorf("%w: secret key is empty", ErrInvalidConfig)
	case c.AccessTokenValidityDuration <= 0:
		return fmt.Errorf("%w: access token validity must be positive, got %s", ErrInvalidConfig, c.AccessTokenValidityDuration)
	case c.RefreshTokenValidityDuration <= c.AccessTokenValidityDuration:
		return fmt.Errorf("%w: refresh token validity %s must exceed access token validity %s",
			ErrInvalidConfig, c.RefreshTokenValidityDuration, c.AccessTokenValidityDuration)
	}
	return nil
}
