package session

import (
	"os"
	"time"
)

// Config defines all runtime configuration for the session subsystem.
//
// It controls the access-token TTL, the refresh no-op window, the
// idle-detection guard, the sweep interval, clock skew tolerance, and the
// PASETO v4 signing key. Explicit and environment-driven so deployments can
// tune lifecycle parameters without code changes.
type Config struct {
	// Issuer is the value set in the "iss" claim of access tokens.
	Issuer string

	// AccessTokenTTL is the token (and session) lifetime.
	AccessTokenTTL time.Duration

	// RefreshMinAge is the no-op window: a refresh before the session is
	// this old returns the presented token unchanged instead of rotating.
	RefreshMinAge time.Duration

	// ActivityMinGap is the idle-detection guard: a session whose
	// last-activity sits closer than this to its issued-at has seen no real
	// activity and is expired instead of rotated.
	ActivityMinGap time.Duration

	// SweepInterval is the period of the background expiry sweep.
	SweepInterval time.Duration

	// ClockSkew is the allowed time skew during token validation.
	ClockSkew time.Duration

	// PasetoV4SecretKeyHex is the hex-encoded Ed25519 secret key used to
	// sign PASETO v4.public access tokens. Process-wide static configuration.
	PasetoV4SecretKeyHex string
}

// DefaultConfig returns the lifecycle defaults: 30-minute tokens, a
// 13-minute no-op refresh window, a 1-second activity guard, and a 5-minute
// sweep.
func DefaultConfig() Config {
	return Config{
		Issuer:         "storeadmin",
		AccessTokenTTL: 30 * time.Minute,
		RefreshMinAge:  13 * time.Minute,
		ActivityMinGap: 1 * time.Second,
		SweepInterval:  5 * time.Minute,
		ClockSkew:      30 * time.Second,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Required:
//   - STORE_PASETO_V4_SECRET_KEY_HEX
//
// Optional (durations must be valid Go duration strings):
//   - STORE_AUTH_ISSUER
//   - STORE_AUTH_ACCESS_TTL
//   - STORE_AUTH_REFRESH_MIN_AGE
//   - STORE_AUTH_ACTIVITY_MIN_GAP
//   - STORE_AUTH_SWEEP_INTERVAL
//   - STORE_AUTH_CLOCK_SKEW
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("STORE_AUTH_ISSUER"); v != "" {
		cfg.Issuer = v
	}

	for _, f := range []struct {
		env     string
		dst     *time.Duration
		nonZero bool
	}{
		{"STORE_AUTH_ACCESS_TTL", &cfg.AccessTokenTTL, true},
		{"STORE_AUTH_REFRESH_MIN_AGE", &cfg.RefreshMinAge, true},
		{"STORE_AUTH_ACTIVITY_MIN_GAP", &cfg.ActivityMinGap, true},
		{"STORE_AUTH_SWEEP_INTERVAL", &cfg.SweepInterval, true},
		{"STORE_AUTH_CLOCK_SKEW", &cfg.ClockSkew, false},
	} {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 || (f.nonZero && d == 0) {
			return Config{}, ErrConfig
		}
		*f.dst = d
	}

	cfg.PasetoV4SecretKeyHex = os.Getenv("STORE_PASETO_V4_SECRET_KEY_HEX")
	if cfg.PasetoV4SecretKeyHex == "" {
		return Config{}, ErrConfig
	}

	// Invariant: the no-op window must fit inside the token lifetime,
	// otherwise rotation can never happen.
	if cfg.RefreshMinAge >= cfg.AccessTokenTTL {
		return Config{}, ErrConfig
	}

	return cfg, nil
}
