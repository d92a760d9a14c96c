package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr string
	LogLevel string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// If true, embedded SQL migrations are applied at startup.
	Migrate bool

	// If true, /readyz returns 503 unless the DB is reachable.
	ReadinessRequireDB bool

	// CORS policy for the public storefront and the admin panel.
	CORSAllowedOrigins []string

	// If true, X-Forwarded-For / X-Real-IP are trusted for client IPs.
	TrustProxy bool

	// Shared key required in the x-api-key header of every API request.
	// Empty disables the gate.
	APIKey string

	// Max contact-form submissions accepted per client IP per day.
	ContactDailyLimit int64
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("STORE_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel: EnvString("STORE_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("STORE_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("STORE_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("STORE_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("STORE_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("STORE_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("STORE_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("STORE_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("STORE_DB_MIN_CONNS", 0),

		Migrate: EnvBool("STORE_DB_MIGRATE", true),

		ReadinessRequireDB: EnvBool("STORE_READINESS_REQUIRE_DB", true),

		CORSAllowedOrigins: EnvStrings("STORE_CORS_ALLOWED_ORIGINS", []string{"*"}),

		TrustProxy: EnvBool("STORE_TRUST_PROXY", false),

		APIKey: EnvString("STORE_API_KEY", ""),

		ContactDailyLimit: EnvInt64("STORE_CONTACT_DAILY_LIMIT", 3),
	}
}
