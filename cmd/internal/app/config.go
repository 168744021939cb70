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

	// If true, /readyz returns 503 unless the database is configured and
	// reachable.
	ReadinessRequireDB bool

	// DevMode relaxes the startup security policy: the session signing key
	// may be absent (an ephemeral one is generated) and the identity store
	// falls back to memory when no database is configured.
	DevMode bool

	// ClubSecret is the shared passphrase members submit to gain privileged
	// status. It is injected here once; nothing re-reads the environment at
	// redemption time.
	ClubSecret string
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("CLUBHOUSE_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel: EnvString("CLUBHOUSE_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("CLUBHOUSE_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("CLUBHOUSE_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("CLUBHOUSE_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("CLUBHOUSE_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("CLUBHOUSE_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("CLUBHOUSE_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("CLUBHOUSE_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("CLUBHOUSE_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("CLUBHOUSE_READINESS_REQUIRE_DB", false),

		DevMode:    EnvBool("CLUBHOUSE_DEV_MODE", false),
		ClubSecret: EnvString("CLUBHOUSE_CLUB_SECRET", ""),
	}
}
