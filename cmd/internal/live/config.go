package live

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSendQueueSize = 256
	minSendQueueSize     = 32

	defaultWriteTimeout      = 5 * time.Second
	defaultHeartbeatInterval = 30 * time.Second
	defaultHeartbeatTimeout  = 10 * time.Second

	maxPingFailures = 3
)

// Config carries the feed gateway knobs.
type Config struct {
	// AllowedOrigins lists origin hosts permitted to open cross-origin feed
	// connections. Same-host connections are always allowed.
	AllowedOrigins []string

	// DevInsecure disables TLS verification in websocket.Accept. Dev only.
	DevInsecure bool

	WriteTimeout      time.Duration
	SendQueueSize     int
	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
}

// DefaultConfig returns production-safe defaults: no cross-origin access,
// bounded queues, heartbeats on.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:      defaultWriteTimeout,
		SendQueueSize:     defaultSendQueueSize,
		HeartbeatInterval: defaultHeartbeatInterval,
		HeartbeatTimeout:  defaultHeartbeatTimeout,
	}
}

// FromEnv overlays CLUBHOUSE_WS_* environment variables onto the defaults.
func FromEnv() Config {
	cfg := DefaultConfig()

	cfg.AllowedOrigins = envCSV("CLUBHOUSE_WS_ALLOWED_ORIGINS", "")
	cfg.DevInsecure = envBool("CLUBHOUSE_WS_DEV_INSECURE", false)

	cfg.WriteTimeout = envDuration("CLUBHOUSE_WS_WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.HeartbeatInterval = envDuration("CLUBHOUSE_WS_HEARTBEAT_INTERVAL", cfg.HeartbeatInterval)
	cfg.HeartbeatTimeout = envDuration("CLUBHOUSE_WS_HEARTBEAT_TIMEOUT", cfg.HeartbeatTimeout)

	cfg.SendQueueSize = envInt("CLUBHOUSE_WS_SEND_QUEUE", cfg.SendQueueSize)
	if cfg.SendQueueSize < minSendQueueSize {
		cfg.SendQueueSize = minSendQueueSize
	}

	return cfg
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envCSV(key, def string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = def
	}
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
