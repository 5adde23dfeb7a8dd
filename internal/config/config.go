package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Queue kinds, mirrored from the pending package to keep config free of imports.
const (
	QueueKV    = "kv"
	QueueSpool = "spool"
)

type Config struct {
	ListenPort      string        // ex: ":7420"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Remote API
	BaseURL     string        // ex: "https://api.tuck.app"
	HTTPTimeout time.Duration // per request, 0 = none
	UserAgent   string

	// Shared namespace
	ContainerDir string         // holds <suite>.json|db, Media/ and Pending/
	Suite        string         // namespace name, ex: "group.tuck.shared"
	KVDriver     string         // "file" | "redis" | "sqlite"
	KVOptions    map[string]any // driver options, decoded by the driver
	QueueKind    string         // "kv" | "spool"
	SpoolDir     string         // default <container>/Pending
	RulesFile    string         // optional YAML override of the folder rules

	// Background work (app role)
	SyncInterval    time.Duration
	RefreshInterval time.Duration
	MediaGCInterval time.Duration
	MediaGrace      time.Duration
	FanOut          int  // concurrent folder fetches during refresh
	WatchSpool      bool // trigger sync on new spool files
	WatchDebounce   time.Duration

	// Local HTTP surface
	AllowedHosts     []string // optional, restrict access to specific Host headers
	AllowedCIDRs     []string // optional, restrict access to specific IPs
	TrustProxy       bool     // true => trust X-Forwarded-For headers
	SyncBurst        int      // POST /sync token bucket size
	SyncRefillPerMin int
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ListenPort:       "127.0.0.1:7420",
		ShutdownTimeout:  5 * time.Second,
		LogLevel:         "info",
		PrettyLog:        true,
		BaseURL:          "http://localhost:8080",
		HTTPTimeout:      30 * time.Second,
		UserAgent:        "tuck",
		ContainerDir:     defaultContainer(),
		Suite:            "group.tuck.shared",
		KVDriver:         "file",
		QueueKind:        QueueKV,
		SyncInterval:     5 * time.Minute,
		RefreshInterval:  15 * time.Minute,
		MediaGCInterval:  24 * time.Hour,
		MediaGrace:       24 * time.Hour,
		FanOut:           4,
		WatchSpool:       true,
		WatchDebounce:    500 * time.Millisecond,
		SyncBurst:        3,
		SyncRefillPerMin: 6,
	}
}

// Load builds the configuration: defaults, then the TOML file named by
// TUCK_CONFIG_FILE when set, then TUCK_* environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("TUCK_CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	overlayEnv(cfg)

	if cfg.SpoolDir == "" {
		cfg.SpoolDir = filepath.Join(cfg.ContainerDir, "Pending")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overlayEnv(cfg *Config) {
	cfg.ListenPort = getenv("TUCK_LISTEN_PORT", cfg.ListenPort)
	cfg.ShutdownTimeout = mustDuration("TUCK_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	cfg.LogLevel = getenv("TUCK_LOG_LEVEL", cfg.LogLevel)
	cfg.PrettyLog = mustBool("TUCK_PRETTY_LOG", cfg.PrettyLog)

	cfg.BaseURL = getenv("TUCK_BASE_URL", cfg.BaseURL)
	cfg.HTTPTimeout = mustDuration("TUCK_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.UserAgent = getenv("TUCK_USER_AGENT", cfg.UserAgent)

	cfg.ContainerDir = getenv("TUCK_CONTAINER_DIR", cfg.ContainerDir)
	cfg.Suite = getenv("TUCK_SUITE", cfg.Suite)
	cfg.KVDriver = getenv("TUCK_KV_DRIVER", cfg.KVDriver)
	cfg.QueueKind = getenv("TUCK_QUEUE", cfg.QueueKind)
	cfg.SpoolDir = getenv("TUCK_SPOOL_DIR", cfg.SpoolDir)
	cfg.RulesFile = getenv("TUCK_RULES_FILE", cfg.RulesFile)

	cfg.SyncInterval = mustDuration("TUCK_SYNC_INTERVAL", cfg.SyncInterval)
	cfg.RefreshInterval = mustDuration("TUCK_REFRESH_INTERVAL", cfg.RefreshInterval)
	cfg.MediaGCInterval = mustDuration("TUCK_MEDIA_GC_INTERVAL", cfg.MediaGCInterval)
	cfg.MediaGrace = mustDuration("TUCK_MEDIA_GRACE", cfg.MediaGrace)
	cfg.FanOut = getenvInt("TUCK_FANOUT", cfg.FanOut)
	cfg.WatchSpool = mustBool("TUCK_WATCH_SPOOL", cfg.WatchSpool)
	cfg.WatchDebounce = mustDuration("TUCK_WATCH_DEBOUNCE", cfg.WatchDebounce)

	if v := os.Getenv("TUCK_ALLOWED_HOSTS"); v != "" {
		cfg.AllowedHosts = splitAndTrim(v)
	}
	if v := os.Getenv("TUCK_ALLOWED_CIDRS"); v != "" {
		cfg.AllowedCIDRs = splitAndTrim(v)
	}
	cfg.TrustProxy = mustBool("TUCK_TRUST_PROXY", cfg.TrustProxy)
	cfg.SyncBurst = getenvInt("TUCK_SYNC_BURST", cfg.SyncBurst)
	cfg.SyncRefillPerMin = getenvInt("TUCK_SYNC_REFILL_PER_MIN", cfg.SyncRefillPerMin)

	// Redis settings land in the driver options, where the redis driver reads them.
	redisEnv := map[string]string{
		"TUCK_REDIS_ADDR":            "addr",
		"TUCK_REDIS_USERNAME":        "username",
		"TUCK_REDIS_PASSWORD":        "password",
		"TUCK_REDIS_DB":              "db",
		"TUCK_REDIS_DIAL_TIMEOUT":    "dial_timeout",
		"TUCK_REDIS_CONNECT_TIMEOUT": "connect_timeout",
		"TUCK_REDIS_POOL_SIZE":       "pool_size",
	}
	for env, key := range redisEnv {
		if v := os.Getenv(env); v != "" {
			if cfg.KVOptions == nil {
				cfg.KVOptions = map[string]any{}
			}
			cfg.KVOptions[key] = v
		}
	}
	if v := os.Getenv("TUCK_SQLITE_PATH"); v != "" {
		if cfg.KVOptions == nil {
			cfg.KVOptions = map[string]any{}
		}
		cfg.KVOptions["path"] = v
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base url is empty"))
	}
	if c.ContainerDir == "" {
		errs = append(errs, errors.New("container dir is empty"))
	}
	if c.Suite == "" {
		errs = append(errs, errors.New("suite is empty"))
	}
	switch c.QueueKind {
	case QueueKV, QueueSpool:
	default:
		errs = append(errs, fmt.Errorf("unknown queue kind %q", c.QueueKind))
	}
	if c.FanOut < 1 {
		errs = append(errs, fmt.Errorf("fanout must be >= 1, got %d", c.FanOut))
	}
	return errors.Join(errs...)
}

// Redacted returns a copy safe to log.
func (c *Config) Redacted() Config {
	cp := *c
	if len(c.KVOptions) > 0 {
		cp.KVOptions = make(map[string]any, len(c.KVOptions))
		for k, v := range c.KVOptions {
			if k == "password" {
				v = "***REDACTED***"
			}
			cp.KVOptions[k] = v
		}
	}
	return cp
}

func defaultContainer() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tuck")
	}
	return ".tuck"
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.Trim(strings.TrimSpace(part), `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
