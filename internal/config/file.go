package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig is the TOML layout. Durations are strings ("5m").
type fileConfig struct {
	ListenPort      string `toml:"listen_port"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	LogLevel        string `toml:"log_level"`
	PrettyLog       *bool  `toml:"pretty_log"`

	API struct {
		BaseURL   string `toml:"base_url"`
		Timeout   string `toml:"timeout"`
		UserAgent string `toml:"user_agent"`
	} `toml:"api"`

	Shared struct {
		Container string         `toml:"container"`
		Suite     string         `toml:"suite"`
		Driver    string         `toml:"driver"`
		Options   map[string]any `toml:"options"`
		Queue     string         `toml:"queue"`
		SpoolDir  string         `toml:"spool_dir"`
		Rules     string         `toml:"rules"`
	} `toml:"shared"`

	Background struct {
		SyncInterval    string `toml:"sync_interval"`
		RefreshInterval string `toml:"refresh_interval"`
		MediaGCInterval string `toml:"media_gc_interval"`
		MediaGrace      string `toml:"media_grace"`
		FanOut          int    `toml:"fanout"`
		WatchSpool      *bool  `toml:"watch_spool"`
		WatchDebounce   string `toml:"watch_debounce"`
	} `toml:"background"`

	HTTP struct {
		AllowedHosts     []string `toml:"allowed_hosts"`
		AllowedCIDRs     []string `toml:"allowed_cidrs"`
		TrustProxy       *bool    `toml:"trust_proxy"`
		SyncBurst        int      `toml:"sync_burst"`
		SyncRefillPerMin int      `toml:"sync_refill_per_min"`
	} `toml:"http"`
}

// UndecodedKeysError is returned when the config file has unknown keys.
type UndecodedKeysError struct {
	Path string
	Keys []string
}

func (e *UndecodedKeysError) Error() string {
	return fmt.Sprintf("config file %s: unknown keys %s", e.Path, strings.Join(e.Keys, ", "))
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			// driver options are free-form
			if strings.HasPrefix(k.String(), "shared.options") {
				continue
			}
			keys = append(keys, k.String())
		}
		if len(keys) > 0 {
			return &UndecodedKeysError{Path: path, Keys: keys}
		}
	}
	return fc.overlay(cfg)
}

func (fc *fileConfig) overlay(cfg *Config) error {
	setString(&cfg.ListenPort, fc.ListenPort)
	setString(&cfg.LogLevel, fc.LogLevel)
	setBool(&cfg.PrettyLog, fc.PrettyLog)

	setString(&cfg.BaseURL, fc.API.BaseURL)
	setString(&cfg.UserAgent, fc.API.UserAgent)

	setString(&cfg.ContainerDir, fc.Shared.Container)
	setString(&cfg.Suite, fc.Shared.Suite)
	setString(&cfg.KVDriver, fc.Shared.Driver)
	setString(&cfg.QueueKind, fc.Shared.Queue)
	setString(&cfg.SpoolDir, fc.Shared.SpoolDir)
	setString(&cfg.RulesFile, fc.Shared.Rules)
	if len(fc.Shared.Options) > 0 {
		cfg.KVOptions = fc.Shared.Options
	}

	if fc.Background.FanOut > 0 {
		cfg.FanOut = fc.Background.FanOut
	}
	setBool(&cfg.WatchSpool, fc.Background.WatchSpool)

	if len(fc.HTTP.AllowedHosts) > 0 {
		cfg.AllowedHosts = fc.HTTP.AllowedHosts
	}
	if len(fc.HTTP.AllowedCIDRs) > 0 {
		cfg.AllowedCIDRs = fc.HTTP.AllowedCIDRs
	}
	setBool(&cfg.TrustProxy, fc.HTTP.TrustProxy)
	if fc.HTTP.SyncBurst > 0 {
		cfg.SyncBurst = fc.HTTP.SyncBurst
	}
	if fc.HTTP.SyncRefillPerMin > 0 {
		cfg.SyncRefillPerMin = fc.HTTP.SyncRefillPerMin
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"shutdown_timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout},
		{"api.timeout", fc.API.Timeout, &cfg.HTTPTimeout},
		{"background.sync_interval", fc.Background.SyncInterval, &cfg.SyncInterval},
		{"background.refresh_interval", fc.Background.RefreshInterval, &cfg.RefreshInterval},
		{"background.media_gc_interval", fc.Background.MediaGCInterval, &cfg.MediaGCInterval},
		{"background.media_grace", fc.Background.MediaGrace, &cfg.MediaGrace},
		{"background.watch_debounce", fc.Background.WatchDebounce, &cfg.WatchDebounce},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config %s: %w", d.key, err)
		}
		*d.dst = v
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
