// Package config loads and exposes application configuration (TOML file
// with environment-variable overrides).
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath = "config.toml"
	DefaultHTTPAddr   = ":8080"

	DefaultRequestTimeout  = 120 * time.Second
	DefaultSocketTimeout   = 30 * time.Second
	DefaultRetries         = 3
	DefaultPlaylistMax     = 5
	DefaultRecencyWindow   = 300 * time.Second
	DefaultMinFileSize     = 1024
	DefaultSizeRatio       = 0.30
	DefaultFilterTimeout   = 300 * time.Second
	DefaultJanitorSchedule = "@every 10m"
	DefaultRetention       = 24 * time.Hour
)

// Config is the root application configuration.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Download DownloadConfig `toml:"download"`
	Resolve  ResolveConfig  `toml:"resolve"`
	Filter   FilterConfig   `toml:"filter"`
	Janitor  JanitorConfig  `toml:"janitor"`
}

// LogConfig holds logging level and format (level=info, format=text|json).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DownloadConfig holds the shared downloads directory and extraction tuning.
type DownloadConfig struct {
	Directory          string `toml:"directory"`
	RequestTimeoutSecs int    `toml:"request_timeout_seconds"`
	SocketTimeoutSecs  int    `toml:"socket_timeout_seconds"`
	Retries            int    `toml:"retries"`
	PlaylistMaxEntries int    `toml:"playlist_max_entries"`
}

// ResolveConfig holds the output-resolution heuristics. The recency window
// and minimum size are empirical constants, not structural invariants, so
// they stay configurable.
type ResolveConfig struct {
	RecencyWindowSecs int   `toml:"recency_window_seconds"`
	MinFileSizeBytes  int64 `toml:"min_file_size_bytes"`
}

// FilterConfig holds watermark-removal tuning. SizeRatio is the minimum
// cleaned/original size ratio below which a cleaned file is discarded.
type FilterConfig struct {
	SizeRatio          float64 `toml:"size_ratio_threshold"`
	ProcessTimeoutSecs int     `toml:"process_timeout_seconds"`
}

// JanitorConfig holds the cleanup schedule (cron spec) and artifact retention.
type JanitorConfig struct {
	Schedule       string `toml:"schedule"`
	RetentionHours int    `toml:"retention_hours"`
}

// RequestTimeout returns the per-request deadline.
func (c DownloadConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// SocketTimeout returns the extraction socket timeout.
func (c DownloadConfig) SocketTimeout() time.Duration {
	return time.Duration(c.SocketTimeoutSecs) * time.Second
}

// RecencyWindow returns the output-eligibility recency window.
func (c ResolveConfig) RecencyWindow() time.Duration {
	return time.Duration(c.RecencyWindowSecs) * time.Second
}

// ProcessTimeout returns the filter-engine run deadline.
func (c FilterConfig) ProcessTimeout() time.Duration {
	return time.Duration(c.ProcessTimeoutSecs) * time.Second
}

// Retention returns how long finished artifacts and request directories are
// kept before the janitor removes them.
func (c JanitorConfig) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Download: DownloadConfig{
			Directory:          defaultDownloadDir(),
			RequestTimeoutSecs: int(DefaultRequestTimeout / time.Second),
			SocketTimeoutSecs:  int(DefaultSocketTimeout / time.Second),
			Retries:            DefaultRetries,
			PlaylistMaxEntries: DefaultPlaylistMax,
		},
		Resolve: ResolveConfig{
			RecencyWindowSecs: int(DefaultRecencyWindow / time.Second),
			MinFileSizeBytes:  DefaultMinFileSize,
		},
		Filter: FilterConfig{
			SizeRatio:          DefaultSizeRatio,
			ProcessTimeoutSecs: int(DefaultFilterTimeout / time.Second),
		},
		Janitor: JanitorConfig{
			Schedule:       DefaultJanitorSchedule,
			RetentionHours: int(DefaultRetention / time.Hour),
		},
	}
}

// Load reads the TOML config at path (missing file is not an error), applies
// environment overrides, and clamps out-of-range values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, err
			}
		}
	}
	cfg = fromEnv(cfg)
	cfg.clamp()
	return cfg, nil
}

// fromEnv applies DAZZLO_* environment overrides on top of cfg.
func fromEnv(c Config) Config {
	if v := os.Getenv("DAZZLO_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DAZZLO_DOWNLOAD_DIR"); v != "" {
		c.Download.Directory = v
	}
	if v := os.Getenv("DAZZLO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DAZZLO_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("DAZZLO_REQUEST_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Download.RequestTimeoutSecs = n
		}
	}
	if v := os.Getenv("DAZZLO_SIZE_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Filter.SizeRatio = f
		}
	}
	return c
}

// clamp pulls obviously broken values back to their defaults.
func (c *Config) clamp() {
	if c.Download.RequestTimeoutSecs <= 0 {
		c.Download.RequestTimeoutSecs = int(DefaultRequestTimeout / time.Second)
	}
	if c.Download.SocketTimeoutSecs <= 0 {
		c.Download.SocketTimeoutSecs = int(DefaultSocketTimeout / time.Second)
	}
	if c.Download.Retries < 0 {
		c.Download.Retries = DefaultRetries
	}
	if c.Download.PlaylistMaxEntries <= 0 {
		c.Download.PlaylistMaxEntries = DefaultPlaylistMax
	}
	if c.Resolve.RecencyWindowSecs <= 0 {
		c.Resolve.RecencyWindowSecs = int(DefaultRecencyWindow / time.Second)
	}
	if c.Resolve.MinFileSizeBytes <= 0 {
		c.Resolve.MinFileSizeBytes = DefaultMinFileSize
	}
	if c.Filter.SizeRatio <= 0 || c.Filter.SizeRatio >= 1 {
		c.Filter.SizeRatio = DefaultSizeRatio
	}
	if c.Filter.ProcessTimeoutSecs <= 0 {
		c.Filter.ProcessTimeoutSecs = int(DefaultFilterTimeout / time.Second)
	}
	if c.Janitor.Schedule == "" {
		c.Janitor.Schedule = DefaultJanitorSchedule
	}
	if c.Janitor.RetentionHours <= 0 {
		c.Janitor.RetentionHours = int(DefaultRetention / time.Hour)
	}
	if c.Download.Directory == "" {
		c.Download.Directory = defaultDownloadDir()
	}
}

// defaultDownloadDir returns ~/Downloads/Dazzlo Downloads, falling back to a
// temp-rooted directory when the home directory is unknown.
func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "dazzlo-downloads")
	}
	return filepath.Join(home, "Downloads", "Dazzlo Downloads")
}

// EnsureDownloadDir creates the configured download directory, falling back
// to a temp-rooted directory when creation fails. It returns the directory
// actually usable.
func EnsureDownloadDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err == nil {
		return dir, nil
	}
	fallback := filepath.Join(os.TempDir(), "dazzlo-downloads")
	if err := os.MkdirAll(fallback, 0o755); err != nil {
		return "", err
	}
	return fallback, nil
}
