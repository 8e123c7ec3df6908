package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"

	"github.com/hupe1980/qsimd"
	"github.com/hupe1980/qsimd/resource"
)

// Prefix is the environment variable prefix.
const Prefix = "QSIMD"

// Config validation errors
var (
	ErrInvalidThreads         = errors.New("threads must not be negative")
	ErrInvalidMemoryLimit     = errors.New("memory_limit_bytes must not be negative")
	ErrInvalidSnapshotLimit   = errors.New("max_concurrent_snapshots must be positive")
	ErrInvalidIOLimit         = errors.New("snapshot_io_limit_bytes_per_sec must not be negative")
	ErrInvalidLogFormat       = errors.New("log_format must be 'json' or 'text'")
	ErrInvalidLogLevel        = errors.New("log_level must be debug, info, warn, or error")
	ErrInvalidMinParallelSize = errors.New("min_parallel_size must be positive")
)

// Config is the environment-derived simulator configuration.
type Config struct {
	Threads                 int    `envconfig:"THREADS" default:"1"`
	MinParallelSize         uint64 `envconfig:"MIN_PARALLEL_SIZE" default:"1024"`
	MemoryLimitBytes        int64  `envconfig:"MEMORY_LIMIT_BYTES" default:"0"`
	MaxConcurrentSnapshots  int64  `envconfig:"MAX_CONCURRENT_SNAPSHOTS" default:"1"`
	SnapshotIOLimitBytesSec int64  `envconfig:"SNAPSHOT_IO_LIMIT_BYTES_PER_SEC" default:"0"`
	LogLevel                string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat               string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads the configuration from QSIMD_* variables and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate returns the first invalid setting.
func (c Config) Validate() error {
	if c.Threads < 0 {
		return ErrInvalidThreads
	}
	if c.MinParallelSize == 0 {
		return ErrInvalidMinParallelSize
	}
	if c.MemoryLimitBytes < 0 {
		return ErrInvalidMemoryLimit
	}
	if c.MaxConcurrentSnapshots <= 0 {
		return ErrInvalidSnapshotLimit
	}
	if c.SnapshotIOLimitBytesSec < 0 {
		return ErrInvalidIOLimit
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return ErrInvalidLogFormat
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, ErrInvalidLogLevel
	}
}

// Resources builds the controller described by the memory and snapshot
// settings.
func (c Config) Resources() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:       c.MemoryLimitBytes,
		MaxConcurrentSnapshots: c.MaxConcurrentSnapshots,
		IOLimitBytesPerSec:     c.SnapshotIOLimitBytesSec,
	})
}

// Logger builds a logger in the configured format and level.
func (c Config) Logger() (*qsimd.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	if c.LogFormat == "json" {
		return qsimd.NewJSONLogger(level), nil
	}
	return qsimd.NewTextLogger(level), nil
}

// Options converts the configuration into simulator options.
func (c Config) Options() ([]qsimd.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}
	return []qsimd.Option{
		qsimd.WithThreads(c.Threads),
		qsimd.WithMinParallelSize(c.MinParallelSize),
		qsimd.WithResourceController(c.Resources()),
		qsimd.WithLogger(logger),
	}, nil
}
