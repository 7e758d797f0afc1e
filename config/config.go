// Package config loads context configuration from YAML.
//
// A minimal file:
//
//	log:
//	  level: debug
//	  format: json
//	resources:
//	  memory_limit_bytes: 268435456
//	lazyload:
//	  cache_bytes: 67108864
//	  index_codec: yaml
//	  storage:
//	    backend: local
//	    path: /var/lib/rvec
//
// Missing sections keep the values from Default.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/rvec/codec"
	"github.com/hupe1980/rvec/resource"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Backend names.
const (
	BackendMemory = "memory"
	BackendLocal  = "local"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
	BackendMinio  = "minio"
)

// Config is the configuration of an execution context.
type Config struct {
	Log       LogConfig      `yaml:"log"`
	Resources ResourceConfig `yaml:"resources"`
	LazyLoad  LazyLoadConfig `yaml:"lazyload"`

	// Seed seeds the context RNG. Nil seeds from the clock.
	Seed *int32 `yaml:"seed,omitempty"`
}

// LogConfig selects the logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text, json or auto. auto writes text to a terminal and JSON
	// otherwise.
	Format string `yaml:"format"`
}

// ResourceConfig bounds what a context may consume.
type ResourceConfig struct {
	// MemoryLimitBytes caps pinned off-heap memory and cache residency. 0 is unlimited.
	MemoryLimitBytes int64 `yaml:"memory_limit_bytes"`
	// IOLimitBytesPerSec throttles lazy-load reads and table writes. 0 is unlimited.
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`
	// FetchWorkers bounds parallel lazy-load fetches.
	FetchWorkers int64 `yaml:"fetch_workers"`
}

// LazyLoadConfig configures lazy-load databases.
type LazyLoadConfig struct {
	// CacheBytes is the capacity of the database file cache.
	CacheBytes int64 `yaml:"cache_bytes"`
	// IndexCodec names the codec of newly written indexes. Empty selects
	// go-json.
	IndexCodec string  `yaml:"index_codec,omitempty"`
	Storage    Storage `yaml:"storage"`
}

// Storage selects and configures a blob store backend.
type Storage struct {
	Backend string `yaml:"backend"`

	// Path is the root directory of the local backend or the database file of
	// the sqlite backend.
	Path string `yaml:"path,omitempty"`

	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`

	// AccessKey and SecretKey are used by the minio backend. The s3 backend
	// uses the default AWS credential chain.
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	UseSSL    bool   `yaml:"use_ssl,omitempty"`

	// DynamoDBTable enables versioned index commits on the s3 backend.
	DynamoDBTable string `yaml:"dynamodb_table,omitempty"`

	// BlockCacheBytes wraps remote backends in a block cache when positive.
	BlockCacheBytes int64 `yaml:"block_cache_bytes,omitempty"`
	BlockSize       int64 `yaml:"block_size,omitempty"`
}

// Default returns the configuration used when none is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Resources: ResourceConfig{
			FetchWorkers: 4,
		},
		LazyLoad: LazyLoadConfig{
			CacheBytes: 64 << 20,
			Storage:    Storage{Backend: BackendMemory},
		},
	}
}

// Load reads and parses a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses YAML over Default and validates the result. path is used
// only in error messages.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for semantic errors.
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json", "auto":
	default:
		return fmt.Errorf("%w: log.format %q must be text, json or auto", ErrInvalid, c.Log.Format)
	}

	r := c.Resources
	if r.MemoryLimitBytes < 0 || r.IOLimitBytesPerSec < 0 || r.FetchWorkers < 0 {
		return fmt.Errorf("%w: resource limits must not be negative", ErrInvalid)
	}
	if c.LazyLoad.CacheBytes < 0 {
		return fmt.Errorf("%w: lazyload.cache_bytes must not be negative", ErrInvalid)
	}
	if _, err := codec.Lookup(c.LazyLoad.IndexCodec); err != nil {
		return fmt.Errorf("%w: lazyload.index_codec: %v", ErrInvalid, err)
	}
	return c.LazyLoad.Storage.Validate()
}

// Validate checks that the backend has the fields it needs.
func (s Storage) Validate() error {
	switch s.Backend {
	case "", BackendMemory:
	case BackendLocal, BackendSQLite:
		if s.Path == "" {
			return fmt.Errorf("%w: storage.path is required for the %s backend", ErrInvalid, s.Backend)
		}
	case BackendS3:
		if s.Bucket == "" {
			return fmt.Errorf("%w: storage.bucket is required for the s3 backend", ErrInvalid)
		}
	case BackendMinio:
		if s.Bucket == "" || s.Endpoint == "" {
			return fmt.Errorf("%w: storage.bucket and storage.endpoint are required for the minio backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalid, s.Backend)
	}
	if s.BlockCacheBytes < 0 || s.BlockSize < 0 {
		return fmt.Errorf("%w: block cache sizes must not be negative", ErrInvalid)
	}
	return nil
}

// SlogLevel parses Level. An empty level is info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, l.Level)
	}
	return lvl, nil
}

// ResourceConfig converts the limits for resource.NewController.
func (r ResourceConfig) ResourceConfig() resource.Config {
	return resource.Config{
		MemoryLimitBytes:   r.MemoryLimitBytes,
		FetchWorkers:       r.FetchWorkers,
		IOLimitBytesPerSec: r.IOLimitBytesPerSec,
	}
}
