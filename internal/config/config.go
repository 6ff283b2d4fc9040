// Package config loads dsopt command configuration from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hupe1980/dsopt/codec"
	"github.com/hupe1980/dsopt/export"
	"github.com/hupe1980/dsopt/monitor"
	"github.com/hupe1980/dsopt/optimizer"
	"github.com/hupe1980/dsopt/registry"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the top-level configuration of the dsopt command.
type Config struct {
	Monitor    MonitorConfig     `yaml:"monitor" toml:"monitor"`
	Optimizer  OptimizerConfig   `yaml:"optimizer" toml:"optimizer"`
	Structures []StructureConfig `yaml:"structures" toml:"structures"`
	Workload   WorkloadConfig    `yaml:"workload" toml:"workload"`
	Log        LogConfig         `yaml:"log" toml:"log"`
	Export     ExportConfig      `yaml:"export" toml:"export"`
}

// MonitorConfig configures operation timing.
type MonitorConfig struct {
	WindowSize     int                `yaml:"window_size" toml:"window_size"`
	MaxSuggestions int                `yaml:"max_suggestions" toml:"max_suggestions"`
	ThresholdsMS   map[string]float64 `yaml:"thresholds_ms" toml:"thresholds_ms"`
}

// OptimizerConfig configures the optimizer checks.
type OptimizerConfig struct {
	MemoryCeilingBytes int64   `yaml:"memory_ceiling_bytes" toml:"memory_ceiling_bytes"`
	HitRateFloor       float64 `yaml:"hit_rate_floor" toml:"hit_rate_floor"`
	MinRequests        uint64  `yaml:"min_requests" toml:"min_requests"`
}

// StructureConfig declares one structure created before the workload runs.
type StructureConfig struct {
	Kind              string  `yaml:"kind" toml:"kind"`
	Name              string  `yaml:"name" toml:"name"`
	Capacity          int     `yaml:"capacity,omitempty" toml:"capacity,omitempty"`
	ExpectedElements  int     `yaml:"expected_elements,omitempty" toml:"expected_elements,omitempty"`
	FalsePositiveRate float64 `yaml:"false_positive_rate,omitempty" toml:"false_positive_rate,omitempty"`
	MaxFirst          bool    `yaml:"max_first,omitempty" toml:"max_first,omitempty"`
}

// WorkloadConfig configures the synthetic workload of the simulate command.
type WorkloadConfig struct {
	Ops  int   `yaml:"ops" toml:"ops"`
	Seed int64 `yaml:"seed" toml:"seed"`
}

// LogConfig configures logging. An empty File logs to stderr.
type LogConfig struct {
	Level      string `yaml:"level" toml:"level"`
	Format     string `yaml:"format" toml:"format"`
	File       string `yaml:"file,omitempty" toml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty" toml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty" toml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty" toml:"max_age_days,omitempty"`
	Compress   bool   `yaml:"compress,omitempty" toml:"compress,omitempty"`
}

// ExportConfig configures report publishing. A sink is enabled when its
// directory, bucket or endpoint is set.
type ExportConfig struct {
	Codec       string      `yaml:"codec" toml:"codec"`
	Compression string      `yaml:"compression" toml:"compression"`
	Prefix      string      `yaml:"prefix" toml:"prefix"`
	Concurrency int         `yaml:"concurrency" toml:"concurrency"`
	Local       LocalConfig `yaml:"local" toml:"local"`
	S3          S3Config    `yaml:"s3" toml:"s3"`
	Minio       MinioConfig `yaml:"minio" toml:"minio"`
}

// LocalConfig configures the directory sink.
type LocalConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// S3Config configures the Amazon S3 sink.
type S3Config struct {
	Bucket   string `yaml:"bucket" toml:"bucket"`
	Prefix   string `yaml:"prefix" toml:"prefix"`
	Region   string `yaml:"region" toml:"region"`
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
}

// MinioConfig configures the MinIO sink.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	AccessKey string `yaml:"access_key" toml:"access_key"`
	SecretKey string `yaml:"secret_key" toml:"secret_key"`
	Bucket    string `yaml:"bucket" toml:"bucket"`
	Prefix    string `yaml:"prefix" toml:"prefix"`
	Region    string `yaml:"region" toml:"region"`
	Secure    bool   `yaml:"secure" toml:"secure"`
}

// Default returns the built-in configuration.
func Default() Config {
	thresholds := make(map[string]float64)
	for c, d := range monitor.DefaultThresholds() {
		thresholds[string(c)] = float64(d) / float64(time.Millisecond)
	}

	return Config{
		Monitor: MonitorConfig{
			WindowSize:     monitor.DefaultWindowSize,
			MaxSuggestions: monitor.DefaultMaxSuggestions,
			ThresholdsMS:   thresholds,
		},
		Optimizer: OptimizerConfig{
			MemoryCeilingBytes: optimizer.DefaultMemoryCeiling,
			HitRateFloor:       optimizer.DefaultHitRateFloor,
			MinRequests:        optimizer.DefaultMinRequests,
		},
		Structures: []StructureConfig{
			{Kind: "cache", Name: "sessions", Capacity: 128},
			{Kind: "trie", Name: "autocomplete"},
			{Kind: "queue", Name: "jobs"},
			{Kind: "filter", Name: "seen", ExpectedElements: 10_000, FalsePositiveRate: 0.01},
		},
		Workload: WorkloadConfig{
			Ops:  10_000,
			Seed: 1,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Export: ExportConfig{
			Codec:       "go-json",
			Compression: "none",
			Prefix:      "reports",
		},
	}
}

// Load reads a configuration file on top of Default. The format is chosen
// by extension: .yaml/.yml or .toml. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read configuration file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%w: unknown keys in %s: %v", ErrInvalid, path, undecoded)
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported configuration format %q", ErrInvalid, ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	if c.Monitor.WindowSize <= 0 {
		return fmt.Errorf("%w: monitor.window_size must be positive", ErrInvalid)
	}
	if c.Monitor.MaxSuggestions <= 0 {
		return fmt.Errorf("%w: monitor.max_suggestions must be positive", ErrInvalid)
	}
	for _, name := range slices.Sorted(maps.Keys(c.Monitor.ThresholdsMS)) {
		if ms := c.Monitor.ThresholdsMS[name]; ms < 0 {
			return fmt.Errorf("%w: monitor.thresholds_ms.%s is negative", ErrInvalid, name)
		}
	}

	if c.Optimizer.MemoryCeilingBytes <= 0 {
		return fmt.Errorf("%w: optimizer.memory_ceiling_bytes must be positive", ErrInvalid)
	}
	if c.Optimizer.HitRateFloor < 0 || c.Optimizer.HitRateFloor > 1 {
		return fmt.Errorf("%w: optimizer.hit_rate_floor must be in [0, 1]", ErrInvalid)
	}

	seen := make(map[string]bool)
	for i, s := range c.Structures {
		kind, ok := registry.ParseKind(s.Kind)
		if !ok {
			return fmt.Errorf("%w: structures[%d]: unknown kind %q", ErrInvalid, i, s.Kind)
		}
		if s.Name == "" {
			return fmt.Errorf("%w: structures[%d]: name is required", ErrInvalid, i)
		}
		key := kind.String() + "/" + s.Name
		if seen[key] {
			return fmt.Errorf("%w: structures[%d]: duplicate %s", ErrInvalid, i, key)
		}
		seen[key] = true

		switch kind {
		case registry.KindCache:
			if s.Capacity <= 0 {
				return fmt.Errorf("%w: structures[%d]: cache capacity must be positive", ErrInvalid, i)
			}
		case registry.KindFilter:
			if s.ExpectedElements <= 0 || s.FalsePositiveRate <= 0 || s.FalsePositiveRate >= 1 {
				return fmt.Errorf("%w: structures[%d]: filter needs expected_elements > 0 and 0 < false_positive_rate < 1", ErrInvalid, i)
			}
		}
	}

	if c.Workload.Ops < 0 {
		return fmt.Errorf("%w: workload.ops is negative", ErrInvalid)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json", ErrInvalid)
	}

	if _, ok := codec.ByName(c.Export.Codec); !ok {
		return fmt.Errorf("%w: export.codec %q (want one of %v)", ErrInvalid, c.Export.Codec, codec.Names())
	}
	if _, err := export.ParseCompression(c.Export.Compression); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if m := c.Export.Minio; m.Endpoint != "" && m.Bucket == "" {
		return fmt.Errorf("%w: export.minio.bucket is required", ErrInvalid)
	}
	return nil
}

// Thresholds converts the configured milliseconds to durations.
func (c Config) Thresholds() map[monitor.Category]time.Duration {
	out := make(map[monitor.Category]time.Duration, len(c.Monitor.ThresholdsMS))
	for name, ms := range c.Monitor.ThresholdsMS {
		out[monitor.Category(name)] = time.Duration(ms * float64(time.Millisecond))
	}
	return out
}

// HasSinks reports whether any export sink is configured.
func (c Config) HasSinks() bool {
	e := c.Export
	return e.Local.Dir != "" || e.S3.Bucket != "" || e.Minio.Endpoint != ""
}
