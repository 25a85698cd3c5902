package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "FAIRNORM_"

// Config holds all fairnorm configuration.
type Config struct {
	Engine    EngineConfig    `koanf:"engine"`
	Connector ConnectorConfig `koanf:"connector"`
	Store     StoreConfig     `koanf:"store"`
	Output    OutputConfig    `koanf:"output"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// EngineConfig holds normalization and duplicate-detection settings.
type EngineConfig struct {
	Threshold      float64 `koanf:"threshold" validate:"gte=0,lte=1"`
	MaxDayDiff     int     `koanf:"max_day_diff" validate:"gte=0,lte=366"`
	PrefixLen      int     `koanf:"prefix_len" validate:"gte=1"`
	TablesDir      string  `koanf:"tables_dir"` // empty: embedded tables
	VenueCacheSize int     `koanf:"venue_cache_size" validate:"gte=0"`
	Workers        int     `koanf:"workers" validate:"gte=1,lte=256"`
	SourceHint     string  `koanf:"source_hint" validate:"omitempty,oneof=government"`
}

// ConnectorConfig selects where raw records come from.
type ConnectorConfig struct {
	Provider string `koanf:"provider" validate:"required"`
	Path     string `koanf:"path"` // empty: stdin
}

// StoreConfig selects the candidate store.
type StoreConfig struct {
	Provider       string        `koanf:"provider" validate:"oneof=none memory postgres"`
	Path           string        `koanf:"path"`
	DSN            string        `koanf:"dsn" validate:"required_if=Provider postgres"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gte=0"`
	Write          bool          `koanf:"write"` // insert unique records after a run
}

// OutputConfig holds output destination settings.
type OutputConfig struct {
	Format    string `koanf:"format" validate:"oneof=stdout file"`
	Path      string `koanf:"path" validate:"required_if=Format file"`
	Pretty    bool   `koanf:"pretty"`
	MaxSize   int64  `koanf:"max_size" validate:"gte=0"` // bytes before rotation; 0 disables
	Keep      int    `koanf:"keep" validate:"gte=0"`     // rotated generations kept; 0 means 10
	Verbosity string `koanf:"verbosity" validate:"oneof=minimal standard"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn warning error"`
	JSON  bool   `koanf:"json"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Path string `koanf:"path"` // empty: no export
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Threshold:      0.6,
			MaxDayDiff:     1,
			PrefixLen:      10,
			VenueCacheSize: 1024,
			Workers:        4,
		},
		Connector: ConnectorConfig{Provider: "ndjson"},
		Store:     StoreConfig{Provider: "none", ConnectTimeout: 5 * time.Second},
		Output:    OutputConfig{Format: "stdout", Verbosity: "standard"},
		Log:       LogConfig{Level: "info"},
	}
}

// envPaths maps environment variables (without prefix) to config paths.
var envPaths = map[string]string{
	"ENGINE_THRESHOLD":        "engine.threshold",
	"ENGINE_MAX_DAY_DIFF":     "engine.max_day_diff",
	"ENGINE_PREFIX_LEN":       "engine.prefix_len",
	"ENGINE_TABLES_DIR":       "engine.tables_dir",
	"ENGINE_VENUE_CACHE_SIZE": "engine.venue_cache_size",
	"ENGINE_WORKERS":          "engine.workers",
	"ENGINE_SOURCE_HINT":      "engine.source_hint",
	"CONNECTOR":               "connector.provider",
	"CONNECTOR_PATH":          "connector.path",
	"STORE":                   "store.provider",
	"STORE_PATH":              "store.path",
	"STORE_DSN":               "store.dsn",
	"STORE_CONNECT_TIMEOUT":   "store.connect_timeout",
	"STORE_WRITE":             "store.write",
	"OUTPUT":                  "output.format",
	"OUTPUT_PATH":             "output.path",
	"OUTPUT_PRETTY":           "output.pretty",
	"OUTPUT_MAX_SIZE":         "output.max_size",
	"OUTPUT_KEEP":             "output.keep",
	"OUTPUT_VERBOSITY":        "output.verbosity",
	"LOG_LEVEL":               "log.level",
	"LOG_JSON":                "log.json",
	"METRICS_PATH":            "metrics.path",
}

// Load reads defaults, then FAIRNORM_* environment variables, and validates
// the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envPaths[strings.TrimPrefix(key, EnvPrefix)]
			if !ok || value == "" {
				return "", nil
			}
			return path, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks ranges and provider names.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// EnvVars lists every environment variable the loader understands.
func EnvVars() []string {
	out := make([]string, 0, len(envPaths))
	for k := range envPaths {
		out = append(out, EnvPrefix+k)
	}
	return out
}
