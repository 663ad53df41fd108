package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Runtime settings for the server and dbtool.
type Config struct {
	DatabaseURL        string        `yaml:"database_url" validate:"required"`
	Port               string        `yaml:"port" validate:"required,numeric"`
	CSVPath            string        `yaml:"csv_path" validate:"required"`
	StatusResetAfter   time.Duration `yaml:"status_reset_after" validate:"gte=0"`
	StatusPushInterval time.Duration `yaml:"status_push_interval" validate:"gt=0"`
	QueryCacheTTL      time.Duration `yaml:"query_cache_ttl" validate:"gte=0"`
	QueryCacheSize     int           `yaml:"query_cache_size" validate:"gt=0"`
}

func defaults() Config {
	return Config{
		Port:               "8080",
		CSVPath:            "data/trips.csv",
		StatusResetAfter:   5 * time.Second,
		StatusPushInterval: time.Second,
		QueryCacheTTL:      30 * time.Second,
		QueryCacheSize:     128,
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE, and environment variables, in increasing precedence.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

func LoadFrom(lookup func(string) (string, bool)) (Config, error) {
	cfg := defaults()

	if path, ok := lookup("CONFIG_FILE"); ok && strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	}

	env := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := env("DATABASE_URL"); ok {
		cfg.DatabaseURL = v
	}
	if v, ok := env("PORT"); ok {
		cfg.Port = v
	}
	if v, ok := env("CSV_PATH"); ok {
		cfg.CSVPath = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"STATUS_RESET_AFTER", &cfg.StatusResetAfter},
		{"STATUS_PUSH_INTERVAL", &cfg.StatusPushInterval},
		{"QUERY_CACHE_TTL", &cfg.QueryCacheTTL},
	}
	for _, d := range durations {
		v, ok := env(d.key)
		if !ok {
			continue
		}
		dur, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %s: %w", d.key, err)
		}
		*d.dst = dur
	}

	if v, ok := env("QUERY_CACHE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("load config: QUERY_CACHE_SIZE: %w", err)
		}
		cfg.QueryCacheSize = n
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}
