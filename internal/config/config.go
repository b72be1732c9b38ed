package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const DefaultMaxPages = 1000

type Config struct {
	Region      string           `toml:"region"`
	Profile     string           `toml:"profile"`
	AllowWrites bool             `toml:"allow_writes"`
	Toolsets    []string         `toml:"toolsets"`
	LogLevel    string           `toml:"log_level"`
	Timeouts    TimeoutConfig    `toml:"timeouts"`
	Cache       CacheConfig      `toml:"cache"`
	Pagination  PaginationConfig `toml:"pagination"`
	Metrics     MetricsConfig    `toml:"metrics"`
}

type TimeoutConfig struct {
	DefaultSeconds int            `toml:"default_seconds"`
	MaxSeconds     int            `toml:"max_seconds"`
	PerTool        map[string]int `toml:"per_tool"`
}

type CacheConfig struct {
	ListTTLSeconds int `toml:"list_ttl_seconds"`
}

type PaginationConfig struct {
	MaxPages int `toml:"max_pages"`
}

type MetricsConfig struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
	Insecure     bool   `toml:"insecure"`
}

type Overrides struct {
	Region      *string
	Profile     *string
	AllowWrites *bool
	Toolsets    *[]string
	LogLevel    *string
}

func DefaultConfig() Config {
	return Config{
		Toolsets:   []string{"aws"},
		Pagination: PaginationConfig{MaxPages: DefaultMaxPages},
	}
}

func Load(path string, dir string, overrides Overrides) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		merge(&cfg, fileCfg)
	}

	if dir != "" {
		files, err := dropInFiles(dir)
		if err != nil {
			return cfg, err
		}
		for _, file := range files {
			fileCfg, err := readFile(file)
			if err != nil {
				return cfg, err
			}
			merge(&cfg, fileCfg)
		}
	}

	applyOverrides(&cfg, overrides)
	return cfg, nil
}

// LoadDotEnv populates the process environment from .env style files.
// Variables already present in the environment are left untouched and
// missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

func readFile(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err != nil {
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func dropInFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".toml" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func merge(dst *Config, src Config) {
	if src.Region != "" {
		dst.Region = src.Region
	}
	if src.Profile != "" {
		dst.Profile = src.Profile
	}
	if src.AllowWrites {
		dst.AllowWrites = src.AllowWrites
	}
	if len(src.Toolsets) > 0 {
		dst.Toolsets = append([]string{}, src.Toolsets...)
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.Timeouts.DefaultSeconds != 0 {
		dst.Timeouts.DefaultSeconds = src.Timeouts.DefaultSeconds
	}
	if src.Timeouts.MaxSeconds != 0 {
		dst.Timeouts.MaxSeconds = src.Timeouts.MaxSeconds
	}
	if len(src.Timeouts.PerTool) > 0 {
		if dst.Timeouts.PerTool == nil {
			dst.Timeouts.PerTool = map[string]int{}
		}
		for name, seconds := range src.Timeouts.PerTool {
			dst.Timeouts.PerTool[name] = seconds
		}
	}
	if src.Cache.ListTTLSeconds != 0 {
		dst.Cache.ListTTLSeconds = src.Cache.ListTTLSeconds
	}
	if src.Pagination.MaxPages != 0 {
		dst.Pagination.MaxPages = src.Pagination.MaxPages
	}
	if src.Metrics.OTLPEndpoint != "" {
		dst.Metrics.OTLPEndpoint = src.Metrics.OTLPEndpoint
	}
	if src.Metrics.Insecure {
		dst.Metrics.Insecure = src.Metrics.Insecure
	}
}

func applyOverrides(cfg *Config, overrides Overrides) {
	if overrides.Region != nil {
		cfg.Region = *overrides.Region
	}
	if overrides.Profile != nil {
		cfg.Profile = *overrides.Profile
	}
	if overrides.AllowWrites != nil {
		cfg.AllowWrites = *overrides.AllowWrites
	}
	if overrides.Toolsets != nil {
		cfg.Toolsets = append([]string{}, (*overrides.Toolsets)...)
	}
	if overrides.LogLevel != nil {
		cfg.LogLevel = *overrides.LogLevel
	}
}
