// Package config loads wswp settings from defaults, an optional YAML file and
// WSWP_ environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override. Nested keys use "__",
	// e.g. WSWP_SUGGEST__CAP.
	EnvPrefix = "WSWP_"
	// PathEnvVar names a config file when --config is not given.
	PathEnvVar = "WSWP_CONFIG"
	// DBEnvVar is a shorthand for WSWP_DATABASE__PATH.
	DBEnvVar = "WSWP_DB"
	// DefaultFile is read from the working directory when present.
	DefaultFile = "wswp.yaml"
)

type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Suggest  SuggestConfig  `koanf:"suggest"`
	Resolve  ResolveConfig  `koanf:"resolve"`
	Browse   BrowseConfig   `koanf:"browse"`
	Steam    SteamConfig    `koanf:"steam"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled off"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type SuggestConfig struct {
	// Cap is the most games a single suggestion returns.
	Cap int `koanf:"cap" validate:"min=1"`
	// IgnoreMembers are player ids (bots, mostly) never counted as participants.
	IgnoreMembers []string `koanf:"ignore_members"`
}

type ResolveConfig struct {
	MaxCandidates int           `koanf:"max_candidates" validate:"min=1"`
	Timeout       time.Duration `koanf:"timeout" validate:"min=1s"`
}

type BrowseConfig struct {
	PageSize int `koanf:"page_size" validate:"min=1"`
	Width    int `koanf:"width" validate:"min=4"`
}

type SteamConfig struct {
	APIKey            string        `koanf:"api_key"`
	APIURL            string        `koanf:"api_url" validate:"required,url"`
	StoreURL          string        `koanf:"store_url" validate:"required,url"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	Timeout           time.Duration `koanf:"timeout" validate:"min=1s"`
}

type MetricsConfig struct {
	// Textfile is written in Prometheus text format after each command. Empty disables it.
	Textfile string `koanf:"textfile"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(home, ".wswp", "wswp.db")},
		Log:      LogConfig{Level: "warn", Format: "console"},
		Suggest:  SuggestConfig{Cap: 5, IgnoreMembers: []string{}},
		Resolve:  ResolveConfig{MaxCandidates: 25, Timeout: 30 * time.Second},
		Browse:   BrowseConfig{PageSize: 10, Width: 50},
		Steam: SteamConfig{
			APIURL:            "https://api.steampowered.com",
			StoreURL:          "https://store.steampowered.com",
			RequestsPerSecond: 5,
			Timeout:           10 * time.Second,
		},
	}
}

var validate = validator.New()

// Load builds the configuration. path may be empty, in which case
// $WSWP_CONFIG and then ./wswp.yaml are tried. A missing default file is not
// an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	if err := splitList(k, "suggest.ignore_members"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// envKey maps WSWP_STEAM__API_KEY to steam.api_key. WSWP_DB is an alias for
// the database path and WSWP_CONFIG is consumed before this layer.
func envKey(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	switch key {
	case "DB":
		return "database.path"
	case "CONFIG":
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

// splitList turns a comma-separated env value into a slice. YAML lists pass through.
func splitList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}
