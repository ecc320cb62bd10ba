// Package config loads the eticket server and CLI configuration.
//
// Sources are layered with koanf, lowest precedence first: built-in
// defaults, an optional YAML file (eticket.yaml), ETICKET_* environment
// variables and explicitly set command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ETICKET_"

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "eticket.yaml"

// Store drivers.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// MinSecretLength is the shortest accepted session secret.
const MinSecretLength = 32

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid configuration")
)

// Config is the resolved configuration.
type Config struct {
	Addr            string        `koanf:"addr"`
	LogLevel        string        `koanf:"log_level"`
	Verbose         bool          `koanf:"verbose"`
	Travelers       int           `koanf:"travelers"`
	Requirements    string        `koanf:"requirements"`
	Presets         string        `koanf:"presets"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Metrics         bool          `koanf:"metrics"`

	Session SessionConfig `koanf:"session"`
	Store   StoreConfig   `koanf:"store"`
	Theme   ThemeConfig   `koanf:"theme"`

	// File is the configuration file that was read, if any.
	File string `koanf:"-"`
}

// SessionConfig configures the draft cookie.
type SessionConfig struct {
	Name   string        `koanf:"name"`
	Secret string        `koanf:"secret"`
	MaxAge time.Duration `koanf:"max_age"`
	Secure bool          `koanf:"secure"`
}

// StoreConfig selects where drafts are persisted.
type StoreConfig struct {
	Driver   string        `koanf:"driver"`
	RedisURL string        `koanf:"redis_url"`
	Prefix   string        `koanf:"prefix"`
	TTL      time.Duration `koanf:"ttl"`
}

// ThemeConfig selects the go-theme manifest applied to rendered steps.
type ThemeConfig struct {
	Manifest string `koanf:"manifest"`
	Name     string `koanf:"name"`
	Variant  string `koanf:"variant"`
}

// Defaults returns the built-in values as a flat koanf map.
func Defaults() map[string]any {
	return map[string]any{
		"addr":             ":8080",
		"log_level":        "info",
		"verbose":          false,
		"travelers":        1,
		"requirements":     "",
		"presets":          "",
		"shutdown_timeout": "10s",
		"metrics":          true,
		"session.name":     "eticket",
		"session.secret":   "",
		"session.max_age":  "24h",
		"session.secure":   false,
		"store.driver":     StoreMemory,
		"store.redis_url":  "",
		"store.prefix":     "eticket:draft:",
		"store.ttl":        "24h",
		"theme.manifest":   "",
		"theme.name":       "",
		"theme.variant":    "",
	}
}

// flagKeys maps flag names whose config key is not the snake_case form.
var flagKeys = map[string]string{
	"store":          "store.driver",
	"redis-url":      "store.redis_url",
	"session-secret": "session.secret",
	"secure-cookie":  "session.secure",
	"theme":          "theme.name",
	"theme-variant":  "theme.variant",
	"theme-manifest": "theme.manifest",
}

// sections lists the nested groups reachable from environment variables,
// e.g. ETICKET_STORE_REDIS_URL -> store.redis_url.
var sections = []string{"session", "store", "theme"}

// BindFlags registers the flags Load understands on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Int("travelers", 1, "number of travelers in the declaration")
	fs.String("requirements", "", "YAML file overriding the field requirement registry")
	fs.String("presets", "", "JSON file with step copy overrides")
	fs.String("store", StoreMemory, "draft store driver (memory, redis)")
	fs.String("redis-url", "", "redis URL for the redis draft store")
	fs.String("session-secret", "", "secret used to sign the session cookie")
	fs.Bool("secure-cookie", false, "mark the session cookie Secure")
	fs.String("theme", "", "theme name")
	fs.String("theme-variant", "", "theme variant")
	fs.String("theme-manifest", "", "YAML theme manifest")
}

// Load resolves the configuration. path may be empty, in which case
// DefaultFile is read when present. flags may be nil; only flags that were
// explicitly set override other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	used := findFile(path)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.File = used
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var problems []string
	switch c.Store.Driver {
	case StoreMemory:
	case StoreRedis:
		if strings.TrimSpace(c.Store.RedisURL) == "" {
			problems = append(problems, "store.redis_url is required for the redis store")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown store driver %q", c.Store.Driver))
	}
	if c.Store.TTL <= 0 {
		problems = append(problems, "store.ttl must be positive")
	}
	if c.Session.Secret != "" && len(c.Session.Secret) < MinSecretLength {
		problems = append(problems, fmt.Sprintf("session.secret must be at least %d bytes", MinSecretLength))
	}
	if c.Travelers < 1 {
		problems = append(problems, "travelers must be at least 1")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.LogLevel))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func findFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}
