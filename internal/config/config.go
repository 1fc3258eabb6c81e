// Package config loads settings for the nrdb command-line tool.
//
// Values are layered, lowest to highest precedence: built-in defaults, a
// YAML file, NRDB_ environment variables, then command-line flags that were
// explicitly set.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jpl-au/nrdb"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultFile is read from the working directory when no --config is given.
const DefaultFile = "nrdb.yaml"

// EnvPrefix marks environment variables that override the file.
const EnvPrefix = "NRDB_"

// Default values.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultHash      = "xxh3"
)

// Config holds all CLI configuration options.
type Config struct {
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	Pretty    bool   `koanf:"pretty"`
	Compress  bool   `koanf:"compress"`
	Hash      string `koanf:"hash"`
	SkipSync  bool   `koanf:"skip_sync"`

	// Applied to tables that import creates.
	Convert        bool     `koanf:"convert"`
	ConvertExclude []string `koanf:"convert_exclude"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

var hashNames = map[string]int{
	"xxh3":    nrdb.AlgXXHash3,
	"fnv1a":   nrdb.AlgFNV1a,
	"blake2b": nrdb.AlgBlake2b,
}

// Load builds a Config. cfgFile may be empty, in which case DefaultFile is
// used when present. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"log_level":  DefaultLogLevel,
		"log_format": DefaultLogFormat,
		"pretty":     false,
		"compress":   false,
		"hash":       DefaultHash,
		"skip_sync":  false,
		"convert":    true,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := findConfigFile(cfgFile)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// NRDB_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns the explicit path, or DefaultFile if it exists.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: want text or json", c.LogFormat)
	}
	if _, err := c.HashAlgorithm(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// HashAlgorithm maps Hash to an nrdb algorithm constant.
func (c *Config) HashAlgorithm() (int, error) {
	alg, ok := hashNames[strings.ToLower(c.Hash)]
	if !ok {
		return 0, fmt.Errorf("invalid hash %q: want xxh3, fnv1a or blake2b", c.Hash)
	}
	return alg, nil
}

// SaveOptions returns the snapshot options the config selects.
func (c *Config) SaveOptions() nrdb.SaveOptions {
	return nrdb.SaveOptions{Pretty: c.Pretty, Compress: c.Compress}
}

// TableOptions returns the options applied to tables created on import.
func (c *Config) TableOptions() []nrdb.TableOption {
	return []nrdb.TableOption{
		nrdb.WithConvert(c.Convert),
		nrdb.WithConvertExclude(c.ConvertExclude...),
	}
}
