// Package config resolves paramset settings from defaults, an optional
// YAML config file, PARAMSET_* environment variables and command-line
// flags, in increasing order of priority.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable: max_steps is read from
// PARAMSET_MAX_STEPS.
const EnvPrefix = "PARAMSET"

// Setting keys.
const (
	KeyDB          = "db"
	KeyFormat      = "format"
	KeyVerbose     = "verbose"
	KeyMaxSteps    = "max_steps"
	KeyRoundDigits = "round_digits"
)

// FlagNames maps setting keys to the command-line flags that override them.
// A command that does not define a flag simply does not override that key.
var FlagNames = map[string]string{
	KeyDB:          "db",
	KeyFormat:      "format",
	KeyVerbose:     "verbose",
	KeyMaxSteps:    "max-steps",
	KeyRoundDigits: "digits",
}

// Formats lists the accepted output formats.
var Formats = []string{"text", "json"}

// Config holds the resolved settings.
type Config struct {
	DB          string `mapstructure:"db"`
	Format      string `mapstructure:"format"`
	Verbose     bool   `mapstructure:"verbose"`
	MaxSteps    int    `mapstructure:"max_steps"`
	RoundDigits int    `mapstructure:"round_digits"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		DB:          "paramset.db",
		Format:      "text",
		MaxSteps:    10000,
		RoundDigits: 0,
	}
}

// Load resolves settings. path names a YAML config file and may be empty.
// fs may be nil; flags in it override every other source only when they
// were set explicitly.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault(KeyDB, d.DB)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyVerbose, d.Verbose)
	v.SetDefault(KeyMaxSteps, d.MaxSteps)
	v.SetDefault(KeyRoundDigits, d.RoundDigits)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if fs != nil {
		for key, name := range FlagNames {
			flag := fs.Lookup(name)
			if flag == nil || !flag.Changed {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, Formats)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	if c.RoundDigits < 0 {
		return fmt.Errorf("round_digits must not be negative, got %d", c.RoundDigits)
	}
	return nil
}
