package config

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config resolves settings from, in increasing priority: built-in defaults,
// an optional YAML config file, environment, and command-line flags.
type Config struct {
	v *viper.Viper
}

// flagBindings maps config keys to the CLI flag that overrides them.
var flagBindings = map[string]string{
	"output_dir": "output",
	"delimiter":  "delimiter",
	"log_level":  "log-level",
}

// Build loads the configuration. When cfgFile is empty a config.yaml in the
// working directory is used if present; an explicitly named file must exist.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("output_dir", "")
	v.SetDefault("delimiter", ",")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("texrecon")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	return &Config{v: v}, nil
}

// OutputDir is where derived reports are written. Empty means next to the
// first input file.
func (c *Config) OutputDir() string {
	return c.v.GetString("output_dir")
}

// SetOutputDir overrides the output directory, e.g. from a job manifest.
func (c *Config) SetOutputDir(dir string) {
	c.v.Set("output_dir", dir)
}

// Delimiter is the field separator for delimited input and output.
func (c *Config) Delimiter() rune {
	s := c.v.GetString("delimiter")
	if s == "" {
		return ','
	}
	return []rune(s)[0]
}

// LogLevel parses the configured level, falling back to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.v.GetString("log_level"))
	if err != nil {
		return log.InfoLevel
	}
	return level
}
