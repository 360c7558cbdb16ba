package logger

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type Config struct {
	Level  string     `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string     `mapstructure:"format" yaml:"format"` // text, json
	Output string     `mapstructure:"output" yaml:"output"` // console, file, both
	File   FileConfig `mapstructure:"file" yaml:"file"`
}

type FileConfig struct {
	Filename   string `mapstructure:"filename" yaml:"filename"`
	MaxSize    int    `mapstructure:"maxsize" yaml:"maxsize"` // megabytes
	MaxAge     int    `mapstructure:"maxage" yaml:"maxage"`   // days
	MaxBackups int    `mapstructure:"maxbackups" yaml:"maxbackups"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "text",
		Output: "file",
		File: FileConfig{
			Filename:   "snapsearch.log",
			MaxSize:    10,
			MaxAge:     30,
			MaxBackups: 5,
		},
	}
}

func (c *Config) Validate() error {
	if !lo.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Level)) {
		return errors.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Level)
	}
	if c.Format != "text" && c.Format != "json" {
		return errors.Errorf("invalid log format %q, must be 'text' or 'json'", c.Format)
	}
	if !lo.Contains([]string{"console", "file", "both"}, c.Output) {
		return errors.Errorf("invalid log output %q, must be 'console', 'file' or 'both'", c.Output)
	}
	if c.Output != "console" {
		if c.File.Filename == "" {
			return errors.New("log file name is required when output is 'file' or 'both'")
		}
		if c.File.MaxSize <= 0 {
			return errors.New("log file maxsize must be greater than 0")
		}
		if c.File.MaxBackups < 0 || c.File.MaxAge < 0 {
			return errors.New("log file maxbackups and maxage must not be negative")
		}
	}
	return nil
}
