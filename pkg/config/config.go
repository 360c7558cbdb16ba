package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/integrail/snapsearch/pkg/client"
	"github.com/integrail/snapsearch/pkg/logger"
)

const (
	DriverChrome = "chrome"
	DriverBaas   = "baas"

	envPrefix = "SNAPSEARCH"
)

type Config struct {
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Search  SearchConfig  `mapstructure:"search" yaml:"search"`
	Baas    client.Config `mapstructure:"baas" yaml:"baas"`
	Log     logger.Config `mapstructure:"log" yaml:"log"`
}

type BrowserConfig struct {
	Driver   string   `mapstructure:"driver" yaml:"driver"` // chrome, baas
	Headless bool     `mapstructure:"headless" yaml:"headless"`
	ExecPath string   `mapstructure:"execPath" yaml:"execPath"`
	Width    int      `mapstructure:"width" yaml:"width"`
	Height   int      `mapstructure:"height" yaml:"height"`
	Flags    []string `mapstructure:"flags" yaml:"flags"` // name=value chrome switches
}

type SearchConfig struct {
	WaitTimeout   time.Duration `mapstructure:"waitTimeout" yaml:"waitTimeout"`
	ScreenshotDir string        `mapstructure:"screenshotDir" yaml:"screenshotDir"`
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"driver":          "browser.driver",
	"headless":        "browser.headless",
	"chrome-path":     "browser.execPath",
	"chrome-flag":     "browser.flags",
	"wait-timeout":    "search.waitTimeout",
	"screenshot-dir":  "search.screenshotDir",
	"url":             "baas.url",
	"key":             "baas.apiKey",
	"proxy":           "baas.useProxy",
	"session-timeout": "baas.timeout",
	"message-timeout": "baas.messageTimeout",
	"log-level":       "log.level",
	"log-output":      "log.output",
	"log-file":        "log.file.filename",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("browser.driver", DriverChrome)
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.execPath", "")
	v.SetDefault("browser.width", 1920)
	v.SetDefault("browser.height", 1080)
	v.SetDefault("browser.flags", []string{})

	v.SetDefault("search.waitTimeout", 10*time.Second)
	v.SetDefault("search.screenshotDir", "")

	v.SetDefault("baas.url", "https://baas.integrail.ai")
	v.SetDefault("baas.apiKey", "")
	v.SetDefault("baas.useProxy", true)
	v.SetDefault("baas.localDebug", false)
	v.SetDefault("baas.timeout", "10m")
	v.SetDefault("baas.messageTimeout", "30s")
	v.SetDefault("baas.secrets", []string{})
	v.SetDefault("baas.values", []string{})

	logDefaults := logger.DefaultConfig()
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.format", logDefaults.Format)
	v.SetDefault("log.output", logDefaults.Output)
	v.SetDefault("log.file.filename", logDefaults.File.Filename)
	v.SetDefault("log.file.maxsize", logDefaults.File.MaxSize)
	v.SetDefault("log.file.maxage", logDefaults.File.MaxAge)
	v.SetDefault("log.file.maxbackups", logDefaults.File.MaxBackups)
	v.SetDefault("log.file.compress", logDefaults.File.Compress)
}

// Load merges, from lowest to highest precedence: defaults, the config file
// at path (if any), SNAPSEARCH_* environment variables and changed flags.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// kept for compatibility with the baas-cli environment
	if err := v.BindEnv("baas.url", envPrefix+"_BAAS_URL", "BAAS_URL"); err != nil {
		return nil, errors.Wrapf(err, "failed to bind env")
	}
	if err := v.BindEnv("baas.apiKey", envPrefix+"_BAAS_APIKEY", "BAAS_API_KEY"); err != nil {
		return nil, errors.Wrapf(err, "failed to bind env")
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "failed to bind flag %s", name)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if !lo.Contains([]string{DriverChrome, DriverBaas}, c.Browser.Driver) {
		return errors.Errorf("invalid browser driver %q, must be %q or %q", c.Browser.Driver, DriverChrome, DriverBaas)
	}
	if c.Search.WaitTimeout <= 0 {
		return errors.Errorf("search wait timeout must be positive, got %s", c.Search.WaitTimeout)
	}
	if c.Browser.Driver == DriverBaas && c.Baas.Url == "" {
		return errors.New("baas url is required when the baas driver is used")
	}
	if err := c.Log.Validate(); err != nil {
		return errors.Wrapf(err, "invalid log configuration")
	}
	return nil
}
