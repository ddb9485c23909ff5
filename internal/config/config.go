package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
}

// APIConfig points the calculators at a tuition API.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// Demo serves the built-in catalog from an in-process fake API.
	Demo bool `mapstructure:"demo"`
}

// DatabaseConfig holds sqlite settings for saved presets.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds the diagnostic log sink.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Calculators    int    `mapstructure:"calculators"`
	OutOfState     bool   `mapstructure:"out_of_state"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

const envPrefix = "TUITIONCALC"

// Load reads configuration from file and env. Env var overrides use prefix TUITIONCALC_.
// A .env file in the working directory is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv(envPrefix + "_CONFIG")
	v.SetConfigFile(Path())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if cfgPath != "" || !missing {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	return c, nil
}

// Path is the config file Load reads and Save writes: $TUITIONCALC_CONFIG or
// ~/.config/tuitioncalc/config.toml.
func Path() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".config", "tuitioncalc", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.demo", cfg.API.Demo)
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.calculators", cfg.UI.Calculators)
	v.Set("ui.out_of_state", cfg.UI.OutOfState)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	home := homeDir()
	v.SetDefault("api.base_url", "http://127.0.0.1:8000")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.demo", false)
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "tuitioncalc", "presets.db"))
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "tuitioncalc", "tuitioncalc.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.calculators", 1)
	v.SetDefault("ui.out_of_state", false)
	v.SetDefault("ui.currency_symbol", "$")
}

func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.Timeout <= 0 {
		c.API.Timeout = 10 * time.Second
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.UI.Calculators < 1 {
		c.UI.Calculators = 1
	}
	if c.UI.CurrencySymbol == "" {
		c.UI.CurrencySymbol = "$"
	}
}

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}
