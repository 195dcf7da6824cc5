package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider names accepted by data_source.provider.
const (
	ProviderStooq   = "stooq"
	ProviderYahoo   = "yahoo"
	ProviderPolygon = "polygon"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider          string  `yaml:"provider" validate:"oneof=stooq yahoo polygon"`
		PolygonAPIKey     string  `yaml:"polygon_api_key" validate:"required_if=Provider polygon"`
		RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gt=0"`
		TimeoutSeconds    int     `yaml:"timeout_seconds" validate:"gt=0"`
	} `yaml:"data_source"`
	Output struct {
		Dir         string `yaml:"dir"`
		OpenBrowser bool   `yaml:"open_browser"`
		Width       int    `yaml:"width" validate:"gt=0"`
		Height      int    `yaml:"height" validate:"gt=0"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		WatchCron string `yaml:"watch_cron"`
	} `yaml:"schedule"`
	Log struct {
		Level string `yaml:"level" validate:"oneof=debug info warn error"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; the defaults describe a plain one-shot run.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Output.OpenBrowser = true

	// .env is optional
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DAILYCHART_SOURCE"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.DataSource.PolygonAPIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("DAILYCHART_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("DAILYCHART_OPEN_BROWSER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Output.OpenBrowser = b
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DAILYCHART_WATCH"); v != "" {
		cfg.Schedule.WatchCron = v
	}
	if v := os.Getenv("DAILYCHART_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderStooq
	}
	if cfg.DataSource.RequestsPerSecond == 0 {
		cfg.DataSource.RequestsPerSecond = 2
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 30
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}
	if cfg.Output.Width == 0 {
		cfg.Output.Width = 1000
	}
	if cfg.Output.Height == 0 {
		cfg.Output.Height = 300
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks the loaded values against their constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		var errs error
		for _, fe := range verrs {
			errs = errors.Join(errs, fmt.Errorf("%s: failed %q constraint (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return errs
	}
	return nil
}
