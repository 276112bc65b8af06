package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	BackendSelenium   = "selenium"
	BackendPlaywright = "playwright"
	BackendRod        = "rod"
	BackendSnapshot   = "snapshot"
)

// Config holds the session and output settings
type Config struct {
	Backend       string `mapstructure:"backend"`
	DriverPath    string `mapstructure:"driver_path"`
	ChromeBinary  string `mapstructure:"chrome_binary"`
	DriverPort    int    `mapstructure:"driver_port"`
	RemoteURL     string `mapstructure:"remote_url"`
	Headless      bool   `mapstructure:"headless"`
	Stealth       bool   `mapstructure:"stealth"`
	ScreenshotDir string `mapstructure:"screenshot_dir"`
	SnapshotFile  string `mapstructure:"snapshot_file"`
	LogLevel      string `mapstructure:"log_level"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendSelenium)
	v.SetDefault("driver_path", "")
	v.SetDefault("chrome_binary", "")
	v.SetDefault("driver_port", 9515)
	v.SetDefault("remote_url", "")
	v.SetDefault("headless", true)
	v.SetDefault("stealth", false)
	v.SetDefault("screenshot_dir", "screenshots")
	v.SetDefault("snapshot_file", "")
	v.SetDefault("log_level", "info")
}

// Load - reads an optional .env file, then WISEPAGE_* environment variables and
// whatever flags were bound to v. BROWSER_DRIVER_PATH and CHROME_BINARY_PATH are
// honored as fallbacks.
func Load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix("WISEPAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.DriverPath == "" {
		cfg.DriverPath = os.Getenv("BROWSER_DRIVER_PATH")
	}
	if cfg.ChromeBinary == "" {
		cfg.ChromeBinary = os.Getenv("CHROME_BINARY_PATH")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSelenium, BackendPlaywright, BackendRod:
	case BackendSnapshot:
		if c.SnapshotFile == "" {
			return fmt.Errorf("backend %q needs snapshot_file", c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.DriverPort <= 0 || c.DriverPort > 65535 {
		return fmt.Errorf("invalid driver_port %d", c.DriverPort)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// NewLogger - creates the logger every component shares
func NewLogger(c *Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
