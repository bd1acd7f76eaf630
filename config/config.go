package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    Server    `yaml:"server"`
	Series    Series    `yaml:"series"`
	Log       Log       `yaml:"log"`
	WebSocket WebSocket `yaml:"websocket"`
}

type Server struct {
	Port            int           `yaml:"port"`
	Host            string        `yaml:"host"`
	CORSAllowOrigin string        `yaml:"cors_allow_origin"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
}

type Series struct {
	DefaultDays int    `yaml:"default_days"`
	MaxDays     int    `yaml:"max_days"`
	Locale      string `yaml:"locale"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WebSocket struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

func Default() *Config {
	return &Config{
		Server: Server{
			Port:            8080,
			Host:            "",
			CORSAllowOrigin: "*",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
		},
		Series: Series{
			DefaultDays: 7,
			MaxDays:     3650,
			Locale:      "en-US",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		WebSocket: WebSocket{
			RefreshInterval: time.Minute,
		},
	}
}

// LoadConfig reads filename over the defaults, then applies .env and environment
// overrides. A missing file is not an error.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	config := Default()

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", filename, err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	c.Server.Host = envStr("HOST", c.Server.Host)
	c.Server.Port = envInt("PORT", c.Server.Port)
	c.Server.CORSAllowOrigin = envStr("CORS_ALLOW_ORIGIN", c.Server.CORSAllowOrigin)
	c.Series.Locale = envStr("CHART_LOCALE", c.Series.Locale)
	c.Series.MaxDays = envInt("MAX_DAYS", c.Series.MaxDays)
	c.Log.Level = envStr("LOG_LEVEL", c.Log.Level)
	c.Log.Format = envStr("LOG_FORMAT", c.Log.Format)
}

func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Series.DefaultDays < 1 {
		errs = append(errs, "series.default_days must be at least 1")
	}
	if c.Series.MaxDays < c.Series.DefaultDays {
		errs = append(errs, "series.max_days must not be below series.default_days")
	}
	if c.WebSocket.RefreshInterval <= 0 {
		errs = append(errs, "websocket.refresh_interval must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
