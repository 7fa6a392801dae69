package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// TransportConfig selects how the MCP server is exposed: "http" serves the
// REST API and MCP over HTTP, "stdio" serves MCP on stdin/stdout only.
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// CalendarConfig controls what counts as a working day.
type CalendarConfig struct {
	Timezone     string   `yaml:"timezone"`
	Holidays     []string `yaml:"holidays"`
	HolidaysFile string   `yaml:"holidays_file"`
}

// RateLimitConfig throttles write requests. A zero rate disables it.
type RateLimitConfig struct {
	WritesPerSecond float64 `yaml:"writes_per_second"`
	Burst           int     `yaml:"burst"`
}

// Location resolves the configured timezone.
func (c CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        3001,
			CORSOrigins: []string{"*"},
		},
		DB: DBConfig{
			Path: "prodsched.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Calendar: CalendarConfig{
			Timezone: "Asia/Seoul",
		},
		RateLimit: RateLimitConfig{
			WritesPerSecond: 10,
			Burst:           20,
		},
	}

	if path := os.Getenv("PRODSCHED_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("PRODSCHED_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PRODSCHED_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PRODSCHED_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if origins := os.Getenv("PRODSCHED_CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = splitList(origins)
	}
	if dbPath := os.Getenv("PRODSCHED_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("PRODSCHED_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("PRODSCHED_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("PRODSCHED_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if tz := os.Getenv("PRODSCHED_TIMEZONE"); tz != "" {
		cfg.Calendar.Timezone = tz
	}
	if holidays := os.Getenv("PRODSCHED_HOLIDAYS"); holidays != "" {
		cfg.Calendar.Holidays = splitList(holidays)
	}
	if file := os.Getenv("PRODSCHED_HOLIDAYS_FILE"); file != "" {
		cfg.Calendar.HolidaysFile = file
	}
	if rateStr := os.Getenv("PRODSCHED_WRITE_RATE"); rateStr != "" {
		rate, err := strconv.ParseFloat(rateStr, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PRODSCHED_WRITE_RATE: %w", err)
		}
		cfg.RateLimit.WritesPerSecond = rate
	}
	if burstStr := os.Getenv("PRODSCHED_WRITE_BURST"); burstStr != "" {
		burst, err := strconv.Atoi(burstStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PRODSCHED_WRITE_BURST: %w", err)
		}
		cfg.RateLimit.Burst = burst
	}

	switch cfg.Transport.Mode {
	case "http", "stdio":
	default:
		return Config{}, fmt.Errorf("invalid transport mode %q (want http or stdio)", cfg.Transport.Mode)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
