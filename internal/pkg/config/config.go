package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fireflight/fireflight/internal/core/domain"
)

const (
	productionAPIBase  = "https://fireflight-lambda.herokuapp.com/api/"
	developmentAPIBase = "http://localhost:5000/api/"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	API       APIConfig       `mapstructure:"api"`
	Fires     FiresConfig     `mapstructure:"fires"`
	Mapbox    MapboxConfig    `mapstructure:"mapbox"`
	Session   SessionConfig   `mapstructure:"session"`
	Map       MapConfig       `mapstructure:"map"`
	Poller    PollerConfig    `mapstructure:"poller"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// APIConfig locates the authenticated backend.
type APIConfig struct {
	Env     string `mapstructure:"env"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

// Base returns the backend base URL with a trailing slash. An explicit
// base_url wins over the env-selected default.
func (a APIConfig) Base() string {
	base := a.BaseURL
	if base == "" {
		if a.Env == "production" {
			return productionAPIBase
		}
		return developmentAPIBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

type FiresConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	CacheTTL int    `mapstructure:"cache_ttl"`
	Timeout  int    `mapstructure:"timeout"`
}

type MapboxConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
	Timeout int    `mapstructure:"timeout"`
}

// SessionConfig selects where the session token is persisted.
type SessionConfig struct {
	Store    string `mapstructure:"store"`
	FilePath string `mapstructure:"file_path"`
}

type MapConfig struct {
	Unit              string `mapstructure:"unit"`
	NarrowPrivateMap  bool   `mapstructure:"narrow_private_map"`
	RegistrationDelay int    `mapstructure:"registration_delay"`
}

// DistanceUnit returns the parsed unit. Validate guarantees it parses.
func (m MapConfig) DistanceUnit() domain.DistanceUnit {
	u, err := domain.ParseDistanceUnit(m.Unit)
	if err != nil {
		return domain.Miles
	}
	return u
}

func (m MapConfig) RegistrationDelayDuration() time.Duration {
	return time.Duration(m.RegistrationDelay) * time.Second
}

type PollerConfig struct {
	Interval int `mapstructure:"interval"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("api.env", "development")
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", 15)
	v.SetDefault("fires.base_url", "https://fire-data-api.herokuapp.com")
	v.SetDefault("fires.cache_ttl", 300)
	v.SetDefault("fires.timeout", 30)
	v.SetDefault("mapbox.base_url", "https://api.mapbox.com")
	v.SetDefault("mapbox.token", "")
	v.SetDefault("mapbox.timeout", 10)
	v.SetDefault("session.store", "file")
	v.SetDefault("session.file_path", "fireflight-session.json")
	v.SetDefault("map.unit", "mi")
	v.SetDefault("map.narrow_private_map", false)
	v.SetDefault("map.registration_delay", 5)
	v.SetDefault("poller.interval", 300)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: FIREFLIGHT_MAPBOX_TOKEN → mapbox.token
	v.SetEnvPrefix("FIREFLIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, "api.timeout must be positive")
	}
	if c.Fires.BaseURL == "" {
		errs = append(errs, "fires.base_url is required")
	}
	if c.Fires.CacheTTL < 0 {
		errs = append(errs, "fires.cache_ttl must not be negative")
	}
	if c.Mapbox.BaseURL == "" {
		errs = append(errs, "mapbox.base_url is required")
	}
	if c.Mapbox.Token == "" {
		errs = append(errs, "mapbox.token is required")
	}
	switch c.Session.Store {
	case "file":
		if c.Session.FilePath == "" {
			errs = append(errs, "session.file_path is required for the file store")
		}
	case "valkey":
		if c.Valkey.Addr == "" {
			errs = append(errs, "valkey.addr is required for the valkey store")
		}
	default:
		errs = append(errs, fmt.Sprintf("session.store must be file or valkey, got %q", c.Session.Store))
	}
	if _, err := domain.ParseDistanceUnit(c.Map.Unit); err != nil {
		errs = append(errs, "map.unit: "+err.Error())
	}
	if c.Map.RegistrationDelay < 0 {
		errs = append(errs, "map.registration_delay must not be negative")
	}
	if c.Poller.Interval <= 0 {
		errs = append(errs, "poller.interval must be positive")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
