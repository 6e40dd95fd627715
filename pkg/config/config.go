package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort                 = 3000
	DefaultLandRegistryEndpoint = "https://landregistry.data.gov.uk/landregistry/query"
	DefaultEPCEndpoint          = "https://epc.opendatacommunities.org/api/v1/domestic/search"
	DefaultCity                 = "London"
)

type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT"`
	Environment     string        `yaml:"environment" env:"ENV"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// LandRegistryConfig points at the price-paid SPARQL endpoint.
type LandRegistryConfig struct {
	Endpoint      string        `yaml:"endpoint" env:"LAND_REGISTRY_ENDPOINT"`
	ExactTimeout  time.Duration `yaml:"exact_timeout" env:"LAND_REGISTRY_EXACT_TIMEOUT"`
	SectorTimeout time.Duration `yaml:"sector_timeout" env:"LAND_REGISTRY_SECTOR_TIMEOUT"`
}

// EPCConfig holds the certificate register endpoint and credentials. Empty
// credentials disable certificate enrichment.
type EPCConfig struct {
	Endpoint string        `yaml:"endpoint" env:"EPC_ENDPOINT"`
	User     string        `yaml:"user" env:"EPC_USER"`
	Key      string        `yaml:"key" env:"EPC_KEY"`
	Timeout  time.Duration `yaml:"timeout" env:"EPC_TIMEOUT"`
}

type SearchConfig struct {
	DefaultCity string `yaml:"default_city" env:"SEARCH_DEFAULT_CITY"`
}

type RateLimitConfig struct {
	RequestsPerMinute float64 `yaml:"requests_per_minute" env:"RATE_LIMIT_PER_MINUTE"`
	Burst             int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type TracingConfig struct {
	Enabled     bool   `yaml:"enabled" env:"OTEL_ENABLED"`
	Endpoint    string `yaml:"endpoint" env:"OTEL_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME"`
}

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Logging      LoggingConfig      `yaml:"logging"`
	LandRegistry LandRegistryConfig `yaml:"land_registry"`
	EPC          EPCConfig          `yaml:"epc"`
	Search       SearchConfig       `yaml:"search"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	CORS         CORSConfig         `yaml:"cors"`
	Tracing      TracingConfig      `yaml:"tracing"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// LoadConfig reads the YAML file at path, applies environment overrides and
// defaults, then validates. A missing file is not an error: the service runs
// from environment variables alone.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %v", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %v", err)
			}
		}
	}

	// Override with environment variables if set
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.LandRegistry.Endpoint == "" {
		c.LandRegistry.Endpoint = DefaultLandRegistryEndpoint
	}
	if c.LandRegistry.ExactTimeout == 0 {
		c.LandRegistry.ExactTimeout = 6 * time.Second
	}
	if c.LandRegistry.SectorTimeout == 0 {
		c.LandRegistry.SectorTimeout = 8 * time.Second
	}
	if c.EPC.Endpoint == "" {
		c.EPC.Endpoint = DefaultEPCEndpoint
	}
	if c.EPC.Timeout == 0 {
		c.EPC.Timeout = 3 * time.Second
	}
	if c.Search.DefaultCity == "" {
		c.Search.DefaultCity = DefaultCity
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 100
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "getmyhousevalue-backend"
	}
}

// Validate checks ranges and endpoint shapes after defaults are applied.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.LandRegistry.ExactTimeout < 0 || c.LandRegistry.SectorTimeout < 0 || c.EPC.Timeout < 0 {
		return fmt.Errorf("upstream timeouts must be positive")
	}
	if err := validateEndpoint("LAND_REGISTRY_ENDPOINT", c.LandRegistry.Endpoint); err != nil {
		return err
	}
	if err := validateEndpoint("EPC_ENDPOINT", c.EPC.Endpoint); err != nil {
		return err
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must be non-negative")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("OTEL_ENDPOINT is required when tracing is enabled")
	}
	return nil
}

func validateEndpoint(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s value: %v", name, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL: %s", name, raw)
	}
	return nil
}
