package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Flights    FlightsConfig    `toml:"flights"`
	OpenSky    OpenSkyConfig    `toml:"opensky"`
	Aggregator AggregatorConfig `toml:"aggregator"`
	Copilot    CopilotConfig    `toml:"copilot"`
	Logging    LoggingConfig    `toml:"logging"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host               string   `toml:"host"`
	Port               int      `toml:"port"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	ReadTimeoutSecs    int      `toml:"read_timeout_seconds"`
	WriteTimeoutSecs   int      `toml:"write_timeout_seconds"`
	ShutdownTimeoutSec int      `toml:"shutdown_timeout_seconds"`
}

// FlightsConfig represents the flight feed configuration
type FlightsConfig struct {
	// Source selects the upstream provider: "aggregator" or "opensky"
	Source                string  `toml:"source"`
	LatMin                float64 `toml:"lat_min"`
	LatMax                float64 `toml:"lat_max"`
	LonMin                float64 `toml:"lon_min"`
	LonMax                float64 `toml:"lon_max"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
	MaxFlights            int     `toml:"max_flights"`
	SimulatedFlights      int     `toml:"simulated_flights"`
}

// OpenSkyConfig represents the token-based REST provider configuration
type OpenSkyConfig struct {
	APIURL       string `toml:"api_url"`
	TokenURL     string `toml:"token_url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// AggregatorConfig represents the aggregator provider configuration
type AggregatorConfig struct {
	APIURL string `toml:"api_url"`
}

// CopilotConfig represents the copilot Q&A configuration
type CopilotConfig struct {
	// Provider selects the LLM backend: "gemini" or "openai"
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8000,
			CORSAllowedOrigins: []string{"*"},
			ReadTimeoutSecs:    15,
			WriteTimeoutSecs:   30,
			ShutdownTimeoutSec: 10,
		},
		Flights: FlightsConfig{
			Source: "aggregator",
			// Bounding box around the Indian subcontinent
			LatMin:                6,
			LatMax:                37,
			LonMin:                68,
			LonMax:                97,
			RequestTimeoutSeconds: 5,
			MaxFlights:            50,
			SimulatedFlights:      25,
		},
		OpenSky: OpenSkyConfig{
			APIURL:   "https://opensky-network.org/api",
			TokenURL: "https://auth.opensky-network.org/auth/realms/opensky-network/protocol/openid-connect/token",
		},
		Aggregator: AggregatorConfig{
			APIURL: "https://data-cloud.flightradar24.com/zones/fcgi/feed.js",
		},
		Copilot: CopilotConfig{
			Provider:       "gemini",
			Model:          "gemini-1.5-flash",
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads the configuration from the given path, falling back to defaults
// when the file does not exist. Secrets are always taken from the environment
// when set, so they never need to live in the config file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides pulls credentials from the environment
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OPENSKY_CLIENT_ID"); v != "" {
		c.OpenSky.ClientID = v
	}
	if v := os.Getenv("OPENSKY_CLIENT_SECRET"); v != "" {
		c.OpenSky.ClientSecret = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.Copilot.Provider == "gemini" {
		c.Copilot.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Copilot.Provider == "openai" {
		c.Copilot.APIKey = v
	}
}

func (c *Config) validate() error {
	switch c.Flights.Source {
	case "aggregator", "opensky":
	default:
		return fmt.Errorf("unknown flight source: %s", c.Flights.Source)
	}

	switch c.Copilot.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown copilot provider: %s", c.Copilot.Provider)
	}

	if c.Flights.LatMin >= c.Flights.LatMax || c.Flights.LonMin >= c.Flights.LonMax {
		return fmt.Errorf("invalid bounding box: lat %f..%f lon %f..%f",
			c.Flights.LatMin, c.Flights.LatMax, c.Flights.LonMin, c.Flights.LonMax)
	}

	if c.Flights.MaxFlights <= 0 {
		return fmt.Errorf("max_flights must be positive, got %d", c.Flights.MaxFlights)
	}
	return nil
}
