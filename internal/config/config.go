package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultBaseURL = "https://teresinagps.rastrosystem.com.br/api_v2"

// Config holds the application configuration
type Config struct {
	API    APIConfig    `yaml:"api"`
	Report ReportConfig `yaml:"report,omitempty"`
	MQTT   MQTTConfig   `yaml:"mqtt,omitempty"`
}

// APIConfig holds credentials and connection settings for the tracking API
type APIConfig struct {
	BaseURL        string `yaml:"base_url,omitempty"` // defaults to the Rastrosystem endpoint
	Username       string `yaml:"username,omitempty"`
	Password       string `yaml:"password,omitempty"`
	Token          string `yaml:"token,omitempty"` // saved by 'consulta login'
	UserID         int64  `yaml:"user_id,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"` // request timeout (default: 30)
}

// ReportConfig holds default report parameters
type ReportConfig struct {
	FuelPrice  float64 `yaml:"fuel_price,omitempty"`  // currency per liter
	AvgEconomy float64 `yaml:"avg_economy,omitempty"` // km per liter
}

// MQTTConfig holds MQTT broker settings for publishing report rows
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default: fleet_report
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetBaseURL returns the API base URL, falling back to the public endpoint
func (c *Config) GetBaseURL() string {
	if c.API.BaseURL != "" {
		return c.API.BaseURL
	}
	return defaultBaseURL
}

// GetTimeout returns the request timeout with a default of 30 seconds
func (c *Config) GetTimeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// GetFuelPrice returns the configured fuel price, or 0 if not set
func (c *Config) GetFuelPrice() float64 {
	return c.Report.FuelPrice
}

// GetAvgEconomy returns the configured average economy, or 0 if not set
func (c *Config) GetAvgEconomy() float64 {
	return c.Report.AvgEconomy
}

// GetTopicPrefix returns the MQTT topic prefix with a default of fleet_report
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix != "" {
		return c.MQTT.TopicPrefix
	}
	return "fleet_report"
}
