// Package config loads runtime configuration for the orderflow services.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ModelConfig selects the chat model backend.
type ModelConfig struct {
	// BaseURL points at an OpenAI-compatible chat completions endpoint.
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Name is the model identifier sent with each request.
	Name string `yaml:"name" json:"name"`
	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never appears in the config file.
	APIKeyEnv   string  `yaml:"api_key_env" json:"api_key_env"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
}

// DataConfig points at the catalog source files.
type DataConfig struct {
	InventoryPath string `yaml:"inventory" json:"inventory"`
	CustomersPath string `yaml:"customers" json:"customers"`
}

// ShippingConfig holds the per-location rate table.
type ShippingConfig struct {
	Rates           map[string]float64 `yaml:"rates" json:"rates"`
	DefaultLocation string             `yaml:"default_location" json:"default_location"`
}

// CancelConfig bounds the cancellation tool loop.
type CancelConfig struct {
	MaxRounds int `yaml:"max_rounds" json:"max_rounds"`
}

// RedisConfig enables the Redis order store when Addr is set.
type RedisConfig struct {
	Addr   string `yaml:"addr" json:"addr"`
	Prefix string `yaml:"prefix" json:"prefix"`
}

// ServerConfig holds the HTTP listen address.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Config is the root configuration document.
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Model    ModelConfig    `yaml:"model" json:"model"`
	Data     DataConfig     `yaml:"data" json:"data"`
	Shipping ShippingConfig `yaml:"shipping" json:"shipping"`
	Cancel   CancelConfig   `yaml:"cancel" json:"cancel"`
	Redis    RedisConfig    `yaml:"redis" json:"redis"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Model: ModelConfig{
			BaseURL:     "https://api.openai.com/v1",
			Name:        "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			Temperature: 0,
		},
		Data: DataConfig{
			InventoryPath: "data/inventory.csv",
			CustomersPath: "data/customers.csv",
		},
		Shipping: ShippingConfig{
			Rates: map[string]float64{
				"local":         5,
				"domestic":      10,
				"international": 20,
			},
			DefaultLocation: "domestic",
		},
		Cancel: CancelConfig{MaxRounds: 8},
	}
}

// Load reads a configuration file (YAML or JSON, by extension) and merges
// it over the defaults. An empty path returns the defaults unchanged; a
// named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Cancel.MaxRounds <= 0 {
		return fmt.Errorf("cancel.max_rounds must be positive, got %d", c.Cancel.MaxRounds)
	}
	if len(c.Shipping.Rates) == 0 {
		return fmt.Errorf("shipping.rates must not be empty")
	}
	if c.Shipping.DefaultLocation == "" {
		return fmt.Errorf("shipping.default_location is required")
	}
	if _, ok := c.Shipping.Rates[c.Shipping.DefaultLocation]; !ok {
		return fmt.Errorf("shipping.default_location %q has no rate", c.Shipping.DefaultLocation)
	}
	return nil
}
