// Package config loads application configuration from the environment, with
// an optional .env file and an optional YAML override file.
package config

import (
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Supabase SupabaseConfig `yaml:"supabase"`
	GenAI    GenAIConfig    `yaml:"genai"`
	Storage  StorageConfig  `yaml:"storage"`
}

// SupabaseConfig configures the remote backend collaborator. Both fields
// empty means the backend panel is simply unavailable; the core never needs
// it.
type SupabaseConfig struct {
	URL        string `env:"SUPABASE_URL" yaml:"url"`
	ServiceKey string `env:"SUPABASE_SERVICE_KEY" yaml:"service_key"`
}

// GenAIConfig configures the generative-content API client.
type GenAIConfig struct {
	// BaseURL overrides the provider endpoint; empty uses the default.
	BaseURL string `env:"GENAI_BASE_URL" yaml:"base_url"`
	// RequestsPerMinute enables the bridge's client-side limiter; zero
	// disables it.
	RequestsPerMinute int `env:"GENAI_REQUESTS_PER_MINUTE,default=0" yaml:"requests_per_minute"`
}

// StorageConfig configures the integrity store.
type StorageConfig struct {
	// Path is the directory for the file backend.
	Path string `env:"STORAGE_PATH,default=./local_store" yaml:"path"`
	// Namespace prefixes storage keys; empty uses the store default.
	Namespace string `env:"STORAGE_NAMESPACE" yaml:"namespace"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode environment: %w", err)
	}
	return &cfg, nil
}

// LoadWithEnvFile loads a .env file into the environment first, then reads
// configuration. A missing file is not an error; a present but unreadable
// one is.
func LoadWithEnvFile(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return nil, fmt.Errorf("config: load env file %s: %w", path, err)
			}
		}
	}
	return Load()
}

// ApplyFile overlays values from a YAML file onto the configuration.
// Only values present in the file replace the current ones.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read config file: %w", err)
	}

	var overlay struct {
		Supabase struct {
			URL        *string `yaml:"url"`
			ServiceKey *string `yaml:"service_key"`
		} `yaml:"supabase"`
		GenAI struct {
			BaseURL           *string `yaml:"base_url"`
			RequestsPerMinute *int    `yaml:"requests_per_minute"`
		} `yaml:"genai"`
		Storage struct {
			Path      *string `yaml:"path"`
			Namespace *string `yaml:"namespace"`
		} `yaml:"storage"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("config: parse config file: %w", err)
	}

	if overlay.Supabase.URL != nil {
		c.Supabase.URL = *overlay.Supabase.URL
	}
	if overlay.Supabase.ServiceKey != nil {
		c.Supabase.ServiceKey = *overlay.Supabase.ServiceKey
	}
	if overlay.GenAI.BaseURL != nil {
		c.GenAI.BaseURL = *overlay.GenAI.BaseURL
	}
	if overlay.GenAI.RequestsPerMinute != nil {
		c.GenAI.RequestsPerMinute = *overlay.GenAI.RequestsPerMinute
	}
	if overlay.Storage.Path != nil {
		c.Storage.Path = *overlay.Storage.Path
	}
	if overlay.Storage.Namespace != nil {
		c.Storage.Namespace = *overlay.Storage.Namespace
	}
	return nil
}
