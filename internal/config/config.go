package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Providers ProvidersConfig `yaml:"providers"`
	Paging    PagingConfig    `yaml:"paging"`
	Filter    FilterConfig    `yaml:"filter"`
	History   HistoryConfig   `yaml:"history"`
}

type ServerConfig struct {
	HTTPPort    int `yaml:"http_port"`
	MetricsPort int `yaml:"metrics_port"` // 0 disables the metrics server
}

type ProvidersConfig struct {
	Curated  ProviderConfig `yaml:"curated"`
	DramaBox ProviderConfig `yaml:"dramabox"`
	Botraiki ProviderConfig `yaml:"botraiki"`
}

type ProviderConfig struct {
	BaseURL        string `yaml:"base_url"`
	ListTimeout    int    `yaml:"list_timeout"`    // seconds
	DetailTimeout  int    `yaml:"detail_timeout"`  // seconds
	EpisodeTimeout int    `yaml:"episode_timeout"` // seconds
	ProbeTimeout   int    `yaml:"probe_timeout"`   // seconds
}

type PagingConfig struct {
	UISize  int `yaml:"ui_size"`  // items per frontend page
	APISize int `yaml:"api_size"` // items per upstream page
}

type FilterConfig struct {
	// Denylist holds title substrings removed from curated primary results.
	// Content policy data, kept out of code.
	Denylist []string `yaml:"denylist"`
}

type HistoryConfig struct {
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:    5000,
			MetricsPort: 9190,
		},
		Providers: ProvidersConfig{
			Curated: ProviderConfig{
				BaseURL:       "https://foodcash.com.br/sistema/apiv4/api.php",
				ListTimeout:   10,
				DetailTimeout: 12,
			},
			DramaBox: ProviderConfig{
				BaseURL:       "https://db.hafizhibnusyam.my.id/api",
				ListTimeout:   15,
				DetailTimeout: 15,
			},
			Botraiki: ProviderConfig{
				BaseURL:        "https://dramabox.botraiki.biz/api",
				ListTimeout:    15,
				DetailTimeout:  10,
				EpisodeTimeout: 90,
				ProbeTimeout:   8,
			},
		},
		Paging: PagingConfig{
			UISize:  24,
			APISize: 20,
		},
		Filter: FilterConfig{
			Denylist: []string{
				"nigerian",
				"ghana",
				"nollywood",
				"yoruba",
				"latest full movies",
				"nige",
				"cinema-ready",
			},
		},
	}
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
