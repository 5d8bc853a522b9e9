package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
		Debug   bool   `yaml:"debug"`
	} `yaml:"app"`

	API struct {
		BaseURL           string  `yaml:"base_url"`
		UserAgent         string  `yaml:"user_agent"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
		// KeyringAccount names the OS-keychain entry holding an optional
		// API token. Empty means anonymous access.
		KeyringAccount string `yaml:"keyring_account"`
	} `yaml:"api"`

	Storage struct {
		Backend       string `yaml:"backend"` // json or sqlite
		VacanciesFile string `yaml:"vacancies_file"`
		AreasFile     string `yaml:"areas_file"`
		SQLiteFile    string `yaml:"sqlite_file"`
	} `yaml:"storage"`

	Search struct {
		DefaultPageSize int `yaml:"default_page_size"`
	} `yaml:"search"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.DataDir == "" {
		c.App.DataDir = "."
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://api.hh.ru"
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = "vacancyhunt/1.0 (+local)"
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = 20
	}
	if c.API.RequestsPerSecond <= 0 {
		c.API.RequestsPerSecond = 4
	}
	if c.API.Burst <= 0 {
		c.API.Burst = 2
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "json"
	}
	if c.Storage.VacanciesFile == "" {
		c.Storage.VacanciesFile = "vacancies.json"
	}
	if c.Storage.AreasFile == "" {
		c.Storage.AreasFile = "areas.json"
	}
	if c.Storage.SQLiteFile == "" {
		c.Storage.SQLiteFile = "vacancies.db"
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 20
	}
}
