package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gridrace/gridrace/internal/dailylimit"
	"github.com/gridrace/gridrace/internal/scoring"
)

type Config struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"api"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Sync struct {
		IntervalSeconds int `yaml:"interval_seconds"`
	} `yaml:"sync"`
	Quotas  dailylimit.Quotas `yaml:"quotas"`
	Scoring scoring.Weights   `yaml:"scoring"`
}

func defaultConfig() *Config {
	var cfg Config
	cfg.API.BaseURL = "https://api.gridrace.app"
	cfg.Store.Path = "gridrace.db"
	cfg.Sync.IntervalSeconds = 30
	cfg.Quotas = dailylimit.DefaultQuotas()
	cfg.Scoring = scoring.DefaultWeights()
	return &cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Environment overrides
	cfg.API.BaseURL = getEnv("API_BASE_URL", cfg.API.BaseURL)
	cfg.API.APIKey = getEnv("API_KEY", cfg.API.APIKey)
	cfg.Store.Path = getEnv("STORE_PATH", cfg.Store.Path)
	cfg.Sync.IntervalSeconds = getEnvAsInt("SYNC_INTERVAL_SEC", cfg.Sync.IntervalSeconds)

	return cfg, nil
}
