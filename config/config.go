package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Cognito struct {
		AppClientId     string `yaml:"appClientId"`
		AppClientSecret string `yaml:"appClientSecret"`
		UserPoolId      string `yaml:"userPoolId"`
		Region          string `yaml:"region"`
	} `yaml:"cognito"`

	JWT struct {
		Secret string `yaml:"secret"`
		Expiry int    `yaml:"expiry"` // token lifetime in minutes
	} `yaml:"jwt"`

	Limits struct {
		ThoughtsPerDay  int `yaml:"thoughtsPerDay"`
		PositionsPerDay int `yaml:"positionsPerDay"`
		MaxRounds       int `yaml:"maxRounds"`
		OpeningMaxWords int `yaml:"openingMaxWords"`
	} `yaml:"limits"`
}

// LoadConfig reads the configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Limits.ThoughtsPerDay == 0 {
		cfg.Limits.ThoughtsPerDay = 5
	}
	if cfg.Limits.PositionsPerDay == 0 {
		cfg.Limits.PositionsPerDay = 2
	}
	if cfg.Limits.MaxRounds == 0 {
		cfg.Limits.MaxRounds = 10
	}
	if cfg.Limits.OpeningMaxWords == 0 {
		cfg.Limits.OpeningMaxWords = 2500
	}
}
