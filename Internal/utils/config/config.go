package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fazecat/zonewatch/Internal/strategy/detection"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Scan struct {
		TickersFile        string   `yaml:"tickers_file"`
		Timeframe          string   `yaml:"timeframe"`
		CandleLimit        int      `yaml:"candle_limit"`
		ScanTimes          []string `yaml:"scan_times"` // "HH:MM" wall-clock times
		MaxConcurrentFetch int      `yaml:"max_concurrent_fetches"`
	} `yaml:"scan"`

	Retention struct {
		CompletedZoneDays int `yaml:"completed_zone_days"`
	} `yaml:"retention"`

	Detection detection.Config `yaml:"detection"`
}

func LoadConfig() (*Config, error) {
	// Resolve path relative to this file first
	_, filePath, _, ok := runtime.Caller(0)
	var basePath string
	if ok {
		basePath = filepath.Dir(filePath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	// Try multiple paths to find config.yaml
	possiblePaths := []string{}
	if basePath != "" {
		possiblePaths = append(possiblePaths, filepath.Join(basePath, "config.yaml"))
	}
	possiblePaths = append(possiblePaths,
		filepath.Join(cwd, "Internal", "utils", "config", "config.yaml"),
		"Internal/utils/config/config.yaml",
		"config.yaml",
	)

	var data []byte
	for _, path := range possiblePaths {
		data, err = os.ReadFile(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	cfg := &Config{Detection: detection.DefaultConfig()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	// Bad scoring bounds would divide by zero per finalized zone; refuse the
	// configuration up front instead.
	if err := cfg.Detection.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detection config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Scan.TickersFile == "" {
		cfg.Scan.TickersFile = "tickers.txt"
	}
	if cfg.Scan.Timeframe == "" {
		cfg.Scan.Timeframe = "1Day"
	}
	if cfg.Scan.CandleLimit == 0 {
		cfg.Scan.CandleLimit = 60
	}
	if len(cfg.Scan.ScanTimes) == 0 {
		cfg.Scan.ScanTimes = []string{"18:30"}
	}
	if cfg.Scan.MaxConcurrentFetch == 0 {
		cfg.Scan.MaxConcurrentFetch = 10
	}
	if cfg.Retention.CompletedZoneDays == 0 {
		cfg.Retention.CompletedZoneDays = 21
	}
}

func SaveConfig(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile("Internal/utils/config/config.yaml", data, 0644)
}
