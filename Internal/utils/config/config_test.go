package config

import "testing"

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Scan.Timeframe == "" {
		t.Error("expected a timeframe")
	}
	if cfg.Scan.CandleLimit <= 0 {
		t.Errorf("expected a positive candle limit, got %d", cfg.Scan.CandleLimit)
	}
	if len(cfg.Scan.ScanTimes) == 0 {
		t.Error("expected scan times")
	}
	if cfg.Retention.CompletedZoneDays <= 0 {
		t.Errorf("expected a positive retention window, got %d", cfg.Retention.CompletedZoneDays)
	}
	if err := cfg.Detection.Validate(); err != nil {
		t.Errorf("loaded detection config must validate: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Scan.TickersFile != "tickers.txt" {
		t.Errorf("expected default tickers file, got %q", cfg.Scan.TickersFile)
	}
	if cfg.Scan.Timeframe != "1Day" {
		t.Errorf("expected default timeframe 1Day, got %q", cfg.Scan.Timeframe)
	}
	if cfg.Scan.CandleLimit != 60 {
		t.Errorf("expected default candle limit 60, got %d", cfg.Scan.CandleLimit)
	}
	if cfg.Scan.MaxConcurrentFetch != 10 {
		t.Errorf("expected default fetch concurrency 10, got %d", cfg.Scan.MaxConcurrentFetch)
	}
	if cfg.Retention.CompletedZoneDays != 21 {
		t.Errorf("expected default retention 21 days, got %d", cfg.Retention.CompletedZoneDays)
	}
}
