package scanner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	datafeed "github.com/fazecat/zonewatch/Internal/database"
	"github.com/fazecat/zonewatch/Internal/strategy/detection"
	"github.com/fazecat/zonewatch/Internal/types"
	"github.com/fazecat/zonewatch/Internal/utils/config"
)

// ScanResult summarizes one full pass over the ticker list.
type ScanResult struct {
	TotalTickers   int
	ActiveZones    int
	CompletedZones int
	ZonesDeleted   int64
	Errors         []string
	Duration       time.Duration
}

// PerformScan runs the full pipeline for every configured ticker: fetch daily
// candles, detect accumulation zones, persist them, then apply retention and
// record a scan log. Tickers are processed concurrently; each detection owns
// its own candle slice and shares the read-only config.
func PerformScan(ctx context.Context, cfg *config.Config) (*ScanResult, error) {
	start := time.Now()
	log.Println("Starting scan...")

	tickers, err := LoadTickersFromFile(cfg.Scan.TickersFile)
	if err != nil {
		return nil, err
	}
	if len(tickers) == 0 {
		result := &ScanResult{Errors: []string{"no tickers loaded from file"}, Duration: time.Since(start)}
		if err := datafeed.SaveScanLog(ctx, 0, 0, 0, result.Errors[0], result.Duration); err != nil {
			log.Printf("Error saving scan log: %v", err)
		}
		return result, nil
	}

	detector := detection.NewZoneDetector(cfg.Detection)

	result := &ScanResult{TotalTickers: len(tickers)}
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.Scan.MaxConcurrentFetch)

	for _, t := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			active, completed, err := scanTicker(ctx, ticker, detector, cfg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", ticker, err))
				return
			}
			result.ActiveZones += active
			result.CompletedZones += completed
		}(t)
	}
	wg.Wait()

	deleted, err := datafeed.CleanupOldZones(ctx, cfg.Retention.CompletedZoneDays)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cleanup: %v", err))
	} else {
		result.ZonesDeleted = deleted
	}

	result.Duration = time.Since(start)
	if err := datafeed.SaveScanLog(ctx, result.TotalTickers, result.ActiveZones,
		result.CompletedZones, strings.Join(result.Errors, "\n"), result.Duration); err != nil {
		log.Printf("Error saving scan log: %v", err)
	}

	log.Printf("Scan completed in %.2fs: %d active, %d completed, %d errors",
		result.Duration.Seconds(), result.ActiveZones, result.CompletedZones, len(result.Errors))
	return result, nil
}

// scanTicker runs detection for one ticker and reconciles the database:
// zones are upserted, and a ticker whose scan yields no active zone gets its
// previously active zones marked broken.
func scanTicker(ctx context.Context, ticker string, detector *detection.ZoneDetector, cfg *config.Config) (active, completed int, err error) {
	candles, err := datafeed.GetDailyCandles(ticker, cfg.Scan.CandleLimit)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch failed: %w", err)
	}

	zones, err := detector.DetectZones(ticker, candles)
	if err != nil {
		return 0, 0, err
	}

	hasActive := false
	for _, z := range zones {
		if z.Status == types.ZoneActive {
			hasActive = true
			break
		}
	}
	if !hasActive {
		if _, err := datafeed.MarkZonesBroken(ctx, ticker); err != nil {
			log.Printf("%s: error marking zones broken: %v", ticker, err)
		}
	}

	for _, z := range zones {
		if _, err := datafeed.SaveZone(ctx, z); err != nil {
			log.Printf("%s: error saving zone: %v", ticker, err)
			continue
		}
		if z.Status == types.ZoneActive {
			active++
		} else {
			completed++
		}
	}

	return active, completed, nil
}
