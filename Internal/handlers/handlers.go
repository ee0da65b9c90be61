package handlers

import (
	"context"
	"fmt"

	datafeed "github.com/fazecat/zonewatch/Internal/database"
	"github.com/fazecat/zonewatch/Internal/utils/config"
	"github.com/fazecat/zonewatch/Internal/utils/formatting"
	"github.com/fazecat/zonewatch/Internal/utils/scanner"
)

func HandleRunScan(ctx context.Context, cfg *config.Config) {
	fmt.Println(formatting.Separator(60))
	result, err := scanner.PerformScan(ctx, cfg)
	if err != nil {
		fmt.Printf("Scan failed: %v\n", err)
		return
	}

	fmt.Printf("Scan finished in %.2fs\n", result.Duration.Seconds())
	fmt.Printf("  Tickers scanned:  %d\n", result.TotalTickers)
	fmt.Printf("  Active zones:     %d\n", result.ActiveZones)
	fmt.Printf("  Completed zones:  %d\n", result.CompletedZones)
	fmt.Printf("  Old zones purged: %d\n", result.ZonesDeleted)
	if len(result.Errors) > 0 {
		fmt.Printf("  Errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}
	fmt.Println(formatting.Separator(60))
}

func HandleShowActiveZones(ctx context.Context) {
	zones, err := datafeed.GetActiveZones(ctx)
	if err != nil {
		fmt.Printf("Error fetching active zones: %v\n", err)
		return
	}
	if len(zones) == 0 {
		fmt.Println("No active zones.")
		return
	}

	fmt.Println(formatting.Separator(78))
	fmt.Printf("%-8s %-12s %-12s %7s %7s %7s %8s %8s\n",
		"TICKER", "START", "END", "CANDLES", "SCORE", "Δ", "RANGE%", "AVG RSI")
	fmt.Println(formatting.Separator(78))
	for _, z := range zones {
		fmt.Printf("%-8s %-12s %-12s %7d %7.1f %+7.1f %8.2f %8.1f\n",
			z.Ticker, formatting.FormatDate(z.StartDate), formatting.FormatDate(z.EndDate),
			z.CandleCount, z.Score, z.ScoreChange, z.TotalDiffPercent, z.AvgRSI)
	}
	fmt.Println(formatting.Separator(78))
}

func HandleShowCompletedZones(ctx context.Context, cfg *config.Config) {
	zones, err := datafeed.GetCompletedZones(ctx, cfg.Retention.CompletedZoneDays)
	if err != nil {
		fmt.Printf("Error fetching completed zones: %v\n", err)
		return
	}
	if len(zones) == 0 {
		fmt.Println("No completed zones in the retention window.")
		return
	}

	fmt.Println(formatting.Separator(70))
	fmt.Printf("%-8s %-12s %-12s %7s %7s %-10s\n",
		"TICKER", "START", "END", "CANDLES", "SCORE", "STATUS")
	fmt.Println(formatting.Separator(70))
	for _, z := range zones {
		fmt.Printf("%-8s %-12s %-12s %7d %7.1f %-10s\n",
			z.Ticker, formatting.FormatDate(z.StartDate), formatting.FormatDate(z.EndDate),
			z.CandleCount, z.Score, z.Status)
	}
	fmt.Println(formatting.Separator(70))
}

func HandleShowScanStatus(ctx context.Context) {
	sl, err := datafeed.GetLatestScanLog(ctx)
	if err != nil {
		fmt.Printf("Error fetching scan status: %v\n", err)
		return
	}
	if sl == nil {
		fmt.Println("No scans recorded yet.")
		return
	}

	fmt.Printf("Last scan:        %s\n", sl.ScanDate.Format("2006-01-02 15:04:05"))
	fmt.Printf("Tickers scanned:  %d\n", sl.TotalTickers)
	fmt.Printf("Active zones:     %d\n", sl.ActiveZonesFound)
	fmt.Printf("Completed zones:  %d\n", sl.CompletedZones)
	fmt.Printf("Duration:         %.2fs\n", sl.DurationSeconds)
	if sl.Errors != "" {
		fmt.Printf("Errors:\n%s\n", sl.Errors)
	}

	if clock, err := datafeed.MarketClock(); err == nil {
		if clock.IsOpen {
			fmt.Printf("Market:           open, closes %s\n", clock.NextClose.Format("15:04"))
		} else {
			fmt.Printf("Market:           closed, opens %s\n", clock.NextOpen.Format("2006-01-02 15:04"))
		}
	}
}
