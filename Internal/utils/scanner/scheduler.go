package scanner

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/fazecat/zonewatch/Internal/utils/config"
)

// StartScheduler runs scans at the configured wall-clock times until the
// context is cancelled. Meant to be launched as a background goroutine.
func StartScheduler(ctx context.Context, cfg *config.Config) {
	times, err := ParseScanTimes(cfg.Scan.ScanTimes)
	if err != nil {
		log.Printf("Scheduler disabled: %v", err)
		return
	}

	log.Printf("Scheduler started - daily scans at %v", cfg.Scan.ScanTimes)

	for {
		next := NextScanTime(time.Now(), times)
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-time.After(time.Until(next)):
			log.Printf("Scheduled scan triggered (%s)", next.Format("15:04"))
			if _, err := PerformScan(ctx, cfg); err != nil {
				log.Printf("Scheduled scan error: %v", err)
			}
		}
	}
}

// ScanTime is a daily wall-clock trigger.
type ScanTime struct {
	Hour   int
	Minute int
}

// ParseScanTimes parses "HH:MM" entries.
func ParseScanTimes(entries []string) ([]ScanTime, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no scan times configured")
	}

	times := make([]ScanTime, 0, len(entries))
	for _, e := range entries {
		t, err := time.Parse("15:04", e)
		if err != nil {
			return nil, fmt.Errorf("bad scan time %q: %w", e, err)
		}
		times = append(times, ScanTime{Hour: t.Hour(), Minute: t.Minute()})
	}

	sort.Slice(times, func(i, j int) bool {
		if times[i].Hour != times[j].Hour {
			return times[i].Hour < times[j].Hour
		}
		return times[i].Minute < times[j].Minute
	})
	return times, nil
}

// NextScanTime returns the earliest trigger strictly after now, rolling over
// to the first trigger of the next day when today's are all past.
func NextScanTime(now time.Time, times []ScanTime) time.Time {
	for _, st := range times {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), st.Hour, st.Minute, 0, 0, now.Location())
		if candidate.After(now) {
			return candidate
		}
	}
	first := times[0]
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), first.Hour, first.Minute, 0, 0, now.Location())
}
