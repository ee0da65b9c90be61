package detection

import (
	"fmt"
	"log"
	"math"

	"github.com/fazecat/zonewatch/Internal/strategy/indicators"
	"github.com/fazecat/zonewatch/Internal/types"
)

// ZoneDetector scans a daily candle series for accumulation zones: runs of
// candles whose bodies stay tight, whose closes stay linked, and whose RSI
// stays under a ceiling. Each detection call is pure with respect to its
// input; one detector may serve many tickers concurrently.
type ZoneDetector struct {
	cfg Config
}

func NewZoneDetector(cfg Config) *ZoneDetector {
	return &ZoneDetector{cfg: cfg}
}

// scanCandle is a candle that survived RSI warm-up trimming, renumbered
// contiguously and carrying its RSI reading.
type scanCandle struct {
	types.Candle
	rsi float64
}

// zoneCandidate is the in-progress state of a zone during the walk. It lives
// only inside one DetectZones call.
type zoneCandidate struct {
	startIdx    int
	candleIdxs  []int
	highestBody float64
	lowestBody  float64
	rsiValues   []float64
}

// DetectZones walks the candle series in chronological order and returns the
// accumulation zones that clear the minimum candle count and score. Too little
// data is a normal outcome and yields an empty list; malformed input (dates
// out of order, non-finite or non-positive prices) is an error.
func (d *ZoneDetector) DetectZones(ticker string, candles []types.Candle) ([]types.Zone, error) {
	if err := validateCandles(ticker, candles); err != nil {
		return nil, err
	}

	if len(candles) < d.cfg.MinCandleCount+1 {
		log.Printf("%s: insufficient data for analysis (%d candles)", ticker, len(candles))
		return nil, nil
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	rsi := indicators.CalculateRSI(closes, d.cfg.RSILength)

	// Drop the RSI warm-up rows (and any flat-run rows with no RSI signal)
	// and renumber the survivors contiguously.
	rows := make([]scanCandle, 0, len(candles))
	for i, c := range candles {
		if !rsi[i].Valid {
			continue
		}
		rows = append(rows, scanCandle{Candle: c, rsi: rsi[i].Value})
	}

	if len(rows) < d.cfg.MinCandleCount+1 {
		log.Printf("%s: insufficient data after RSI calculation (%d candles)", ticker, len(rows))
		return nil, nil
	}

	return d.scan(ticker, rows), nil
}

// scan runs the two-state walk over the trimmed rows. The first row can never
// join a zone: it has no predecessor for the link check.
func (d *ZoneDetector) scan(ticker string, rows []scanCandle) []types.Zone {
	var zones []types.Zone
	var cand *zoneCandidate // nil means out of zone

	for i := 1; i < len(rows); i++ {
		current := rows[i]
		prev := rows[i-1]

		bodyDiff := current.BodyHigh() - current.BodyLow()
		bodyDiffPercent := 0.0
		if current.Open != 0 {
			bodyDiffPercent = bodyDiff / current.Open * 100
		}

		linkDiffPercent := 0.0
		if prev.Close != 0 {
			linkDiffPercent = math.Abs(current.Close-prev.Close) / prev.Close * 100
		}

		bodyOk := bodyDiffPercent <= d.cfg.MaxBodyDiff
		linkOk := linkDiffPercent <= d.cfg.MaxLinkDiff
		rsiOk := current.rsi <= d.cfg.RSIMaxLimit

		if cand == nil {
			if bodyOk && rsiOk {
				cand = newCandidate(i, current)
			}
			continue
		}

		// Speculative boundary: the zone width is the tightest rectangle over
		// every body extreme seen so far, so a late candle can break the zone
		// on cumulative range even when it passes its own filters.
		tempHighest := math.Max(cand.highestBody, current.BodyHigh())
		tempLowest := math.Min(cand.lowestBody, current.BodyLow())
		totalDiffPercent := 0.0
		if tempLowest != 0 {
			totalDiffPercent = (tempHighest - tempLowest) / tempLowest * 100
		}

		if bodyOk && linkOk && rsiOk && totalDiffPercent <= d.cfg.MaxTotalZoneDiff {
			cand.candleIdxs = append(cand.candleIdxs, i)
			cand.highestBody = tempHighest
			cand.lowestBody = tempLowest
			cand.rsiValues = append(cand.rsiValues, current.rsi)
			continue
		}

		// Zone broke. Finalize, then re-test the breaking candle as the start
		// of a brand-new zone so no candle is treated as a dead gap.
		if z := d.finalizeZone(ticker, cand, rows, types.ZoneCompleted); z != nil {
			zones = append(zones, *z)
		}
		if bodyOk && rsiOk {
			cand = newCandidate(i, current)
		} else {
			cand = nil
		}
	}

	// A zone still open at the end of input is active as of this scan.
	if cand != nil {
		if z := d.finalizeZone(ticker, cand, rows, types.ZoneActive); z != nil {
			zones = append(zones, *z)
		}
	}

	return zones
}

func newCandidate(idx int, c scanCandle) *zoneCandidate {
	return &zoneCandidate{
		startIdx:    idx,
		candleIdxs:  []int{idx},
		highestBody: c.BodyHigh(),
		lowestBody:  c.BodyLow(),
		rsiValues:   []float64{c.rsi},
	}
}

// finalizeZone turns a candidate into a Zone, or nil when the candidate is too
// short or scores below the keep threshold. Rejection here is expected
// filtering, never an error.
func (d *ZoneDetector) finalizeZone(ticker string, cand *zoneCandidate, rows []scanCandle, status types.ZoneStatus) *types.Zone {
	candleCount := len(cand.candleIdxs)
	if candleCount < d.cfg.MinCandleCount {
		return nil
	}

	totalDiffPercent := 0.0
	if cand.lowestBody != 0 {
		totalDiffPercent = (cand.highestBody - cand.lowestBody) / cand.lowestBody * 100
	}

	avgRSI := 0.0
	for _, v := range cand.rsiValues {
		avgRSI += v
	}
	avgRSI /= float64(len(cand.rsiValues))

	score := ScoreZone(candleCount, totalDiffPercent, avgRSI, d.cfg)
	if score < d.cfg.MinScore {
		return nil
	}

	startIdx := cand.startIdx
	endIdx := cand.candleIdxs[len(cand.candleIdxs)-1]

	return &types.Zone{
		Ticker:           ticker,
		StartDate:        rows[startIdx].Date,
		EndDate:          rows[endIdx].Date,
		CandleCount:      candleCount,
		Score:            score,
		TotalDiffPercent: math.Round(totalDiffPercent*100) / 100,
		AvgRSI:           math.Round(avgRSI*10) / 10,
		HighestBody:      cand.highestBody,
		LowestBody:       cand.lowestBody,
		Status:           status,
	}
}

func validateCandles(ticker string, candles []types.Candle) error {
	for i, c := range candles {
		for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%s: non-finite price at candle %d (%s)", ticker, i, c.Date.Format("2006-01-02"))
			}
		}
		if c.Open <= 0 || c.Close <= 0 {
			return fmt.Errorf("%s: non-positive open/close at candle %d (%s)", ticker, i, c.Date.Format("2006-01-02"))
		}
		if i > 0 && !candles[i].Date.After(candles[i-1].Date) {
			return fmt.Errorf("%s: candles not in strictly increasing date order at index %d", ticker, i)
		}
	}
	return nil
}
