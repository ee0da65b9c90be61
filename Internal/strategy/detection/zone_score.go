package detection

import (
	"math"

	"github.com/fazecat/zonewatch/Internal/utils"
)

// ScoreZone rates a finalized zone 0-100 from three equally weighted factors:
// compression (tighter total range scores higher), average RSI (more oversold
// scores higher) and duration (longer zones score higher, capped). Each factor
// is linearly interpolated and clamped to [0, 33.33]; the sum is rounded to
// one decimal. cfg must have passed Validate.
func ScoreZone(candleCount int, totalDiffPercent, avgRSI float64, cfg Config) float64 {
	compression := 33.33 * utils.Clamp01(
		(cfg.MaxTotalZoneDiff-totalDiffPercent)/(cfg.MaxTotalZoneDiff-cfg.ScoreDiffMin))

	rsiScore := 33.33 * utils.Clamp01(
		(cfg.ScoreRSIMax-avgRSI)/(cfg.ScoreRSIMax-cfg.ScoreRSIMin))

	duration := 33.33 * utils.Clamp01(
		float64(candleCount-cfg.MinCandleCount)/float64(cfg.ScoreCandleMax-cfg.MinCandleCount))

	total := compression + rsiScore + duration
	return math.Round(total*10) / 10
}
