package detection

import "fmt"

// Config holds the zone detection and scoring thresholds. A Config is
// read-only once built and may be shared across concurrent detections.
type Config struct {
	// Filter thresholds, all percentages.
	MaxLinkDiff      float64 `yaml:"max_link_diff"`       // max % gap between consecutive closes
	MaxBodyDiff      float64 `yaml:"max_body_diff"`       // max % candle body size
	MaxTotalZoneDiff float64 `yaml:"max_total_zone_diff"` // max % total zone width
	MinCandleCount   int     `yaml:"min_candle_count"`    // min candles for a zone

	// RSI settings.
	RSILength   int     `yaml:"rsi_length"`
	RSIMaxLimit float64 `yaml:"rsi_max_limit"` // max RSI during zone formation

	// Scoring bounds.
	ScoreDiffMin   float64 `yaml:"score_diff_min"`   // zone width % for full compression score
	ScoreRSIMin    float64 `yaml:"score_rsi_min"`    // avg RSI for full oversold score
	ScoreRSIMax    float64 `yaml:"score_rsi_max"`    // avg RSI for zero oversold score
	ScoreCandleMax int     `yaml:"score_candle_max"` // candle count for full duration score
	MinScore       float64 `yaml:"min_score"`        // zones below this are discarded
}

// DefaultConfig returns the thresholds the original indicator shipped with.
func DefaultConfig() Config {
	return Config{
		MaxLinkDiff:      3.0,
		MaxBodyDiff:      4.0,
		MaxTotalZoneDiff: 6.0,
		MinCandleCount:   4,
		RSILength:        14,
		RSIMaxLimit:      100.0,
		ScoreDiffMin:     2.0,
		ScoreRSIMin:      30.0,
		ScoreRSIMax:      70.0,
		ScoreCandleMax:   20,
		MinScore:         30.0,
	}
}

// Validate rejects configurations whose scoring bounds would divide by zero.
// Callers must validate at load time; the scorer assumes a valid Config.
func (c Config) Validate() error {
	if c.RSILength < 1 {
		return fmt.Errorf("rsi_length must be at least 1, got %d", c.RSILength)
	}
	if c.MinCandleCount < 1 {
		return fmt.Errorf("min_candle_count must be at least 1, got %d", c.MinCandleCount)
	}
	if c.MaxTotalZoneDiff == c.ScoreDiffMin {
		return fmt.Errorf("max_total_zone_diff and score_diff_min must differ (both %.2f)", c.ScoreDiffMin)
	}
	if c.ScoreRSIMax == c.ScoreRSIMin {
		return fmt.Errorf("score_rsi_max and score_rsi_min must differ (both %.2f)", c.ScoreRSIMin)
	}
	if c.ScoreCandleMax == c.MinCandleCount {
		return fmt.Errorf("score_candle_max and min_candle_count must differ (both %d)", c.MinCandleCount)
	}
	return nil
}
