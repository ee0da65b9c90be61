package types

import "time"

type Bar struct {
	Timestamp string  `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    int64   `json:"v"`
}

// Candle is one daily OHLCV observation with a timezone-naive calendar date.
// Sequences handed to the detector must be sorted ascending by Date.
type Candle struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// BodyLow returns the lower edge of the candle body (wicks ignored).
func (c Candle) BodyLow() float64 {
	if c.Open < c.Close {
		return c.Open
	}
	return c.Close
}

// BodyHigh returns the upper edge of the candle body (wicks ignored).
func (c Candle) BodyHigh() float64 {
	if c.Open > c.Close {
		return c.Open
	}
	return c.Close
}

type ZoneStatus string

const (
	ZoneActive    ZoneStatus = "active"
	ZoneCompleted ZoneStatus = "completed"
	// ZoneBroken is assigned by the persistence layer when a previously
	// active zone fails to reappear in a later scan. The detector itself
	// never emits it.
	ZoneBroken ZoneStatus = "broken"
)

// Zone is a finalized accumulation zone for one ticker.
type Zone struct {
	Ticker           string
	StartDate        time.Time
	EndDate          time.Time
	CandleCount      int
	Score            float64 // 0-100, one decimal
	TotalDiffPercent float64 // zone width as % of the lowest body
	AvgRSI           float64
	HighestBody      float64
	LowestBody       float64
	Status           ZoneStatus
}
