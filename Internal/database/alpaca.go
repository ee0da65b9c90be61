package datafeed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/fazecat/zonewatch/Internal/types"
	"github.com/fazecat/zonewatch/Internal/utils"
)

type Bar = types.Bar

// GetAlpacaBars fetches historical bars for a symbol from the Alpaca data API.
func GetAlpacaBars(symbol string, timeframe string, limit int) ([]Bar, error) {
	apiKey := os.Getenv("ALPACA_API_KEY")
	secretKey := os.Getenv("ALPACA_API_SECRET")

	timeframeToDur := func(tf string) time.Duration {
		switch tf {
		case "1Hour":
			return time.Hour
		case "1Day":
			return 24 * time.Hour
		case "1Week":
			return 7 * 24 * time.Hour
		default:
			return 24 * time.Hour
		}
	}

	// Weekend and holiday gaps mean limit bars span more than limit periods.
	now := time.Now().UTC()
	start := now.Add(-timeframeToDur(timeframe) * time.Duration(limit*2))
	startDate := start.Format(time.RFC3339)

	apiURL := fmt.Sprintf(
		"https://data.alpaca.markets/v2/stocks/%s/bars?timeframe=%s&limit=%d&start=%s",
		symbol, timeframe, limit, startDate,
	)

	var bars []Bar
	retryConfig := utils.DefaultRetryConfig()

	err := utils.RetryWithBackoff(func() error {
		req, _ := http.NewRequest("GET", apiURL, nil)
		req.Header.Set("APCA-API-KEY-ID", apiKey)
		req.Header.Set("APCA-API-SECRET-KEY", secretKey)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == 403 {
			fmt.Printf("⚠️  403 Forbidden - account may not have access to %s data\n", timeframe)
			bars = []Bar{}
			return nil
		}

		if resp.StatusCode != 200 {
			return fmt.Errorf("API returned status %d", resp.StatusCode)
		}

		type StockResponse struct {
			Bars []Bar `json:"bars"`
		}
		var r StockResponse
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
			return err
		}
		bars = r.Bars
		return nil
	}, retryConfig)

	if err != nil {
		return nil, err
	}

	return bars, nil
}

// GetDailyCandles fetches daily bars for a symbol and normalizes them into
// the candle form the detector expects: ascending by date, deduplicated, with
// timezone-naive calendar dates.
func GetDailyCandles(symbol string, limit int) ([]types.Candle, error) {
	bars, err := GetAlpacaBars(symbol, "1Day", limit)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, nil
	}
	return BarsToCandles(bars)
}

// BarsToCandles converts raw bars to daily candles sorted ascending by
// calendar day, keeping the last bar when a day appears twice.
func BarsToCandles(bars []Bar) ([]types.Candle, error) {
	candles := make([]types.Candle, 0, len(bars))
	for _, b := range bars {
		ts, err := time.Parse(time.RFC3339, b.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("bad bar timestamp %q: %w", b.Timestamp, err)
		}
		y, m, d := ts.UTC().Date()
		candles = append(candles, types.Candle{
			Date:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Date.Before(candles[j].Date)
	})

	deduped := candles[:0]
	for _, c := range candles {
		if len(deduped) > 0 && deduped[len(deduped)-1].Date.Equal(c.Date) {
			deduped[len(deduped)-1] = c
			continue
		}
		deduped = append(deduped, c)
	}

	return deduped, nil
}

var alpacaClient *alpaca.Client

func InitAlpacaClient() error {
	apiKey := os.Getenv("ALPACA_API_KEY")
	secretKey := os.Getenv("ALPACA_API_SECRET")

	if apiKey == "" || secretKey == "" {
		return fmt.Errorf("ALPACA_API_KEY or ALPACA_API_SECRET not set")
	}

	alpacaClient = alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: secretKey,
		BaseURL:   "https://paper-api.alpaca.markets",
	})

	return nil
}

// MarketClock fetches the trading calendar clock: whether the market is open
// right now and when it next opens and closes.
func MarketClock() (*alpaca.Clock, error) {
	if alpacaClient == nil {
		return nil, fmt.Errorf("alpaca client not initialized")
	}
	return alpacaClient.GetClock()
}
