package indicators

// RSIValue is one point of an RSI series. Valid is false during the warm-up
// window (fewer than `period` gain/loss observations) and for candles where
// both rolling averages are zero, i.e. a perfectly flat run of closes.
type RSIValue struct {
	Value float64
	Valid bool
}

// CalculateRSI computes the Relative Strength Index over closing prices using
// a simple rolling mean of the last `period` gains and losses (not Wilder
// smoothing). The result has the same length as the input.
//
// When the average loss is zero but gains exist the oscillator saturates at
// 100. When gains and losses are both zero the value is undefined and marked
// invalid rather than forced to a neutral reading.
func CalculateRSI(closes []float64, period int) []RSIValue {
	rsi := make([]RSIValue, len(closes))
	if period < 1 || len(closes) < period+1 {
		return rsi
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	var sumGain, sumLoss float64
	for i := 1; i < len(closes); i++ {
		sumGain += gains[i]
		sumLoss += losses[i]
		if i > period {
			sumGain -= gains[i-period]
			sumLoss -= losses[i-period]
		}
		if i < period {
			continue
		}

		avgGain := sumGain / float64(period)
		avgLoss := sumLoss / float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			// flat run, no signal
		case avgLoss == 0:
			rsi[i] = RSIValue{Value: 100, Valid: true}
		default:
			rs := avgGain / avgLoss
			rsi[i] = RSIValue{Value: 100 - (100 / (1 + rs)), Valid: true}
		}
	}

	return rsi
}
