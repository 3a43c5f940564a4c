package patterns

import (
	"math"

	"github.com/Alias1177/wavescope/internal/indicators"
	"github.com/Alias1177/wavescope/models"
)

const (
	crossoverStart  = 50
	confluenceStart = 20
	volatilityBars  = 20
)

// FindConvergences reports MACD/signal crossovers and bars where RSI, MACD and
// Stochastic agree on an extreme. frame may be nil.
func FindConvergences(candles []models.Candle, frame *indicators.Frame) []models.Convergence {
	if frame == nil || frame.Len() != len(candles) {
		frame = indicators.Compute(candles)
	}

	var out []models.Convergence
	out = append(out, macdCrossovers(candles, frame)...)
	out = append(out, confluence(candles, frame)...)
	return out
}

func macdCrossovers(candles []models.Candle, f *indicators.Frame) []models.Convergence {
	var out []models.Convergence
	for i := crossoverStart; i < len(candles); i++ {
		m, s := f.MACD[i], f.Signal[i]
		pm, ps := f.MACD[i-1], f.Signal[i-1]

		// сравнения с NaN всегда ложны, поэтому прогрев отсекается сам
		var dir models.Signal
		switch {
		case m > s && pm <= ps:
			dir = models.Buy
		case m < s && pm >= ps:
			dir = models.Sell
		default:
			continue
		}

		out = append(out, models.Convergence{
			Type:       models.MACDSignalCross,
			Index:      i,
			Time:       candles[i].Timestamp,
			Price:      candles[i].Close,
			Indicators: map[string]float64{"macd": m, "signal": s},
			Strength:   crossoverStrength(f, i),
			Direction:  dir,
		})
	}
	return out
}

func crossoverStrength(f *indicators.Frame, i int) float64 {
	from := max(0, i-volatilityBars)
	std := indicators.StdDev(f.Close[from:i])
	if !(std > 0) {
		return 0.5
	}
	v := (math.Abs(f.MACD[i]-f.Signal[i]) + math.Abs(f.Histogram[i])) / std
	return models.Clamp01(math.Min(1, v))
}

func confluence(candles []models.Candle, f *indicators.Frame) []models.Convergence {
	var out []models.Convergence
	for i := confluenceStart; i < len(candles); i++ {
		rsi, m, s, k := f.RSI[i], f.MACD[i], f.Signal[i], f.StochK[i]

		var dir models.Signal
		switch {
		case rsi < 30 && m > s && k < 20:
			dir = models.Buy
		case rsi > 70 && m < s && k > 80:
			dir = models.Sell
		default:
			continue
		}

		out = append(out, models.Convergence{
			Type:       models.MultiIndicator,
			Index:      i,
			Time:       candles[i].Timestamp,
			Price:      candles[i].Close,
			Indicators: map[string]float64{"rsi": rsi, "macd": m, "stoch_k": k},
			Strength:   0.8,
			Direction:  dir,
		})
	}
	return out
}
