package patterns

import (
	"math"

	"github.com/Alias1177/wavescope/internal/indicators"
	"github.com/Alias1177/wavescope/internal/pivot"
	"github.com/Alias1177/wavescope/models"
)

const (
	swingWindow = 5
	// максимальное расхождение по барам между свингом цены и индикатора
	alignBars = 5
)

// swingPair is two consecutive same-kind swings from one series.
type swingPair struct {
	first, second models.PivotPoint
}

func pairs(points []models.PivotPoint) []swingPair {
	if len(points) < 2 {
		return nil
	}
	out := make([]swingPair, 0, len(points)-1)
	for i := 0; i+1 < len(points); i++ {
		out = append(out, swingPair{points[i], points[i+1]})
	}
	return out
}

// FindDivergences сопоставляет свинги цены со свингами RSI и MACD.
// frame may be nil, then it is computed from candles.
func FindDivergences(candles []models.Candle, frame *indicators.Frame) []models.Divergence {
	if len(candles) < 2*swingWindow+1 {
		return nil
	}
	if frame == nil || frame.Len() != len(candles) {
		frame = indicators.Compute(candles)
	}

	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
	}
	priceHighs := pairs(pivot.Highs(highs, swingWindow))
	priceLows := pairs(pivot.Lows(lows, swingWindow))

	var divergences []models.Divergence
	for _, ind := range []struct {
		name   string
		series []float64
	}{
		{"RSI", frame.RSI},
		{"MACD", frame.MACD},
	} {
		indHighs := pairs(pivot.Highs(ind.series, swingWindow))
		indLows := pairs(pivot.Lows(ind.series, swingWindow))

		// Цена делает более высокий максимум, индикатор более низкий
		divergences = append(divergences, detect(ind.name, models.BearishRegular, priceHighs, indHighs,
			func(p, i swingPair) bool { return p.second.Value > p.first.Value && i.second.Value < i.first.Value })...)

		// Цена делает более низкий минимум, индикатор более высокий
		divergences = append(divergences, detect(ind.name, models.BullishRegular, priceLows, indLows,
			func(p, i swingPair) bool { return p.second.Value < p.first.Value && i.second.Value > i.first.Value })...)

		// Скрытая медвежья: более низкий максимум цены, более высокий у индикатора
		divergences = append(divergences, detect(ind.name, models.BearishHidden, priceHighs, indHighs,
			func(p, i swingPair) bool { return p.second.Value < p.first.Value && i.second.Value > i.first.Value })...)

		// Скрытая бычья: более высокий минимум цены, более низкий у индикатора
		divergences = append(divergences, detect(ind.name, models.BullishHidden, priceLows, indLows,
			func(p, i swingPair) bool { return p.second.Value > p.first.Value && i.second.Value < i.first.Value })...)
	}
	return divergences
}

func detect(name string, typ models.DivergenceType, price, ind []swingPair, match func(p, i swingPair) bool) []models.Divergence {
	var out []models.Divergence
	for _, p := range price {
		for _, i := range ind {
			if !aligned(p, i) || !match(p, i) {
				continue
			}
			out = append(out, models.Divergence{
				Type:            typ,
				Indicator:       name,
				StartIndex:      min(p.first.Index, i.first.Index),
				EndIndex:        max(p.second.Index, i.second.Index),
				PricePoints:     [2]models.PricePoint{p.first.Point(), p.second.Point()},
				IndicatorPoints: [2]models.PricePoint{i.first.Point(), i.second.Point()},
				Strength:        divergenceStrength(p, i),
			})
		}
	}
	return out
}

func aligned(p, i swingPair) bool {
	return absInt(p.first.Index-i.first.Index) <= alignBars && absInt(p.second.Index-i.second.Index) <= alignBars
}

// divergenceStrength averages the relative price move, the relative
// indicator move and how closely the swings line up in time.
func divergenceStrength(p, i swingPair) float64 {
	var priceChange, indChange float64
	if p.first.Value != 0 {
		priceChange = math.Abs(p.second.Value-p.first.Value) / math.Abs(p.first.Value)
	}
	if i.first.Value != 0 {
		indChange = math.Abs(i.second.Value-i.first.Value) / math.Abs(i.first.Value)
	}
	gaps := absInt(p.first.Index-i.first.Index) + absInt(p.second.Index-i.second.Index)
	timing := 1 - float64(gaps)/20

	return models.Clamp01((priceChange + indChange + timing) / 3)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
