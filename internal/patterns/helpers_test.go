package patterns

import (
	"math"
	"time"

	"github.com/Alias1177/wavescope/models"
)

// path builds candles by linear interpolation between (index, price) anchors.
func path(anchors ...[2]float64) []models.Candle {
	n := int(anchors[len(anchors)-1][0]) + 1
	prices := make([]float64, n)
	for a := 0; a+1 < len(anchors); a++ {
		i0, p0 := int(anchors[a][0]), anchors[a][1]
		i1, p1 := int(anchors[a+1][0]), anchors[a+1][1]
		for i := i0; i <= i1; i++ {
			prices[i] = p0 + (p1-p0)*float64(i-i0)/float64(i1-i0)
		}
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	for i, p := range prices {
		candles[i] = models.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      p,
			High:      p + 0.0005,
			Low:       p - 0.0005,
			Close:     p,
		}
	}
	return candles
}

func series(n int, anchors ...[2]float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	for a := 0; a+1 < len(anchors); a++ {
		i0, v0 := int(anchors[a][0]), anchors[a][1]
		i1, v1 := int(anchors[a+1][0]), anchors[a+1][1]
		for i := i0; i <= i1; i++ {
			out[i] = v0 + (v1-v0)*float64(i-i0)/float64(i1-i0)
		}
	}
	return out
}

func byType(patterns []models.ChartPattern, typ models.PatternType) []models.ChartPattern {
	var out []models.ChartPattern
	for _, p := range patterns {
		if p.Type == typ {
			out = append(out, p)
		}
	}
	return out
}
