// Package pivot finds local swing highs and lows in a numeric series. The same
// extractor serves price columns and every indicator column.
package pivot

import (
	"math"
	"sort"

	"github.com/Alias1177/wavescope/models"
)

// Find returns pivots for window <= i < len(series)-window in index order.
// A high must be >= every non-NaN value in [i-window, i+window] and strictly
// above any equal value seen earlier in the window, so of two equal tops only
// the first counts. Lows mirror that. A flat series yields nothing.
func Find(series []float64, window int) []models.PivotPoint {
	if window < 1 || len(series) < 2*window+1 {
		return nil
	}

	var points []models.PivotPoint
	for i := window; i < len(series)-window; i++ {
		v := series[i]
		if math.IsNaN(v) {
			continue
		}
		switch {
		case isHigh(series, i, window):
			points = append(points, models.PivotPoint{Index: i, Value: v, Kind: models.PivotHigh})
		case isLow(series, i, window):
			points = append(points, models.PivotPoint{Index: i, Value: v, Kind: models.PivotLow})
		}
	}
	return points
}

func isHigh(series []float64, i, window int) bool {
	v := series[i]
	for j := i - window; j <= i+window; j++ {
		if j == i || math.IsNaN(series[j]) {
			continue
		}
		if series[j] > v || (j < i && series[j] == v) {
			return false
		}
	}
	return hasNeighbourBelow(series, i, window)
}

func isLow(series []float64, i, window int) bool {
	v := series[i]
	for j := i - window; j <= i+window; j++ {
		if j == i || math.IsNaN(series[j]) {
			continue
		}
		if series[j] < v || (j < i && series[j] == v) {
			return false
		}
	}
	return hasNeighbourAbove(series, i, window)
}

// a plateau where every later neighbour equals the centre is not a swing
func hasNeighbourBelow(series []float64, i, window int) bool {
	for j := i - window; j <= i+window; j++ {
		if j != i && series[j] < series[i] {
			return true
		}
	}
	return false
}

func hasNeighbourAbove(series []float64, i, window int) bool {
	for j := i - window; j <= i+window; j++ {
		if j != i && series[j] > series[i] {
			return true
		}
	}
	return false
}

// Highs keeps only swing highs.
func Highs(series []float64, window int) []models.PivotPoint {
	return filter(Find(series, window), models.PivotHigh)
}

// Lows keeps only swing lows.
func Lows(series []float64, window int) []models.PivotPoint {
	return filter(Find(series, window), models.PivotLow)
}

func filter(points []models.PivotPoint, kind models.PivotKind) []models.PivotPoint {
	var out []models.PivotPoint
	for _, p := range points {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// FromCandles takes swing highs from the High column and swing lows from the
// Low column and merges them by index. When both land on the same bar the high
// is kept.
func FromCandles(candles []models.Candle, window int) []models.PivotPoint {
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
	}

	points := Highs(highs, window)
	taken := make(map[int]bool, len(points))
	for _, p := range points {
		taken[p.Index] = true
	}
	for _, p := range Lows(lows, window) {
		if !taken[p.Index] {
			points = append(points, p)
		}
	}

	sort.SliceStable(points, func(a, b int) bool { return points[a].Index < points[b].Index })
	return points
}

// Alternating reports whether kinds strictly alternate high/low.
func Alternating(points []models.PivotPoint) bool {
	for i := 1; i < len(points); i++ {
		if points[i].Kind == points[i-1].Kind {
			return false
		}
	}
	return true
}

// Values extracts the pivot values in order.
func Values(points []models.PivotPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
