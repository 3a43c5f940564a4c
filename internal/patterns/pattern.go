// Package patterns recognises chart formations, indicator divergences and
// convergences, and trend segments over a candle table.
package patterns

import (
	"math"

	"github.com/Alias1177/wavescope/internal/indicators"
	"github.com/Alias1177/wavescope/internal/pivot"
	"github.com/Alias1177/wavescope/models"
)

const (
	DefaultTolerance   = 0.02
	DefaultPivotWindow = 5

	slopeThreshold = 1e-5
	flagLookback   = 20
	flagHold       = 15
)

// Matcher runs every chart-pattern detector over one pivot pass. The detectors
// are independent and may report overlapping formations.
type Matcher struct {
	Tolerance   float64
	PivotWindow int
}

// NewMatcher returns a matcher with 2% tolerance and a 5-bar pivot window.
func NewMatcher() Matcher {
	return Matcher{Tolerance: DefaultTolerance, PivotWindow: DefaultPivotWindow}
}

// FindAll runs the default matcher.
func FindAll(candles []models.Candle) []models.ChartPattern {
	return NewMatcher().FindAll(candles)
}

func (m Matcher) FindAll(candles []models.Candle) []models.ChartPattern {
	if m.Tolerance <= 0 {
		m.Tolerance = DefaultTolerance
	}
	if m.PivotWindow < 1 {
		m.PivotWindow = DefaultPivotWindow
	}

	pivots := pivot.FromCandles(candles, m.PivotWindow)

	var patterns []models.ChartPattern
	patterns = append(patterns, m.headAndShoulders(pivots)...)
	patterns = append(patterns, m.inverseHeadAndShoulders(pivots)...)
	patterns = append(patterns, m.doubleTops(pivots)...)
	patterns = append(patterns, m.doubleBottoms(pivots)...)
	patterns = append(patterns, triangles(candles, pivots)...)
	patterns = append(patterns, wedges(pivots)...)
	patterns = append(patterns, flags(candles)...)
	return patterns
}

func ofKind(pivots []models.PivotPoint, kind models.PivotKind) []models.PivotPoint {
	var out []models.PivotPoint
	for _, p := range pivots {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// between returns pivots of the given kind strictly inside (from, to).
func between(pivots []models.PivotPoint, kind models.PivotKind, from, to int) []models.PivotPoint {
	var out []models.PivotPoint
	for _, p := range pivots {
		if p.Kind == kind && p.Index > from && p.Index < to {
			out = append(out, p)
		}
	}
	return out
}

func keyPoints(groups ...[]models.PivotPoint) []models.PricePoint {
	var out []models.PricePoint
	for _, g := range groups {
		for _, p := range g {
			out = append(out, p.Point())
		}
	}
	return out
}

func meanValue(points []models.PivotPoint) float64 {
	sum := 0.0
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points))
}

// Голова и плечи: три последовательных максимума, голова выше плеч, плечи равны
func (m Matcher) headAndShoulders(pivots []models.PivotPoint) []models.ChartPattern {
	highs := ofKind(pivots, models.PivotHigh)
	tol := m.Tolerance

	var patterns []models.ChartPattern
	for i := 0; i+2 < len(highs); i++ {
		l, h, r := highs[i], highs[i+1], highs[i+2]
		if l.Value == 0 {
			continue
		}
		if !(h.Value > l.Value*(1+tol) && h.Value > r.Value*(1+tol) && math.Abs(l.Value-r.Value)/l.Value < tol) {
			continue
		}

		neck := between(pivots, models.PivotLow, l.Index, r.Index)
		if len(neck) < 2 {
			continue
		}
		neckline := meanValue(neck)

		shoulders := math.Max(l.Value, r.Value)
		equality := 1 - math.Abs(l.Value-r.Value)/shoulders
		prominence := (h.Value - shoulders) / h.Value

		patterns = append(patterns, models.ChartPattern{
			Type:        models.HeadAndShoulders,
			StartIndex:  l.Index,
			EndIndex:    r.Index,
			KeyPoints:   keyPoints([]models.PivotPoint{l, h, r}, neck),
			Confidence:  models.Clamp01(math.Min(0.9, (equality+prominence)/2)),
			TargetPrice: models.Float(neckline - (h.Value - neckline)),
			StopLoss:    models.Float(h.Value),
		})
	}
	return patterns
}

func (m Matcher) inverseHeadAndShoulders(pivots []models.PivotPoint) []models.ChartPattern {
	lows := ofKind(pivots, models.PivotLow)
	tol := m.Tolerance

	var patterns []models.ChartPattern
	for i := 0; i+2 < len(lows); i++ {
		l, h, r := lows[i], lows[i+1], lows[i+2]
		if l.Value == 0 {
			continue
		}
		if !(h.Value < l.Value*(1-tol) && h.Value < r.Value*(1-tol) && math.Abs(l.Value-r.Value)/l.Value < tol) {
			continue
		}

		neck := between(pivots, models.PivotHigh, l.Index, r.Index)
		if len(neck) < 2 {
			continue
		}
		neckline := meanValue(neck)

		shoulders := math.Min(l.Value, r.Value)
		equality := 1 - math.Abs(l.Value-r.Value)/math.Max(l.Value, r.Value)
		prominence := (shoulders - h.Value) / shoulders

		patterns = append(patterns, models.ChartPattern{
			Type:        models.InverseHeadAndShoulders,
			StartIndex:  l.Index,
			EndIndex:    r.Index,
			KeyPoints:   keyPoints([]models.PivotPoint{l, h, r}, neck),
			Confidence:  models.Clamp01(math.Min(0.9, (equality+prominence)/2)),
			TargetPrice: models.Float(neckline + (neckline - h.Value)),
			StopLoss:    models.Float(h.Value),
		})
	}
	return patterns
}

func (m Matcher) doubleTops(pivots []models.PivotPoint) []models.ChartPattern {
	highs := ofKind(pivots, models.PivotHigh)

	var patterns []models.ChartPattern
	for i := 0; i+1 < len(highs); i++ {
		first, second := highs[i], highs[i+1]
		if first.Value == 0 || math.Abs(first.Value-second.Value)/first.Value >= m.Tolerance {
			continue
		}
		lows := between(pivots, models.PivotLow, first.Index, second.Index)
		if len(lows) == 0 {
			continue
		}
		valley := lows[0]
		for _, p := range lows[1:] {
			if p.Value < valley.Value {
				valley = p
			}
		}

		patterns = append(patterns, models.ChartPattern{
			Type:        models.DoubleTop,
			StartIndex:  first.Index,
			EndIndex:    second.Index,
			KeyPoints:   keyPoints([]models.PivotPoint{first, valley, second}),
			Confidence:  equalityScore(first.Value, second.Value),
			TargetPrice: models.Float(valley.Value - (first.Value - valley.Value)),
			StopLoss:    models.Float(math.Max(first.Value, second.Value)),
		})
	}
	return patterns
}

func (m Matcher) doubleBottoms(pivots []models.PivotPoint) []models.ChartPattern {
	lows := ofKind(pivots, models.PivotLow)

	var patterns []models.ChartPattern
	for i := 0; i+1 < len(lows); i++ {
		first, second := lows[i], lows[i+1]
		if first.Value == 0 || math.Abs(first.Value-second.Value)/first.Value >= m.Tolerance {
			continue
		}
		highs := between(pivots, models.PivotHigh, first.Index, second.Index)
		if len(highs) == 0 {
			continue
		}
		peak := highs[0]
		for _, p := range highs[1:] {
			if p.Value > peak.Value {
				peak = p
			}
		}

		patterns = append(patterns, models.ChartPattern{
			Type:        models.DoubleBottom,
			StartIndex:  first.Index,
			EndIndex:    second.Index,
			KeyPoints:   keyPoints([]models.PivotPoint{first, peak, second}),
			Confidence:  equalityScore(first.Value, second.Value),
			TargetPrice: models.Float(peak.Value + (peak.Value - first.Value)),
			StopLoss:    models.Float(math.Min(first.Value, second.Value)),
		})
	}
	return patterns
}

func equalityScore(a, b float64) float64 {
	hi := math.Max(a, b)
	if hi == 0 {
		return 0
	}
	return models.Clamp01(math.Min(0.9, 1-math.Abs(a-b)/hi))
}

// classifyTriangle maps trendline slopes to a triangle type.
func classifyTriangle(highSlope, lowSlope float64) (models.PatternType, bool) {
	switch {
	case math.Abs(highSlope) < slopeThreshold && lowSlope > slopeThreshold:
		return models.TriangleAscending, true
	case highSlope < -slopeThreshold && math.Abs(lowSlope) < slopeThreshold:
		return models.TriangleDescending, true
	case highSlope < -slopeThreshold && lowSlope > slopeThreshold:
		return models.TriangleSymmetrical, true
	}
	return 0, false
}

func triangles(candles []models.Candle, pivots []models.PivotPoint) []models.ChartPattern {
	var patterns []models.ChartPattern
	for i := 0; i+4 <= len(pivots); i++ {
		window := pivots[i : i+4]
		highs := ofKind(window, models.PivotHigh)
		lows := ofKind(window, models.PivotLow)
		if len(highs) < 2 || len(lows) < 2 {
			continue
		}

		typ, ok := classifyTriangle(pivotSlope(highs), pivotSlope(lows))
		if !ok {
			continue
		}

		top, bottom := window[0].Value, window[0].Value
		for _, p := range window[1:] {
			top = math.Max(top, p.Value)
			bottom = math.Min(bottom, p.Value)
		}
		height := top - bottom
		last := candles[window[3].Index].Close
		target := last - height
		if typ == models.TriangleAscending {
			target = last + height
		}

		patterns = append(patterns, models.ChartPattern{
			Type:        typ,
			StartIndex:  window[0].Index,
			EndIndex:    window[3].Index,
			KeyPoints:   keyPoints(window),
			Confidence:  models.Clamp01(math.Min(0.8, float64(len(highs)+len(lows))/6)),
			TargetPrice: models.Float(target),
		})
	}
	return patterns
}

func wedges(pivots []models.PivotPoint) []models.ChartPattern {
	var patterns []models.ChartPattern
	for i := 0; i+4 <= len(pivots); i++ {
		window := pivots[i : i+4]
		highs := ofKind(window, models.PivotHigh)
		lows := ofKind(window, models.PivotLow)
		if len(highs) < 2 || len(lows) < 2 {
			continue
		}

		hs, ls := pivotSlope(highs), pivotSlope(lows)
		var typ models.PatternType
		switch {
		case hs > 0 && ls > 0 && hs < ls:
			typ = models.WedgeRising
		case hs < 0 && ls < 0 && hs > ls:
			typ = models.WedgeFalling
		default:
			continue
		}

		patterns = append(patterns, models.ChartPattern{
			Type:       typ,
			StartIndex: window[0].Index,
			EndIndex:   window[3].Index,
			KeyPoints:  keyPoints(window),
			Confidence: 0.7,
		})
	}
	return patterns
}

// flags looks for a strong 20-bar move followed by a tight 15-bar range.
func flags(candles []models.Candle) []models.ChartPattern {
	n := len(candles)
	closes := indicators.CloseSeries(candles)

	var patterns []models.ChartPattern
	for i := flagLookback; i < n-flagLookback; i++ {
		start := i - flagLookback
		move := math.Abs(closes[i] - closes[start])
		if !(move > 2*indicators.StdDev(closes[start:i])) {
			continue
		}

		// i < n-flagLookback, so the hold window always fits
		end := i + flagHold
		hi, lo := candles[i].High, candles[i].Low
		for _, c := range candles[i+1 : end] {
			hi = math.Max(hi, c.High)
			lo = math.Min(lo, c.Low)
		}
		if !(hi-lo < 0.3*move) {
			continue
		}

		typ := models.FlagBear
		if closes[i] > closes[start] {
			typ = models.FlagBull
		}
		patterns = append(patterns, models.ChartPattern{
			Type:       typ,
			StartIndex: i,
			EndIndex:   end - 1,
			KeyPoints: []models.PricePoint{
				{Index: i, Price: closes[i]},
				{Index: end - 1, Price: closes[end-1]},
			},
			Confidence: 0.6,
		})
	}
	return patterns
}
