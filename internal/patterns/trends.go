package patterns

import (
	"fmt"
	"math"

	"github.com/Alias1177/wavescope/internal/indicators"
	"github.com/Alias1177/wavescope/models"
)

type TrendDirection int

const (
	Sideways TrendDirection = iota
	Uptrend
	Downtrend
)

func (d TrendDirection) String() string {
	switch d {
	case Sideways:
		return "sideways"
	case Uptrend:
		return "uptrend"
	case Downtrend:
		return "downtrend"
	}
	return fmt.Sprintf("TrendDirection(%d)", int(d))
}

func (d TrendDirection) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

type TrendStrength int

const (
	Weak TrendStrength = iota
	Moderate
	Strong
)

func (s TrendStrength) String() string {
	switch s {
	case Weak:
		return "weak"
	case Moderate:
		return "moderate"
	case Strong:
		return "strong"
	}
	return fmt.Sprintf("TrendStrength(%d)", int(s))
}

func (s TrendStrength) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// TrendMove is a regression fit over one regime segment.
type TrendMove struct {
	StartIndex int            `json:"start_index"`
	EndIndex   int            `json:"end_index"`
	StartPrice float64        `json:"start_price"`
	EndPrice   float64        `json:"end_price"`
	Direction  TrendDirection `json:"direction"`
	Strength   TrendStrength  `json:"strength"`
	Slope      float64        `json:"slope"`
	RSquared   float64        `json:"r_squared"`
}

func (m TrendMove) Duration() int { return m.EndIndex - m.StartIndex }

// PercentChange from start to end price.
func (m TrendMove) PercentChange() float64 {
	if m.StartPrice == 0 {
		return 0
	}
	return (m.EndPrice - m.StartPrice) / m.StartPrice * 100
}

// TrendEvent links two consecutive moves.
type TrendEvent struct {
	Kind       string         `json:"type"` // continuation | reversal
	From       TrendDirection `json:"from_direction"`
	To         TrendDirection `json:"to_direction"`
	StartIndex int            `json:"start_index"`
	EndIndex   int            `json:"end_index"`
	Strength   TrendStrength  `json:"strength"`
}

// TrendAnalyzer segments a series by the short/long moving-average regime.
type TrendAnalyzer struct {
	Window    int // long MA period, the short one is half of it
	MinLength int
}

func NewTrendAnalyzer() TrendAnalyzer {
	return TrendAnalyzer{Window: 20, MinLength: 10}
}

// IdentifyTrends splits the closes at every regime change and fits each
// segment of at least MinLength bars.
func (a TrendAnalyzer) IdentifyTrends(candles []models.Candle) []TrendMove {
	if a.Window < 2 {
		a.Window = 20
	}
	if a.MinLength < 2 {
		a.MinLength = 10
	}
	closes := indicators.CloseSeries(candles)
	if len(closes) < 2 {
		return nil
	}

	short := indicators.SMA(closes, a.Window/2)
	long := indicators.SMA(closes, a.Window)
	regime := func(i int) TrendDirection {
		s, l := short[i], long[i]
		switch {
		case math.IsNaN(s) || math.IsNaN(l):
			return Sideways
		case s > l*1.001:
			return Uptrend
		case s < l*0.999:
			return Downtrend
		}
		return Sideways
	}

	changes := []int{0}
	for i := 1; i < len(closes)-1; i++ {
		if math.IsNaN(short[i]) || math.IsNaN(long[i]) {
			continue
		}
		if regime(i) != regime(i-1) {
			changes = append(changes, i)
		}
	}
	changes = append(changes, len(closes)-1)

	var moves []TrendMove
	for i := 0; i+1 < len(changes); i++ {
		start, end := changes[i], changes[i+1]
		if end-start < a.MinLength {
			continue
		}
		moves = append(moves, fitSegment(closes, start, end))
	}
	return moves
}

func fitSegment(closes []float64, start, end int) TrendMove {
	ys := closes[start : end+1]
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	slope, _, r2 := linearFit(xs, ys)

	dir := Sideways
	if r2 >= 0.3 {
		switch {
		case slope > 1e-4:
			dir = Uptrend
		case slope < -1e-4:
			dir = Downtrend
		}
	}

	strength := Weak
	switch score := math.Abs(slope) * r2; {
	case score > 1e-3:
		strength = Strong
	case score > 5e-4:
		strength = Moderate
	}

	return TrendMove{
		StartIndex: start,
		EndIndex:   end,
		StartPrice: closes[start],
		EndPrice:   closes[end],
		Direction:  dir,
		Strength:   strength,
		Slope:      slope,
		RSquared:   r2,
	}
}

func significant(m TrendMove) bool {
	return m.Strength == Moderate || m.Strength == Strong
}

// Continuations are consecutive significant moves in the same direction.
func Continuations(moves []TrendMove) []TrendEvent {
	var out []TrendEvent
	for i := 0; i+1 < len(moves); i++ {
		cur, next := moves[i], moves[i+1]
		if cur.Direction != next.Direction || !significant(cur) || !significant(next) {
			continue
		}
		strength := Moderate
		if cur.Strength == Strong {
			strength = Strong
		}
		out = append(out, TrendEvent{
			Kind:       "continuation",
			From:       cur.Direction,
			To:         next.Direction,
			StartIndex: cur.StartIndex,
			EndIndex:   next.EndIndex,
			Strength:   strength,
		})
	}
	return out
}

// Reversals are consecutive significant moves flipping between up and down.
func Reversals(moves []TrendMove) []TrendEvent {
	var out []TrendEvent
	for i := 0; i+1 < len(moves); i++ {
		cur, next := moves[i], moves[i+1]
		if cur.Direction == next.Direction || cur.Direction == Sideways || next.Direction == Sideways {
			continue
		}
		if !significant(cur) || !significant(next) {
			continue
		}
		out = append(out, TrendEvent{
			Kind:       "reversal",
			From:       cur.Direction,
			To:         next.Direction,
			StartIndex: cur.EndIndex,
			EndIndex:   cur.EndIndex,
			Strength:   Strong,
		})
	}
	return out
}
