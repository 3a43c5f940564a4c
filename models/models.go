package models

import (
	"math"
	"time"
)

// Candle represents a single OHLCV bar. A candle table is ordered by Timestamp
// ascending and addressed by position.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume,omitempty"`
}

// PricePoint is an (index, price) pair inside a pattern or divergence.
type PricePoint struct {
	Index int     `json:"index"`
	Price float64 `json:"price"`
}

// PivotPoint is a local swing extremum in some series.
type PivotPoint struct {
	Index int       `json:"index"`
	Value float64   `json:"value"`
	Kind  PivotKind `json:"kind"`
}

// Point drops the kind.
func (p PivotPoint) Point() PricePoint {
	return PricePoint{Index: p.Index, Price: p.Value}
}

// Wave is one labelled Elliott leg between two pivots.
type Wave struct {
	StartIndex     int        `json:"start_index"`
	EndIndex       int        `json:"end_index"`
	StartPrice     float64    `json:"start_price"`
	EndPrice       float64    `json:"end_price"`
	Type           WaveType   `json:"wave_type"`
	Direction      Direction  `json:"direction"`
	Degree         WaveDegree `json:"degree"`
	Label          string     `json:"label"`
	FibonacciRatio *float64   `json:"fibonacci_ratio,omitempty"`
	// Parent is the position of the enclosing higher-degree wave in the same
	// result slice, -1 when there is none.
	Parent int `json:"parent_wave"`
}

// Length returns the leg size in price points.
func (w Wave) Length() float64 {
	return math.Abs(w.EndPrice - w.StartPrice)
}

// Duration returns the leg size in bars.
func (w Wave) Duration() int {
	return w.EndIndex - w.StartIndex
}

// LengthPercent is the leg size relative to its start price.
func (w Wave) LengthPercent() float64 {
	if w.StartPrice == 0 {
		return 0
	}
	return w.Length() / w.StartPrice * 100
}

// ChartPattern представляет классическую графическую фигуру
type ChartPattern struct {
	Type        PatternType  `json:"pattern_type"`
	StartIndex  int          `json:"start_index"`
	EndIndex    int          `json:"end_index"`
	KeyPoints   []PricePoint `json:"key_points"`
	Confidence  float64      `json:"confidence"` // 0..1
	TargetPrice *float64     `json:"target_price,omitempty"`
	StopLoss    *float64     `json:"stop_loss,omitempty"`
}

// Duration returns the pattern width in bars.
func (p ChartPattern) Duration() int {
	return p.EndIndex - p.StartIndex
}

// Divergence представляет дивергенцию между ценой и индикатором
type Divergence struct {
	Type            DivergenceType `json:"divergence_type"`
	Indicator       string         `json:"indicator"` // RSI или MACD
	StartIndex      int            `json:"start_index"`
	EndIndex        int            `json:"end_index"`
	PricePoints     [2]PricePoint  `json:"price_points"`
	IndicatorPoints [2]PricePoint  `json:"indicator_points"`
	Strength        float64        `json:"strength"` // 0..1
}

// Convergence is an aligned indicator signal at one bar.
type Convergence struct {
	Type       ConvergenceType    `json:"convergence_type"`
	Index      int                `json:"timestamp"`
	Time       time.Time          `json:"time"`
	Price      float64            `json:"price"`
	Indicators map[string]float64 `json:"indicators"`
	Strength   float64            `json:"strength"`
	Direction  Signal             `json:"signal_direction"`
}

// PipMovement is a close-to-close move that landed inside the pip interval.
type PipMovement struct {
	Pair       string    `json:"pair"`
	Timeframe  string    `json:"timeframe"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	StartPrice float64   `json:"start_price"`
	EndPrice   float64   `json:"end_price"`
	PipChange  float64   `json:"pip_change"` // unsigned
	Direction  Direction `json:"direction"`
}

// TimeframeSignal is a same-direction overlap of movements on two timeframes.
type TimeframeSignal struct {
	Pair       string    `json:"pair"`
	Timeframes [2]string `json:"timeframes"`
	Direction  Direction `json:"direction"`
	Strength   float64   `json:"strength"`
	Timestamp  time.Time `json:"timestamp"`
}

// Clamp01 bounds confidence and strength scores. NaN maps to 0.
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Float returns a pointer to v, for optional fields.
func Float(v float64) *float64 {
	return &v
}
