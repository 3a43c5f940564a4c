// Package indicators computes the oscillator columns used by divergence and
// convergence detection.
package indicators

import (
	"math"

	"github.com/markcheno/go-talib"

	"github.com/Alias1177/wavescope/models"
)

// Settings holds indicator periods. Zero fields fall back to defaults.
type Settings struct {
	RSIPeriod  int `json:"rsi_period,omitempty" yaml:"rsi_period,omitempty"`
	MACDFast   int `json:"macd_fast,omitempty" yaml:"macd_fast,omitempty"`
	MACDSlow   int `json:"macd_slow,omitempty" yaml:"macd_slow,omitempty"`
	MACDSignal int `json:"macd_signal,omitempty" yaml:"macd_signal,omitempty"`
	StochK     int `json:"stoch_k,omitempty" yaml:"stoch_k,omitempty"`
	StochD     int `json:"stoch_d,omitempty" yaml:"stoch_d,omitempty"`
}

// DefaultSettings returns RSI 14, MACD 12/26/9 and Stochastic 14/3.
func DefaultSettings() Settings {
	return Settings{RSIPeriod: 14, MACDFast: 12, MACDSlow: 26, MACDSignal: 9, StochK: 14, StochD: 3}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.RSIPeriod <= 0 {
		s.RSIPeriod = d.RSIPeriod
	}
	if s.MACDFast <= 0 {
		s.MACDFast = d.MACDFast
	}
	if s.MACDSlow <= 0 {
		s.MACDSlow = d.MACDSlow
	}
	if s.MACDSignal <= 0 {
		s.MACDSignal = d.MACDSignal
	}
	if s.StochK <= 0 {
		s.StochK = d.StochK
	}
	if s.StochD <= 0 {
		s.StochD = d.StochD
	}
	return s
}

// Frame is the indicator table aligned with the input candles. Every column has
// len(candles) entries and NaN where the value is undefined.
type Frame struct {
	Close     []float64
	RSI       []float64
	MACD      []float64
	Signal    []float64
	Histogram []float64
	StochK    []float64
	StochD    []float64
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Close)
}

// Compute builds a frame with default settings.
func Compute(candles []models.Candle) *Frame {
	return ComputeWith(candles, DefaultSettings())
}

// ComputeWith builds a frame with the given periods.
func ComputeWith(candles []models.Candle, s Settings) *Frame {
	s = s.withDefaults()

	closes := CloseSeries(candles)
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
	}

	f := &Frame{Close: closes}
	f.RSI = RSI(closes, s.RSIPeriod)
	f.MACD, f.Signal, f.Histogram = MACD(closes, s.MACDFast, s.MACDSlow, s.MACDSignal)
	f.StochK, f.StochD = Stochastic(highs, lows, closes, s.StochK, s.StochD)
	return f
}

// CloseSeries extracts closing prices.
func CloseSeries(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// RSI is Wilder's relative strength index. Values before index period are NaN,
// as are values while the series has not moved yet.
func RSI(closes []float64, period int) []float64 {
	out := nanSeries(len(closes))
	if period < 2 || len(closes) <= period {
		return out
	}

	raw := talib.Rsi(closes, period)
	moved := false
	for i := 1; i < len(closes); i++ {
		if closes[i] != closes[i-1] {
			moved = true
		}
		if i >= period && moved {
			out[i] = raw[i]
		}
	}
	return out
}

// EMA is an SMA-seeded exponential average; the first period-1 values are NaN.
func EMA(series []float64, period int) []float64 {
	out := nanSeries(len(series))
	if period < 1 || len(series) < period {
		return out
	}
	raw := talib.Ema(series, period)
	copy(out[period-1:], raw[period-1:])
	return out
}

// MACD returns the MACD line, its signal line and the histogram.
func MACD(closes []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	n := len(closes)
	macd, sig, hist = nanSeries(n), nanSeries(n), nanSeries(n)
	if fast > slow {
		fast, slow = slow, fast
	}

	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)
	start := slow - 1
	if start < 0 || start >= n {
		return macd, sig, hist
	}
	for i := start; i < n; i++ {
		macd[i] = emaFast[i] - emaSlow[i]
	}

	// сигнальная линия считается только по определённой части MACD
	smoothed := EMA(macd[start:], signal)
	for i, v := range smoothed {
		if math.IsNaN(v) {
			continue
		}
		sig[start+i] = v
		hist[start+i] = macd[start+i] - v
	}
	return macd, sig, hist
}

// Stochastic returns %K and %D. %K is NaN when the lookback range is flat and
// %D is NaN whenever any %K in its window is NaN.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (k, d []float64) {
	n := len(closes)
	k, d = nanSeries(n), nanSeries(n)
	if kPeriod < 1 || n < kPeriod || len(highs) != n || len(lows) != n {
		return k, d
	}

	hh := talib.Max(highs, kPeriod)
	ll := talib.Min(lows, kPeriod)
	for i := kPeriod - 1; i < n; i++ {
		rng := hh[i] - ll[i]
		if rng == 0 {
			continue
		}
		k[i] = 100 * (closes[i] - ll[i]) / rng
	}
	return k, SMA(k, dPeriod)
}

// SMA is a plain rolling mean; a window containing NaN yields NaN.
func SMA(series []float64, period int) []float64 {
	out := nanSeries(len(series))
	if period < 1 {
		return out
	}
	for i := period - 1; i < len(series); i++ {
		sum := 0.0
		for _, v := range series[i-period+1 : i+1] {
			sum += v
		}
		out[i] = sum / float64(period)
	}
	return out
}

// StdDev is the sample standard deviation, 0 for fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	ss := 0.0
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
