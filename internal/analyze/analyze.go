// Package analyze runs every recogniser over one candle table and derives a
// market bias from the results.
package analyze

import (
	"math"

	"github.com/Alias1177/wavescope/internal/indicators"
	"github.com/Alias1177/wavescope/internal/multitf"
	"github.com/Alias1177/wavescope/internal/patterns"
	"github.com/Alias1177/wavescope/internal/pivot"
	"github.com/Alias1177/wavescope/internal/waves"
	"github.com/Alias1177/wavescope/models"
)

// Options configures a single run. Zero values select defaults.
type Options struct {
	Pair        string
	Timeframe   models.Timeframe
	PivotWindow int
	Tolerance   float64
	MinPips     float64
	MaxPips     float64
	Indicators  indicators.Settings
}

// Snapshot holds indicator values at the last bar. Warm-up values are NaN and
// are reported as nil.
type Snapshot struct {
	Close     float64  `json:"close"`
	RSI       *float64 `json:"rsi,omitempty"`
	MACD      *float64 `json:"macd,omitempty"`
	Signal    *float64 `json:"macd_signal,omitempty"`
	Histogram *float64 `json:"macd_histogram,omitempty"`
	StochK    *float64 `json:"stoch_k,omitempty"`
	StochD    *float64 `json:"stoch_d,omitempty"`
}

// Result is everything one pass produced.
type Result struct {
	Pair         string                `json:"pair"`
	Timeframe    models.Timeframe      `json:"timeframe"`
	Bars         int                   `json:"bars"`
	Pivots       []models.PivotPoint   `json:"pivots"`
	Waves        []models.Wave         `json:"waves"`
	WaveSummary  waves.Summary         `json:"wave_summary"`
	Patterns     []models.ChartPattern `json:"patterns"`
	Divergences  []models.Divergence   `json:"divergences"`
	Convergences []models.Convergence  `json:"convergences"`
	Trends       []patterns.TrendMove  `json:"trends"`
	TrendEvents  []patterns.TrendEvent `json:"trend_events"`
	PipMovements []models.PipMovement  `json:"pip_movements"`
	Latest       Snapshot              `json:"latest"`
	Bias         Bias                  `json:"bias"`
	Frame        *indicators.Frame     `json:"-"`
	Candles      []models.Candle       `json:"-"`
}

// Run is pure: identical input gives identical output. Fewer bars than a
// component needs just leaves that component's slice empty.
func Run(candles []models.Candle, opts Options) *Result {
	if opts.PivotWindow < 1 {
		opts.PivotWindow = patterns.DefaultPivotWindow
	}
	if opts.Timeframe == "" {
		opts.Timeframe = models.H1
	}

	res := &Result{
		Pair:      opts.Pair,
		Timeframe: opts.Timeframe,
		Bars:      len(candles),
		Candles:   candles,
	}
	if len(candles) == 0 {
		res.Bias = Neutral
		return res
	}

	frame := indicators.ComputeWith(candles, opts.Indicators)
	res.Frame = frame
	res.Latest = snapshot(frame)

	res.Pivots = pivot.FromCandles(candles, opts.PivotWindow)
	res.Waves = waves.Identify(res.Pivots, frame.Close)
	res.WaveSummary = waves.Summarize(res.Waves)

	matcher := patterns.Matcher{Tolerance: opts.Tolerance, PivotWindow: opts.PivotWindow}
	res.Patterns = matcher.FindAll(candles)
	res.Divergences = patterns.FindDivergences(candles, frame)
	res.Convergences = patterns.FindConvergences(candles, frame)

	res.Trends = patterns.NewTrendAnalyzer().IdentifyTrends(candles)
	res.TrendEvents = append(patterns.Continuations(res.Trends), patterns.Reversals(res.Trends)...)

	corr := multitf.NewCorrelator(opts.Pair, opts.MinPips, opts.MaxPips, []models.Timeframe{opts.Timeframe})
	res.PipMovements = corr.Movements(candles, opts.Timeframe)

	res.Bias = ComputeBias(res.Waves, res.Trends)
	return res
}

func snapshot(f *indicators.Frame) Snapshot {
	last := f.Len() - 1
	if last < 0 {
		return Snapshot{}
	}
	return Snapshot{
		Close:     f.Close[last],
		RSI:       finite(f.RSI[last]),
		MACD:      finite(f.MACD[last]),
		Signal:    finite(f.Signal[last]),
		Histogram: finite(f.Histogram[last]),
		StochK:    finite(f.StochK[last]),
		StochD:    finite(f.StochD[last]),
	}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return models.Float(v)
}
