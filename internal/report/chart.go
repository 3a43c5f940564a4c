package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Alias1177/wavescope/internal/analyze"
	"github.com/Alias1177/wavescope/internal/indicators"
	"github.com/Alias1177/wavescope/models"
)

const (
	emptyValue = "-" // echarts skips "-" points
	chartEMA   = 20
)

// WriteChart renders a candlestick page with pivots, pattern markers and an
// RSI panel.
func WriteChart(w io.Writer, res *analyze.Result) error {
	page := components.NewPage()
	page.AddCharts(priceChart(res), rsiChart(res))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// WriteChartFile writes the chart to dir/<PAIR>_<TF>.html and returns the path.
func WriteChartFile(dir string, res *analyze.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.html", res.Pair, res.Timeframe))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	if err := WriteChart(f, res); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func axis(candles []models.Candle) []string {
	x := make([]string, len(candles))
	for i, c := range candles {
		x[i] = c.Timestamp.Format("2006-01-02 15:04")
	}
	return x
}

func priceChart(res *analyze.Result) *charts.Kline {
	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s %s", res.Pair, res.Timeframe),
			Subtitle: fmt.Sprintf("bias: %s", res.Bias),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", Start: 0, End: 100}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "600px"}),
	)

	x := axis(res.Candles)
	bars := make([]opts.KlineData, len(res.Candles))
	for i, c := range res.Candles {
		// echarts order: open, close, low, high
		bars[i] = opts.KlineData{Value: [4]float64{c.Open, c.Close, c.Low, c.High}}
	}
	kline.SetXAxis(x).AddSeries("price", bars)

	ema := charts.NewLine()
	ema.SetXAxis(x).AddSeries(fmt.Sprintf("EMA %d", chartEMA), lineData(indicators.EMA(indicators.CloseSeries(res.Candles), chartEMA)))

	highs := make([]opts.ScatterData, len(res.Candles))
	lows := make([]opts.ScatterData, len(res.Candles))
	for i := range res.Candles {
		highs[i] = opts.ScatterData{Value: emptyValue}
		lows[i] = opts.ScatterData{Value: emptyValue}
	}
	for _, p := range res.Pivots {
		if p.Kind == models.PivotHigh {
			highs[p.Index] = opts.ScatterData{Value: p.Value, Name: "swing high"}
		} else {
			lows[p.Index] = opts.ScatterData{Value: p.Value, Name: "swing low"}
		}
	}
	pivots := charts.NewScatter()
	pivots.SetXAxis(x).
		AddSeries("swing highs", highs).
		AddSeries("swing lows", lows)

	marks := make([]opts.ScatterData, len(res.Candles))
	for i := range marks {
		marks[i] = opts.ScatterData{Value: emptyValue}
	}
	for _, p := range res.Patterns {
		marks[p.EndIndex] = opts.ScatterData{Value: res.Candles[p.EndIndex].Close, Name: p.Type.String()}
	}
	patternSeries := charts.NewScatter()
	patternSeries.SetXAxis(x).AddSeries("patterns", marks)

	kline.Overlap(ema, pivots, patternSeries)
	return kline
}

func rsiChart(res *analyze.Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "RSI"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "250px"}),
	)
	var rsi []float64
	if res.Frame != nil {
		rsi = res.Frame.RSI
	}
	line.SetXAxis(axis(res.Candles)).AddSeries("RSI", lineData(rsi))
	return line
}

func lineData(series []float64) []opts.LineData {
	out := make([]opts.LineData, len(series))
	for i, v := range series {
		if math.IsNaN(v) {
			out[i] = opts.LineData{Value: emptyValue}
			continue
		}
		out[i] = opts.LineData{Value: v}
	}
	return out
}
