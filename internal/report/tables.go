// Package report renders analysis results as console tables and HTML charts.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Alias1177/wavescope/internal/analyze"
	"github.com/Alias1177/wavescope/internal/patterns"
	"github.com/Alias1177/wavescope/models"
)

// Limit caps long sections to their most recent rows.
const Limit = 10

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func price(v float64) string { return fmt.Sprintf("%.5f", v) }

func optPrice(v *float64) string {
	if v == nil {
		return "-"
	}
	return price(*v)
}

func optFloat(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f", prec, *v)
}

func tail[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[len(items)-n:]
	}
	return items
}

// Render writes every section of res.
func Render(w io.Writer, res *analyze.Result) {
	Summary(w, res)
	Waves(w, tail(res.Waves, Limit))
	Trends(w, tail(res.Trends, 3))
	Patterns(w, res.Patterns)
	Divergences(w, tail(res.Divergences, Limit))
	Convergences(w, tail(res.Convergences, Limit))
	PipMovements(w, tail(res.PipMovements, 5))
}

func Summary(w io.Writer, res *analyze.Result) {
	t := newTable(w, fmt.Sprintf("%s %s: %d bars", res.Pair, res.Timeframe, res.Bars))
	l := res.Latest
	t.AppendRows([]table.Row{
		{"Close", price(l.Close)},
		{"RSI", optFloat(l.RSI, 2)},
		{"MACD / signal", optFloat(l.MACD, 6) + " / " + optFloat(l.Signal, 6)},
		{"Stochastic %K / %D", optFloat(l.StochK, 2) + " / " + optFloat(l.StochD, 2)},
	})
	t.AppendSeparator()
	s := res.WaveSummary
	t.AppendRows([]table.Row{
		{"Waves", fmt.Sprintf("%d (impulse %d, corrective %d)", s.Total, s.Impulse, s.Corrective)},
		{"Patterns", len(res.Patterns)},
		{"Divergences", len(res.Divergences)},
		{"Convergences", len(res.Convergences)},
		{"Pip movements", len(res.PipMovements)},
	})
	t.AppendFooter(table.Row{"Bias", strings.ToUpper(res.Bias.String())})
	t.Render()
}

func Waves(w io.Writer, ws []models.Wave) {
	if len(ws) == 0 {
		fmt.Fprintln(w, "No clear wave patterns detected yet")
		return
	}
	t := newTable(w, "Elliott waves")
	t.AppendHeader(table.Row{"Wave", "Type", "Dir", "Degree", "Bars", "Start", "End", "Change %", "Fib"})
	for _, wv := range ws {
		t.AppendRow(table.Row{
			wv.Label, wv.Type, wv.Direction, wv.Degree,
			fmt.Sprintf("%d-%d", wv.StartIndex, wv.EndIndex),
			price(wv.StartPrice), price(wv.EndPrice),
			fmt.Sprintf("%.2f", wv.LengthPercent()),
			optFloat(wv.FibonacciRatio, 3),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 8, Align: text.AlignRight}})
	t.Render()
}

func Trends(w io.Writer, moves []patterns.TrendMove) {
	if len(moves) == 0 {
		return
	}
	t := newTable(w, "Trends")
	t.AppendHeader(table.Row{"Direction", "Strength", "Bars", "Start", "End", "Change %", "R²"})
	for _, m := range moves {
		t.AppendRow(table.Row{
			m.Direction, m.Strength,
			fmt.Sprintf("%d-%d", m.StartIndex, m.EndIndex),
			price(m.StartPrice), price(m.EndPrice),
			fmt.Sprintf("%+.2f", m.PercentChange()),
			fmt.Sprintf("%.3f", m.RSquared),
		})
	}
	t.Render()
}

func Patterns(w io.Writer, ps []models.ChartPattern) {
	if len(ps) == 0 {
		fmt.Fprintln(w, "No patterns detected")
		return
	}
	t := newTable(w, "Chart patterns")
	t.AppendHeader(table.Row{"Pattern", "Bars", "Confidence", "Target", "Stop"})
	for _, p := range ps {
		t.AppendRow(table.Row{
			p.Type,
			fmt.Sprintf("%d-%d", p.StartIndex, p.EndIndex),
			fmt.Sprintf("%.2f", p.Confidence),
			optPrice(p.TargetPrice),
			optPrice(p.StopLoss),
		})
	}
	t.Render()
}

func Divergences(w io.Writer, ds []models.Divergence) {
	if len(ds) == 0 {
		return
	}
	t := newTable(w, "Divergences")
	t.AppendHeader(table.Row{"Type", "Indicator", "Bars", "Price", "Indicator values", "Strength"})
	for _, d := range ds {
		t.AppendRow(table.Row{
			d.Type, d.Indicator,
			fmt.Sprintf("%d-%d", d.StartIndex, d.EndIndex),
			price(d.PricePoints[0].Price) + " → " + price(d.PricePoints[1].Price),
			fmt.Sprintf("%.4f → %.4f", d.IndicatorPoints[0].Price, d.IndicatorPoints[1].Price),
			fmt.Sprintf("%.2f", d.Strength),
		})
	}
	t.Render()
}

func Convergences(w io.Writer, cs []models.Convergence) {
	if len(cs) == 0 {
		return
	}
	t := newTable(w, "Convergences")
	t.AppendHeader(table.Row{"Type", "Bar", "Signal", "Price", "Strength"})
	for _, c := range cs {
		t.AppendRow(table.Row{c.Type, c.Index, c.Direction, price(c.Price), fmt.Sprintf("%.2f", c.Strength)})
	}
	t.Render()
}

func PipMovements(w io.Writer, ms []models.PipMovement) {
	if len(ms) == 0 {
		return
	}
	t := newTable(w, "Pip movements")
	t.AppendHeader(table.Row{"Timeframe", "Dir", "Pips", "From", "To", "Start", "End"})
	for _, m := range ms {
		t.AppendRow(table.Row{
			m.Timeframe, m.Direction,
			fmt.Sprintf("%.1f", m.PipChange),
			price(m.StartPrice), price(m.EndPrice),
			m.StartTime.Format("2006-01-02 15:04"), m.EndTime.Format("2006-01-02 15:04"),
		})
	}
	t.Render()
}

// TimeframeSignals lists cross-timeframe convergences.
func TimeframeSignals(w io.Writer, signals []models.TimeframeSignal) {
	if len(signals) == 0 {
		fmt.Fprintln(w, "No cross-timeframe convergence")
		return
	}
	t := newTable(w, "Cross-timeframe convergence")
	t.AppendHeader(table.Row{"Pair", "Timeframes", "Dir", "Strength", "Time"})
	for _, s := range signals {
		t.AppendRow(table.Row{
			s.Pair, s.Timeframes[0] + " + " + s.Timeframes[1], s.Direction,
			fmt.Sprintf("%.2f", s.Strength), s.Timestamp.Format("2006-01-02 15:04"),
		})
	}
	t.Render()
}
