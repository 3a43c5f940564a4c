package analyze

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Alias1177/wavescope/internal/feed"
	"github.com/Alias1177/wavescope/internal/patterns"
	"github.com/Alias1177/wavescope/models"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func inUnit(v float64) bool { return v >= 0 && v <= 1 }

func TestRunEmptyAndShortInput(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"пустая таблица", 0},
		{"одна свеча", 1},
		{"меньше окна", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candles := feed.Generate(rand.New(rand.NewSource(1)), "EURUSD", testStart, time.Hour, tt.n)
			res := Run(candles, Options{Pair: "EURUSD"})
			if res.Bars != tt.n {
				t.Errorf("bars = %d, want %d", res.Bars, tt.n)
			}
			if len(res.Waves)+len(res.Patterns)+len(res.Divergences)+len(res.Convergences) != 0 {
				t.Errorf("expected no structure, got %d waves %d patterns", len(res.Waves), len(res.Patterns))
			}
			if res.Bias != Neutral {
				t.Errorf("bias = %v, want neutral", res.Bias)
			}
			if tt.n > 0 && res.Latest.RSI != nil {
				t.Errorf("RSI should be undefined during warm-up, got %v", *res.Latest.RSI)
			}
		})
	}
}

func TestRunDefaults(t *testing.T) {
	candles := feed.Generate(rand.New(rand.NewSource(3)), "GBPUSD", testStart, time.Hour, 300)
	res := Run(candles, Options{Pair: "GBPUSD"})

	if res.Timeframe != models.H1 {
		t.Errorf("timeframe = %v, want H1", res.Timeframe)
	}
	if res.Frame == nil || res.Frame.Len() != 300 {
		t.Fatal("frame not computed for every bar")
	}
	if res.Latest.RSI == nil || res.Latest.MACD == nil || res.Latest.Close != candles[299].Close {
		t.Errorf("latest snapshot incomplete: %+v", res.Latest)
	}
	if res.WaveSummary.Total != len(res.Waves) {
		t.Errorf("summary total %d, waves %d", res.WaveSummary.Total, len(res.Waves))
	}

	again := Run(candles, Options{Pair: "GBPUSD"})
	if len(again.Waves) != len(res.Waves) || len(again.Patterns) != len(res.Patterns) ||
		len(again.Divergences) != len(res.Divergences) || len(again.PipMovements) != len(res.PipMovements) {
		t.Error("repeated run differs")
	}
	if again.Bias != res.Bias {
		t.Errorf("bias %v vs %v", again.Bias, res.Bias)
	}
}

// Every score stays inside [0,1] and every structural ordering holds on
// randomly generated tables.
func TestRunBoundsOnRandomTables(t *testing.T) {
	pairs := []string{"EURUSD", "USDJPY", "EURGBP"}
	rng := rand.New(rand.NewSource(20240101))

	for run := 0; run < 1000; run++ {
		pair := pairs[run%len(pairs)]
		n := 60 + rng.Intn(200)
		candles := feed.Generate(rand.New(rand.NewSource(rng.Int63())), pair, testStart, 15*time.Minute, n)
		res := Run(candles, Options{Pair: pair, Timeframe: models.M15})

		for i := 1; i < len(res.Pivots); i++ {
			if res.Pivots[i].Index <= res.Pivots[i-1].Index {
				t.Fatalf("run %d: pivot indices not increasing at %d", run, i)
			}
		}
		for i, w := range res.Waves {
			if i > 0 && w.StartIndex < res.Waves[i-1].StartIndex {
				t.Fatalf("run %d: waves not sorted", run)
			}
			if w.Parent >= len(res.Waves) {
				t.Fatalf("run %d: parent %d out of range", run, w.Parent)
			}
		}
		for _, p := range res.Patterns {
			if !inUnit(p.Confidence) {
				t.Fatalf("run %d: %v confidence %v", run, p.Type, p.Confidence)
			}
			if p.EndIndex < p.StartIndex || p.EndIndex >= n {
				t.Fatalf("run %d: %v span [%d,%d]", run, p.Type, p.StartIndex, p.EndIndex)
			}
		}
		for _, d := range res.Divergences {
			if !inUnit(d.Strength) {
				t.Fatalf("run %d: divergence strength %v", run, d.Strength)
			}
		}
		for _, c := range res.Convergences {
			if !inUnit(c.Strength) {
				t.Fatalf("run %d: convergence strength %v", run, c.Strength)
			}
		}
		for _, m := range res.PipMovements {
			if m.PipChange < 20-1e-9 || m.PipChange > 30+1e-9 {
				t.Fatalf("run %d: pip change %v outside band", run, m.PipChange)
			}
		}
	}
}

func TestComputeBias(t *testing.T) {
	up := models.Wave{Direction: models.Up}
	down := models.Wave{Direction: models.Down}
	trend := func(d patterns.TrendDirection) []patterns.TrendMove {
		return []patterns.TrendMove{{Direction: d}}
	}

	tests := []struct {
		name   string
		waves  []models.Wave
		trends []patterns.TrendMove
		want   Bias
	}{
		{"нет данных", nil, nil, Neutral},
		{"волны вверх и восходящий тренд", []models.Wave{up, up, down}, trend(patterns.Uptrend), Bullish},
		{"волны вниз и нисходящий тренд", []models.Wave{down, down, up}, trend(patterns.Downtrend), Bearish},
		{"перевес ровно в два голоса", []models.Wave{up, up}, nil, Neutral},
		{"учитываются только последние пять волн", []models.Wave{down, down, down, down, up, up, up, up, up}, nil, Bullish},
		{"боковик не голосует", []models.Wave{up, up, up, down}, trend(patterns.Sideways), Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeBias(tt.waves, tt.trends); got != tt.want {
				t.Errorf("ComputeBias() = %v, want %v", got, tt.want)
			}
		})
	}
}
