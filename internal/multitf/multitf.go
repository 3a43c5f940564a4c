// Package multitf searches each timeframe for close-to-close moves inside a
// pip band and correlates same-direction moves across timeframes.
package multitf

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Alias1177/wavescope/models"
)

const (
	DefaultMinPips = 20
	DefaultMaxPips = 30
)

// Correlator holds the pip band and the timeframes to scan, in order.
type Correlator struct {
	Pair       string
	MinPips    float64
	MaxPips    float64
	Timeframes []models.Timeframe
}

func NewCorrelator(pair string, minPips, maxPips float64, timeframes []models.Timeframe) *Correlator {
	if maxPips <= 0 || minPips > maxPips {
		minPips, maxPips = DefaultMinPips, DefaultMaxPips
	}
	return &Correlator{Pair: pair, MinPips: minPips, MaxPips: maxPips, Timeframes: timeframes}
}

// TimeframeMovements groups the movements found on one timeframe.
type TimeframeMovements struct {
	Timeframe models.Timeframe     `json:"timeframe"`
	Movements []models.PipMovement `json:"movements"`
}

// Movements records at most one move per start bar: the first later bar whose
// close lands inside [MinPips, MaxPips]. The forward scan stops once the move
// exceeds MaxPips.
func (c *Correlator) Movements(candles []models.Candle, tf models.Timeframe) []models.PipMovement {
	var out []models.PipMovement
	for i := 0; i+1 < len(candles); i++ {
		start := candles[i]
		for j := i + 1; j < len(candles); j++ {
			end := candles[j]
			pips := models.PipChange(start.Close, end.Close, c.Pair)
			if pips > c.MaxPips {
				break
			}
			if pips < c.MinPips {
				continue
			}
			out = append(out, models.PipMovement{
				Pair:       c.Pair,
				Timeframe:  tf.String(),
				StartTime:  start.Timestamp,
				EndTime:    end.Timestamp,
				StartPrice: start.Close,
				EndPrice:   end.Close,
				PipChange:  pips,
				Direction:  models.DirectionOf(start.Close, end.Close),
			})
			break
		}
	}
	return out
}

// AnalyzeAll scans every configured timeframe present in data. Timeframes are
// independent so they run concurrently; the result keeps configured order.
func (c *Correlator) AnalyzeAll(ctx context.Context, data map[models.Timeframe][]models.Candle) ([]TimeframeMovements, error) {
	var present []models.Timeframe
	for _, tf := range c.Timeframes {
		if _, ok := data[tf]; ok {
			present = append(present, tf)
		}
	}

	results := make([]TimeframeMovements, len(present))
	g, ctx := errgroup.WithContext(ctx)
	for i, tf := range present {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = TimeframeMovements{Timeframe: tf, Movements: c.Movements(data[tf], tf)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Convergence pairs same-direction movements with overlapping time spans on
// every ordered pair of distinct timeframes, so an overlap between M15 and H1
// is reported once as [M15 H1] and once as [H1 M15].
func (c *Correlator) Convergence(results []TimeframeMovements) []models.TimeframeSignal {
	var signals []models.TimeframeSignal
	for a := 0; a < len(results); a++ {
		for b := 0; b < len(results); b++ {
			if a == b || results[a].Timeframe == results[b].Timeframe {
				continue
			}
			for _, m1 := range results[a].Movements {
				for _, m2 := range results[b].Movements {
					if m1.Direction != m2.Direction || !overlap(m1, m2) {
						continue
					}
					ts := m1.StartTime
					if m2.StartTime.After(ts) {
						ts = m2.StartTime
					}
					signals = append(signals, models.TimeframeSignal{
						Pair:       c.Pair,
						Timeframes: [2]string{results[a].Timeframe.String(), results[b].Timeframe.String()},
						Direction:  m1.Direction,
						Strength:   c.strength(m1, m2),
						Timestamp:  ts,
					})
				}
			}
		}
	}
	return signals
}

func overlap(a, b models.PipMovement) bool {
	return !a.StartTime.After(b.EndTime) && !b.StartTime.After(a.EndTime)
}

func (c *Correlator) strength(a, b models.PipMovement) float64 {
	if c.MaxPips <= 0 {
		return 0
	}
	return models.Clamp01((a.PipChange + b.PipChange) / 2 / c.MaxPips)
}
