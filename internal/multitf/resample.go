package multitf

import (
	"time"

	"github.com/Alias1177/wavescope/models"
)

// Resample aggregates ascending base candles into tf buckets. Intraday, daily
// and weekly buckets are aligned to UTC multiples of the bar length, MN1
// buckets to calendar months. The leading bucket is kept only when its first
// base bar opens it and the trailing one only when its last base bar closes
// it, so a series that starts mid-bucket or ends inside an open bar never
// produces a partial higher-timeframe bar. Buckets in between are closed by
// the bars that follow them, weekend gaps included.
func Resample(candles []models.Candle, base, tf models.Timeframe) []models.Candle {
	step := tf.Duration()
	baseStep := base.Duration()
	if step == 0 || baseStep == 0 || step < baseStep || len(candles) == 0 {
		return nil
	}
	if step == baseStep {
		return append([]models.Candle(nil), candles...)
	}

	var out []models.Candle
	var cur models.Candle
	var bucket, firstBar, lastBar time.Time
	open, leading := false, true

	flush := func(trailing bool) {
		if !open {
			return
		}
		// незакрытые края отбрасываются
		switch {
		case leading && firstBar.Sub(bucket) >= baseStep:
		case trailing && lastBar.Add(baseStep).Before(bucketEnd(bucket, tf)):
		default:
			out = append(out, cur)
		}
		leading = false
	}

	for _, c := range candles {
		b := bucketStart(c.Timestamp, tf)
		if !open || !b.Equal(bucket) {
			flush(false)
			bucket, open = b, true
			cur = models.Candle{Timestamp: b, Open: c.Open, High: c.High, Low: c.Low, Close: c.Close, Volume: c.Volume}
			firstBar, lastBar = c.Timestamp, c.Timestamp
			continue
		}
		cur.High = max(cur.High, c.High)
		cur.Low = min(cur.Low, c.Low)
		cur.Close = c.Close
		cur.Volume += c.Volume
		lastBar = c.Timestamp
	}
	flush(true)
	return out
}

func bucketStart(t time.Time, tf models.Timeframe) time.Time {
	t = t.UTC()
	if tf == models.MN1 {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return t.Truncate(tf.Duration())
}

func bucketEnd(start time.Time, tf models.Timeframe) time.Time {
	if tf == models.MN1 {
		return start.AddDate(0, 1, 0)
	}
	return start.Add(tf.Duration())
}
