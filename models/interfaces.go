package models

import "context"

// CandleSource supplies an ascending bar table for one symbol and timeframe.
type CandleSource interface {
	FetchCandles(ctx context.Context, symbol string, tf Timeframe, count int) ([]Candle, error)
}
