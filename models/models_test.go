package models

import (
	"errors"
	"math"
	"testing"
)

func TestPipChange(t *testing.T) {
	tests := []struct {
		name       string
		pair       string
		start, end float64
		expected   float64
	}{
		{"EURUSD вверх", "EURUSD", 1.1000, 1.1025, 25},
		{"EURUSD вниз", "EURUSD", 1.1025, 1.1000, 25},
		{"USDJPY вверх", "USDJPY", 110.00, 110.25, 25},
		{"GBPJPY нижний регистр", "gbpjpy", 150.10, 150.00, 10},
		{"без движения", "EURUSD", 1.2, 1.2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PipChange(tt.start, tt.end, tt.pair)
			if got != tt.expected {
				t.Errorf("PipChange(%v, %v, %s) = %v, want %v", tt.start, tt.end, tt.pair, got, tt.expected)
			}
		})
	}
}

func TestPipUnit(t *testing.T) {
	if u := PipUnit("USDJPY"); u != 0.01 {
		t.Errorf("USDJPY unit = %v", u)
	}
	if u := PipUnit("EURUSD"); u != 0.0001 {
		t.Errorf("EURUSD unit = %v", u)
	}
}

func TestClamp01(t *testing.T) {
	cases := map[float64]float64{-1: 0, 0.4: 0.4, 3: 1, math.NaN(): 0, math.Inf(1): 1}
	for in, want := range cases {
		if got := Clamp01(in); got != want {
			t.Errorf("Clamp01(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestParseTimeframe(t *testing.T) {
	tf, err := ParseTimeframe("h4")
	if err != nil || tf != H4 {
		t.Fatalf("ParseTimeframe(h4) = %v, %v", tf, err)
	}
	if _, err := ParseTimeframe("H3"); !errors.Is(err, ErrUnknownTimeframe) {
		t.Errorf("expected ErrUnknownTimeframe, got %v", err)
	}
}

func TestCandlesForDays(t *testing.T) {
	tests := []struct {
		tf       Timeframe
		days     int
		expected int
	}{
		{H1, 10, 264},
		{M15, 1, 105},
		{D1, 30, 33},
		{MN1, 3, 1},
		{Timeframe("X"), 5, 0},
	}
	for _, tt := range tests {
		if got := CandlesForDays(tt.tf, tt.days); got != tt.expected {
			t.Errorf("CandlesForDays(%s, %d) = %d, want %d", tt.tf, tt.days, got, tt.expected)
		}
	}
}

func TestEnumText(t *testing.T) {
	b, _ := TriangleAscending.MarshalText()
	if string(b) != "triangle_ascending" {
		t.Errorf("got %s", b)
	}
	if Primary <= Intermediate || Minute <= Minuette {
		t.Error("degrees must be ordered")
	}
	if DirectionOf(1, 2) != Up || DirectionOf(2, 1) != Down {
		t.Error("DirectionOf")
	}
}
