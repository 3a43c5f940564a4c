package waves

import (
	"fmt"

	"github.com/Alias1177/wavescope/models"
)

var retracementRatios = []float64{0.236, 0.382, 0.5, 0.618, 0.786, 1.0, 1.272, 1.618, 2.618}
var extensionRatios = []float64{1.272, 1.618, 2.618}

// Level is one Fibonacci price level projected from a wave.
type Level struct {
	Name  string  `json:"name"`
	Ratio float64 `json:"ratio"`
	Price float64 `json:"price"`
}

// FibonacciLevels returns retracements of w measured back from its end,
// followed by extensions projected from its start. Signs follow the leg.
func FibonacciLevels(w models.Wave) []Level {
	rng := w.EndPrice - w.StartPrice
	levels := make([]Level, 0, len(retracementRatios)+len(extensionRatios))

	for _, r := range retracementRatios {
		levels = append(levels, Level{Name: fmt.Sprintf("ret_%g", r), Ratio: r, Price: w.EndPrice - rng*r})
	}
	for _, r := range extensionRatios {
		levels = append(levels, Level{Name: fmt.Sprintf("ext_%g", r), Ratio: r, Price: w.StartPrice + rng*r})
	}
	return levels
}

// Summary counts waves by type and label.
type Summary struct {
	Total      int            `json:"total_waves"`
	Impulse    int            `json:"impulse_count"`
	Corrective int            `json:"corrective_count"`
	ByLabel    map[string]int `json:"wave_numbers"`
}

func Summarize(waves []models.Wave) Summary {
	s := Summary{Total: len(waves), ByLabel: make(map[string]int)}
	for _, w := range waves {
		switch w.Type {
		case models.Impulse:
			s.Impulse++
		case models.Correction:
			s.Corrective++
		}
		s.ByLabel[w.Label]++
	}
	return s
}
