// Package series validates externally supplied daily bar sequences
// before any simulation runs. Malformed series fail fast with
// domain.ErrDataIntegrity; they are never discovered mid-run.
package series

import (
	"fmt"
	"math"

	"walkforward-lab/internal/domain"
)

// Validate asserts that bars form a well-formed chronological series:
// strictly ascending unique dates, positive prices, non-negative
// volume, and High >= Low on every bar. Gaps between dates are
// tolerated (weekends, holidays).
func Validate(bars []domain.PriceBar) error {
	if len(bars) == 0 {
		return fmt.Errorf("%w: empty price series", domain.ErrDataIntegrity)
	}

	for i, b := range bars {
		if err := validateBar(i, b); err != nil {
			return err
		}
		if i > 0 && b.Date <= bars[i-1].Date {
			return fmt.Errorf("%w: non-monotonic date at bar %d (%d <= %d)",
				domain.ErrDataIntegrity, i, b.Date, bars[i-1].Date)
		}
	}

	return nil
}

// validateBar checks a single bar's prices and volume.
func validateBar(i int, b domain.PriceBar) error {
	prices := [...]struct {
		name  string
		value float64
	}{
		{"open", b.Open},
		{"high", b.High},
		{"low", b.Low},
		{"close", b.Close},
	}

	for _, p := range prices {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: non-finite %s at bar %d", domain.ErrDataIntegrity, p.name, i)
		}
		if p.value <= 0 {
			return fmt.Errorf("%w: non-positive %s at bar %d", domain.ErrDataIntegrity, p.name, i)
		}
	}

	if b.High < b.Low {
		return fmt.Errorf("%w: high below low at bar %d", domain.ErrDataIntegrity, i)
	}
	if b.Volume < 0 {
		return fmt.Errorf("%w: negative volume at bar %d", domain.ErrDataIntegrity, i)
	}

	return nil
}
