package series

import (
	"errors"
	"testing"

	"walkforward-lab/internal/domain"
)

func validBars(n int) []domain.PriceBar {
	bars := make([]domain.PriceBar, n)
	for i := range bars {
		price := 100.0 + float64(i)
		bars[i] = domain.PriceBar{
			Date:   int64(i+1) * domain.MillisPerDay,
			Open:   price,
			High:   price * 1.01,
			Low:    price * 0.99,
			Close:  price,
			Volume: 1000,
		}
	}
	return bars
}

func TestValidate_WellFormedSeries(t *testing.T) {
	if err := Validate(validBars(10)); err != nil {
		t.Fatalf("Validate failed on well-formed series: %v", err)
	}
}

func TestValidate_EmptySeries(t *testing.T) {
	err := Validate(nil)
	if !errors.Is(err, domain.ErrDataIntegrity) {
		t.Errorf("expected ErrDataIntegrity, got %v", err)
	}
}

func TestValidate_NonMonotonicDates(t *testing.T) {
	bars := validBars(5)
	bars[3].Date = bars[2].Date // duplicate date

	err := Validate(bars)
	if !errors.Is(err, domain.ErrDataIntegrity) {
		t.Errorf("expected ErrDataIntegrity for duplicate date, got %v", err)
	}

	bars = validBars(5)
	bars[3].Date = bars[1].Date // date going backwards

	err = Validate(bars)
	if !errors.Is(err, domain.ErrDataIntegrity) {
		t.Errorf("expected ErrDataIntegrity for backwards date, got %v", err)
	}
}

func TestValidate_NonPositivePrice(t *testing.T) {
	bars := validBars(5)
	bars[2].Close = 0

	if err := Validate(bars); !errors.Is(err, domain.ErrDataIntegrity) {
		t.Errorf("expected ErrDataIntegrity for zero close, got %v", err)
	}

	bars = validBars(5)
	bars[4].Low = -1

	if err := Validate(bars); !errors.Is(err, domain.ErrDataIntegrity) {
		t.Errorf("expected ErrDataIntegrity for negative low, got %v", err)
	}
}

func TestValidate_HighBelowLow(t *testing.T) {
	bars := validBars(5)
	bars[1].High = bars[1].Low - 1

	if err := Validate(bars); !errors.Is(err, domain.ErrDataIntegrity) {
		t.Errorf("expected ErrDataIntegrity for high < low, got %v", err)
	}
}

func TestValidate_GapsTolerated(t *testing.T) {
	bars := validBars(5)
	// Weekend-sized gap between bars 2 and 3
	for i := 3; i < len(bars); i++ {
		bars[i].Date += 2 * domain.MillisPerDay
	}

	if err := Validate(bars); err != nil {
		t.Errorf("gap-tolerant validation failed: %v", err)
	}
}
