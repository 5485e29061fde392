// Package analysis derives overfitting diagnostics from walk-forward
// window results: out-of-sample degradation ratios and parameter
// stability statistics.
package analysis

import (
	"walkforward-lab/internal/domain"
)

// DegradationRatios compares test metrics against train metrics for
// one window. Each ratio is test/train; a zero or negative train value
// yields a zero ratio rather than a blow-up. Overall is the mean of
// the three component ratios.
func DegradationRatios(train, test domain.Metrics) domain.Degradation {
	d := domain.Degradation{
		SharpeRatio:  ratio(test.SharpeRatio, train.SharpeRatio),
		WinRate:      ratio(test.WinRate, train.WinRate),
		ProfitFactor: ratio(test.ProfitFactor, train.ProfitFactor),
	}
	d.Overall = (d.SharpeRatio + d.WinRate + d.ProfitFactor) / 3
	return d
}

// MeanDegradation averages per-window degradation records. An empty
// input yields the zero record.
func MeanDegradation(list []domain.Degradation) domain.Degradation {
	if len(list) == 0 {
		return domain.Degradation{}
	}

	var agg domain.Degradation
	for _, d := range list {
		agg.SharpeRatio += d.SharpeRatio
		agg.WinRate += d.WinRate
		agg.ProfitFactor += d.ProfitFactor
		agg.Overall += d.Overall
	}
	n := float64(len(list))
	agg.SharpeRatio /= n
	agg.WinRate /= n
	agg.ProfitFactor /= n
	agg.Overall /= n
	return agg
}

func ratio(test, train float64) float64 {
	if train <= 0 {
		return 0
	}
	return test / train
}
