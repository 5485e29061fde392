package analysis

import (
	"math"

	"walkforward-lab/internal/domain"
)

// Stability computes per-parameter distribution statistics across the
// parameter sets each window selected. A parameter chosen identically
// in every window has zero standard deviation and zero CV: the
// hallmark of a stable optimum. CV is zero whenever the mean is not
// positive, since a ratio to a non-positive mean has no meaning.
func Stability(selections []domain.ParameterSet) map[string]domain.ParameterStability {
	out := make(map[string]domain.ParameterStability)
	if len(selections) == 0 {
		return out
	}

	byName := make(map[string][]float64)
	for _, sel := range selections {
		for name, v := range sel {
			byName[name] = append(byName[name], v)
		}
	}

	for name, values := range byName {
		st := domain.ParameterStability{
			Min: values[0],
			Max: values[0],
		}
		sum := 0.0
		for _, v := range values {
			sum += v
			if v < st.Min {
				st.Min = v
			}
			if v > st.Max {
				st.Max = v
			}
		}
		st.Mean = sum / float64(len(values))

		sumSq := 0.0
		for _, v := range values {
			d := v - st.Mean
			sumSq += d * d
		}
		st.Std = math.Sqrt(sumSq / float64(len(values)))

		if st.Mean > 0 {
			st.CV = st.Std / st.Mean
		}
		out[name] = st
	}
	return out
}
