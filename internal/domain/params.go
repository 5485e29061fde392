package domain

import "sort"

// ParameterSet maps parameter name to its numeric value.
// Immutable once selected for a run: callers receive copies via Clone.
type ParameterSet map[string]float64

// Clone returns an independent copy of the parameter set.
func (p ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ParameterGrid maps parameter name to its ordered candidate values.
// The optimizer enumerates the Cartesian product of all candidates.
type ParameterGrid map[string][]float64

// Names returns parameter names in lexical order.
// Enumeration order must be deterministic for reproducible tie-breaks.
func (g ParameterGrid) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the number of combinations in the Cartesian product.
// Returns 0 if the grid is empty or any parameter has no candidates.
func (g ParameterGrid) Size() int {
	if len(g) == 0 {
		return 0
	}
	size := 1
	for _, values := range g {
		if len(values) == 0 {
			return 0
		}
		size *= len(values)
	}
	return size
}

// Medians returns the element-wise median of each parameter's candidates.
// Used as the optimizer fallback when no combination produces a trade.
func (g ParameterGrid) Medians() ParameterSet {
	out := make(ParameterSet, len(g))
	for name, values := range g {
		if len(values) == 0 {
			continue
		}
		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)
		n := len(sorted)
		if n%2 == 1 {
			out[name] = sorted[n/2]
		} else {
			out[name] = (sorted[n/2-1] + sorted[n/2]) / 2
		}
	}
	return out
}

// Parameter name constants shared by the built-in rule-sets.
const (
	ParamTrailingStopPct   = "trailing_stop_pct"   // trailing stop distance in percent
	ParamMomentumThreshold = "momentum_threshold"  // momentum deterioration exit level (%)
	ParamTrendDaysBelow    = "ma200_days_below"    // consecutive closes below trend before exit
	ParamMomentumEntryMin  = "momentum_entry_min"  // minimum momentum for entry (%)
	ParamCompositeEntryMin = "composite_entry_min" // minimum composite momentum for entry (%)
)

// DefaultParameterGrid is the canonical search space for the momentum
// trend rule-set.
func DefaultParameterGrid() ParameterGrid {
	return ParameterGrid{
		ParamTrailingStopPct:   {5, 10, 15},
		ParamMomentumThreshold: {-10, -5, 0},
		ParamTrendDaysBelow:    {3, 5, 10},
		ParamMomentumEntryMin:  {0, 5, 10},
	}
}
