package domain

import "errors"

// Fatal pre-run error categories. Both abort the entire run before any
// simulation starts; no partial results are produced.
var (
	// ErrDataIntegrity indicates malformed bars: non-monotonic dates or
	// non-positive prices.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrConfiguration indicates an infeasible run configuration:
	// window sizing exceeding available history or an empty grid.
	ErrConfiguration = errors.New("invalid configuration")
)
