// Package optimizer performs brute-force parameter search over a
// declared grid, scoring each combination with a multi-objective
// function.
package optimizer

import (
	"walkforward-lab/internal/domain"
)

// Enumerator walks the Cartesian product of a grid lazily, in row-major
// order over lexically sorted parameter names. The full product is
// never materialized, bounding peak memory for large grids, and the
// sequence is restartable via Reset.
type Enumerator struct {
	names   []string
	values  [][]float64
	indices []int
	done    bool
}

// NewEnumerator creates an enumerator over the grid. A grid with no
// parameters or an empty candidate list yields an exhausted enumerator.
func NewEnumerator(grid domain.ParameterGrid) *Enumerator {
	names := grid.Names()
	e := &Enumerator{
		names:   names,
		values:  make([][]float64, len(names)),
		indices: make([]int, len(names)),
	}
	for i, name := range names {
		e.values[i] = grid[name]
		if len(e.values[i]) == 0 {
			e.done = true
		}
	}
	if len(names) == 0 {
		e.done = true
	}
	return e
}

// Next returns the next combination, or false when exhausted. The
// returned set is a fresh copy each call.
func (e *Enumerator) Next() (domain.ParameterSet, bool) {
	if e.done {
		return nil, false
	}

	params := make(domain.ParameterSet, len(e.names))
	for i, name := range e.names {
		params[name] = e.values[i][e.indices[i]]
	}

	// Advance odometer: rightmost name varies fastest.
	for i := len(e.indices) - 1; i >= 0; i-- {
		e.indices[i]++
		if e.indices[i] < len(e.values[i]) {
			return params, true
		}
		e.indices[i] = 0
	}
	e.done = true

	return params, true
}

// Reset restarts enumeration from the first combination.
func (e *Enumerator) Reset() {
	for i := range e.indices {
		e.indices[i] = 0
	}
	e.done = len(e.names) == 0
	for _, v := range e.values {
		if len(v) == 0 {
			e.done = true
		}
	}
}
