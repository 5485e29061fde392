// Package window partitions bar history into anchored train/test
// window pairs for walk-forward analysis.
package window

import (
	"fmt"

	"walkforward-lab/internal/domain"
)

// Generate produces the ordered sequence of anchored windows for a
// series of totalBars bars. The train span always starts at bar 0; only
// the train end and the test bounds advance by stepLength per
// iteration. A truncated final test window is never emitted.
//
// Returns domain.ErrConfiguration when the sizing is infeasible: zero
// feasible windows, or non-positive lengths.
func Generate(totalBars, trainLength, testLength, stepLength int) ([]domain.Window, error) {
	if trainLength <= 0 || testLength <= 0 || stepLength <= 0 {
		return nil, fmt.Errorf("%w: window lengths must be positive (train=%d test=%d step=%d)",
			domain.ErrConfiguration, trainLength, testLength, stepLength)
	}
	if trainLength+testLength > totalBars {
		return nil, fmt.Errorf("%w: train+test (%d) exceeds available bars (%d)",
			domain.ErrConfiguration, trainLength+testLength, totalBars)
	}

	var windows []domain.Window
	for trainEnd := trainLength - 1; trainEnd+testLength < totalBars; trainEnd += stepLength {
		windows = append(windows, domain.Window{
			TrainStart: 0,
			TrainEnd:   trainEnd,
			TestStart:  trainEnd + 1,
			TestEnd:    trainEnd + testLength,
		})
	}

	return windows, nil
}
