package domain

// Window is one anchored train/test split, expressed as inclusive bar
// indices into the full series. TrainStart is always 0 in anchored mode
// and TestStart equals TrainEnd + 1 (no overlap).
type Window struct {
	TrainStart int
	TrainEnd   int
	TestStart  int
	TestEnd    int
}

// TrainLen returns the number of bars in the train span.
func (w Window) TrainLen() int { return w.TrainEnd - w.TrainStart + 1 }

// TestLen returns the number of bars in the test span.
func (w Window) TestLen() int { return w.TestEnd - w.TestStart + 1 }

// WindowResult holds the per-window outcome of a walk-forward step.
// Trade slices are owned by the result and never shared between windows.
type WindowResult struct {
	WindowID int
	Window   Window

	BestParams ParameterSet
	BestScore  float64

	TrainMetrics Metrics
	TestMetrics  Metrics
	Degradation  Degradation

	TrainTrades []Trade
	TestTrades  []Trade
}
