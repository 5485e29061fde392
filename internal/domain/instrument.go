package domain

// Instrument identifies one tradable symbol whose daily bars are stored.
type Instrument struct {
	InstrumentID string // deterministic hash of symbol|exchange
	Symbol       string
	Exchange     string
	FirstBarDate int64 // Unix ms of earliest stored bar
	LastBarDate  int64 // Unix ms of latest stored bar
	BarCount     int
}
