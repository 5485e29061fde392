package domain

// PriceBar represents one daily OHLCV bar for a single instrument.
// Bars are addressed by sequence index within a validated series.
type PriceBar struct {
	Date   int64   // Unix timestamp in milliseconds (UTC midnight)
	Open   float64 // opening price
	High   float64 // session high
	Low    float64 // session low
	Close  float64 // closing price
	Volume float64 // traded volume
}

// MillisPerDay is the number of milliseconds in one calendar day.
const MillisPerDay = int64(24 * 60 * 60 * 1000)
