package ingestion

import (
	"context"
	"fmt"
	"log"
	"os"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/idhash"
	"walkforward-lab/internal/observability"
	"walkforward-lab/internal/series"
	"walkforward-lab/internal/storage"
)

// Loader validates CSV histories and registers them in storage.
type Loader struct {
	instruments storage.InstrumentStore
	bars        storage.PriceBarStore
	verbose     bool
}

// Options for creating Loader.
type Options struct {
	InstrumentStore storage.InstrumentStore
	PriceBarStore   storage.PriceBarStore
	Verbose         bool
}

// NewLoader creates a new Loader.
func NewLoader(opts Options) *Loader {
	return &Loader{
		instruments: opts.InstrumentStore,
		bars:        opts.PriceBarStore,
		verbose:     opts.Verbose,
	}
}

// LoadFile ingests one CSV file as the full history of an instrument.
// The series is validated before anything is stored, so a bad file
// leaves no partial state.
func (l *Loader) LoadFile(ctx context.Context, path, symbol, exchange string) (*domain.Instrument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	bars, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return l.Load(ctx, symbol, exchange, bars)
}

// Load registers an instrument and its bar history.
func (l *Loader) Load(ctx context.Context, symbol, exchange string, bars []domain.PriceBar) (*domain.Instrument, error) {
	if err := series.Validate(bars); err != nil {
		observability.RecordBarRejected("integrity")
		return nil, err
	}

	ins := &domain.Instrument{
		InstrumentID: idhash.ComputeInstrumentID(symbol, exchange),
		Symbol:       symbol,
		Exchange:     exchange,
		FirstBarDate: bars[0].Date,
		LastBarDate:  bars[len(bars)-1].Date,
		BarCount:     len(bars),
	}

	if err := l.instruments.Insert(ctx, ins); err != nil {
		return nil, fmt.Errorf("insert instrument %s: %w", symbol, err)
	}
	if err := l.bars.InsertBulk(ctx, ins.InstrumentID, bars); err != nil {
		return nil, fmt.Errorf("insert bars for %s: %w", symbol, err)
	}

	observability.RecordBarsIngested(len(bars))
	observability.DefaultMetrics.InstrumentsSeen.Inc()
	l.log("Ingested %s/%s: %d bars [%d, %d]", symbol, exchange, ins.BarCount, ins.FirstBarDate, ins.LastBarDate)

	return ins, nil
}

func (l *Loader) log(format string, args ...interface{}) {
	if l.verbose {
		log.Printf("[ingestion] "+format, args...)
	}
}
