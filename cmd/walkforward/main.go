package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/ingestion"
	"walkforward-lab/internal/reporting"
	"walkforward-lab/internal/robustness"
	"walkforward-lab/internal/storage"
	chstore "walkforward-lab/internal/storage/clickhouse"
	"walkforward-lab/internal/storage/memory"
	"walkforward-lab/internal/storage/migrations"
	pgstore "walkforward-lab/internal/storage/postgres"
	"walkforward-lab/internal/walkforward"
)

func main() {
	// Input: either a stored instrument or an ad-hoc CSV file.
	symbol := flag.String("symbol", "", "Instrument symbol (with --exchange)")
	exchange := flag.String("exchange", "", "Exchange code (with --symbol)")
	csvPath := flag.String("csv", "", "CSV file with daily bars (alternative to --symbol/--exchange)")

	// Walk-forward configuration
	strategyType := flag.String("strategy", domain.StrategyTypeMomentumTrend, "Strategy: MOMENTUM_TREND, COMPOSITE_MOMENTUM")
	trainLength := flag.Int("train-length", 504, "Train span length in bars")
	testLength := flag.Int("test-length", 126, "Test span length in bars")
	stepLength := flag.Int("step-length", 126, "Step between windows in bars")
	minTrades := flag.Int("min-trades", 0, "Trade-count penalty threshold (0 for default)")
	gridJSON := flag.String("grid", "", `Parameter grid as JSON, e.g. {"trailing_stop_pct":[10,15]} (empty for default)`)

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (instruments, runs)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (bars, equity curves)")
	persist := flag.Bool("persist", false, "Persist run result and equity curve to storage")

	// Output
	outputJSON := flag.Bool("json", false, "Output run result as JSON")
	reportMD := flag.String("report-md", "", "Write Markdown report to file")
	reportCSV := flag.String("report-csv", "", "Write per-window CSV to file")
	verbose := flag.Bool("verbose", false, "Verbose logging")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[walkforward] ", log.LstdFlags)

	// Validate input selection
	fromCSV := *csvPath != ""
	fromStore := *symbol != "" && *exchange != ""
	if fromCSV == fromStore {
		logger.Fatal("exactly one of --csv or --symbol/--exchange is required")
	}
	*strategyType = strings.ToUpper(*strategyType)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Create stores. CSV mode runs fully in memory unless --persist asks
	// for database storage.
	var (
		instrumentStore storage.InstrumentStore  = memory.NewInstrumentStore()
		barStore        storage.PriceBarStore    = memory.NewPriceBarStore()
		runStore        storage.RunStore         = memory.NewRunStore()
		curveStore      storage.EquityCurveStore = memory.NewEquityCurveStore()
	)

	needDB := fromStore || *persist
	if needDB {
		if *postgresDSN == "" || *clickhouseDSN == "" {
			logger.Fatal("--postgres-dsn and --clickhouse-dsn are required to read or persist stored data")
		}

		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("postgres migrations: %v", err)
		}

		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("clickhouse migrations: %v", err)
		}
		defer conn.Close()

		instrumentStore = pgstore.NewInstrumentStore(pool)
		runStore = pgstore.NewRunStore(pool)
		barStore = chstore.NewPriceBarStore(conn)
		curveStore = chstore.NewEquityCurveStore(conn)
	}

	// Resolve the instrument and its bar history.
	instrument, bars := loadInput(ctx, logger, instrumentStore, barStore, fromCSV, *csvPath, *symbol, *exchange, *verbose)

	grid := domain.DefaultParameterGrid()
	if *gridJSON != "" {
		grid = parseGrid(logger, *gridJSON)
	}

	cfg := domain.WalkForwardConfig{
		TrainLength:  *trainLength,
		TestLength:   *testLength,
		StepLength:   *stepLength,
		StrategyType: *strategyType,
		Grid:         grid,
		MinTrades:    *minTrades,
	}

	// Run analysis
	logger.Printf("Running walk-forward: instrument=%s strategy=%s bars=%d train/test/step=%d/%d/%d grid=%d",
		instrument.InstrumentID, *strategyType, len(bars), *trainLength, *testLength, *stepLength, grid.Size())

	analyzer := walkforward.New(walkforward.Options{Verbose: *verbose})
	run, err := analyzer.Run(ctx, instrument.InstrumentID, bars, cfg)
	if err != nil {
		logger.Fatalf("analysis failed: %v", err)
	}

	if *persist {
		// CSV-mode instruments are not in the database yet; register so
		// the stored run's instrument_id resolves.
		if err := instrumentStore.Insert(ctx, instrument); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			logger.Fatalf("persist instrument: %v", err)
		}
		if err := runStore.Insert(ctx, run); err != nil {
			logger.Fatalf("persist run: %v", err)
		}
		if err := curveStore.InsertBulk(ctx, run.RunID, run.EquityCurve); err != nil {
			logger.Fatalf("persist equity curve: %v", err)
		}
		logger.Printf("Persisted run %s (%d equity points)", run.RunID, len(run.EquityCurve))
	}

	// Build the report in-process: CSV mode has no stored run to load.
	summary := reporting.InstrumentSummary{
		InstrumentID: instrument.InstrumentID,
		Symbol:       instrument.Symbol,
		Exchange:     instrument.Exchange,
	}
	generator := reporting.NewGenerator(instrumentStore, runStore, curveStore)
	report := generator.FromRun(run, summary, run.EquityCurve)

	if *reportMD != "" {
		if err := os.WriteFile(*reportMD, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
			logger.Fatalf("write markdown report: %v", err)
		}
		logger.Printf("Wrote %s", *reportMD)
	}
	if *reportCSV != "" {
		if err := os.WriteFile(*reportCSV, []byte(reporting.RenderCSV(report.Windows)), 0o644); err != nil {
			logger.Fatalf("write csv report: %v", err)
		}
		logger.Printf("Wrote %s", *reportCSV)
	}

	if *outputJSON {
		output, _ := json.MarshalIndent(run, "", "  ")
		fmt.Println(string(output))
	} else {
		printRunSummary(run, report.Robustness)
	}
}

// loadInput resolves the instrument and bars either from storage or by
// parsing a CSV file into the (possibly in-memory) stores.
func loadInput(
	ctx context.Context,
	logger *log.Logger,
	instrumentStore storage.InstrumentStore,
	barStore storage.PriceBarStore,
	fromCSV bool,
	csvPath, symbol, exchange string,
	verbose bool,
) (*domain.Instrument, []domain.PriceBar) {
	if fromCSV {
		f, err := os.Open(csvPath)
		if err != nil {
			logger.Fatalf("open %s: %v", csvPath, err)
		}
		defer f.Close()
		bars, err := ingestion.ParseCSV(f)
		if err != nil {
			logger.Fatalf("parse %s: %v", csvPath, err)
		}

		sym := symbol
		if sym == "" {
			sym = strings.TrimSuffix(filepath.Base(csvPath), ".csv")
		}
		exch := exchange
		if exch == "" {
			exch = "CSV"
		}

		// Register in throwaway stores so the instrument gets its
		// canonical ID and the series gets validated once.
		loader := ingestion.NewLoader(ingestion.Options{
			InstrumentStore: memory.NewInstrumentStore(),
			PriceBarStore:   memory.NewPriceBarStore(),
			Verbose:         verbose,
		})
		ins, err := loader.Load(ctx, sym, exch, bars)
		if err != nil {
			logger.Fatalf("load %s: %v", csvPath, err)
		}
		return ins, bars
	}

	ins, err := instrumentStore.GetBySymbol(ctx, symbol, exchange)
	if err != nil {
		logger.Fatalf("lookup %s/%s: %v", symbol, exchange, err)
	}
	bars, err := barStore.GetByInstrumentID(ctx, ins.InstrumentID)
	if err != nil {
		logger.Fatalf("load bars for %s: %v", ins.InstrumentID, err)
	}
	return ins, bars
}

// parseGrid decodes a JSON parameter grid from the CLI.
func parseGrid(logger *log.Logger, raw string) domain.ParameterGrid {
	var grid domain.ParameterGrid
	if err := json.Unmarshal([]byte(raw), &grid); err != nil {
		logger.Fatalf("invalid --grid: %v", err)
	}
	if grid.Size() == 0 {
		logger.Fatal("invalid --grid: empty grid")
	}
	return grid
}

// printRunSummary outputs a human-readable run summary.
func printRunSummary(run *domain.RunResult, verdict *robustness.Result) {
	fmt.Println()
	fmt.Println("=== Walk-Forward Result ===")
	fmt.Printf("Run ID:             %s\n", run.RunID)
	fmt.Printf("Instrument:         %s\n", run.InstrumentID)
	fmt.Printf("Strategy:           %s\n", run.StrategyID)
	fmt.Printf("Created:            %s\n", time.UnixMilli(run.CreatedAt).Format(time.RFC3339))
	fmt.Printf("Windows:            %d\n", len(run.Windows))
	fmt.Println()

	fmt.Println("Optimal Parameters:")
	names := make([]string, 0, len(run.OptimalParams))
	for name := range run.OptimalParams {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-22s %.4f\n", name, run.OptimalParams[name])
	}
	fmt.Println()

	fmt.Println("Performance (IS / OOS):")
	fmt.Printf("  Sharpe:           %.4f / %.4f\n", run.InSampleMetrics.SharpeRatio, run.OutSampleMetrics.SharpeRatio)
	fmt.Printf("  Return:           %.2f%% / %.2f%%\n", run.InSampleMetrics.TotalReturn, run.OutSampleMetrics.TotalReturn)
	fmt.Printf("  Win Rate:         %.2f%% / %.2f%%\n", run.InSampleMetrics.WinRate, run.OutSampleMetrics.WinRate)
	fmt.Printf("  Max Drawdown:     %.2f%% / %.2f%%\n", run.InSampleMetrics.MaxDrawdown, run.OutSampleMetrics.MaxDrawdown)
	fmt.Printf("  Trades:           %d / %d\n", run.InSampleMetrics.NumTrades, run.OutSampleMetrics.NumTrades)
	fmt.Printf("  Degradation:      %.4f\n", run.Degradation.Overall)
	fmt.Println()

	fmt.Printf("Verdict:            %s\n", verdict.Verdict)
	for _, c := range verdict.GOCriteria {
		status := "FAIL"
		if c.Pass {
			status = "PASS"
		}
		fmt.Printf("  [%s] %-32s %s (need %s)\n", status, c.Name, c.Actual, c.Threshold)
	}
	for _, c := range verdict.NOGOChecks {
		status := "FIRED"
		if c.Pass {
			status = "clear"
		}
		fmt.Printf("  [%s] %-32s %s\n", status, c.Name, c.Actual)
	}
}
