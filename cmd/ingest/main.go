package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"walkforward-lab/internal/ingestion"
	"walkforward-lab/internal/observability"
	"walkforward-lab/internal/storage"
	chstore "walkforward-lab/internal/storage/clickhouse"
	"walkforward-lab/internal/storage/memory"
	"walkforward-lab/internal/storage/migrations"
	pgstore "walkforward-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	csvPath := flag.String("csv", "", "CSV file with daily bars (required)")
	symbol := flag.String("symbol", "", "Instrument symbol (required)")
	exchange := flag.String("exchange", "", "Exchange code (required)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (instruments)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (price bars)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (dry run)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", false, "Verbose logging")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[ingest] ", log.LstdFlags)

	// Validate required flags
	if *csvPath == "" {
		logger.Fatal("--csv is required")
	}
	if *symbol == "" {
		logger.Fatal("--symbol is required")
	}
	if *exchange == "" {
		logger.Fatal("--exchange is required")
	}

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

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

	// Create stores
	var instrumentStore storage.InstrumentStore = memory.NewInstrumentStore()
	var barStore storage.PriceBarStore = memory.NewPriceBarStore()

	if !*useMemory {
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required when not using --use-memory (instruments)")
		}
		if *clickhouseDSN == "" {
			logger.Fatal("--clickhouse-dsn is required when not using --use-memory (price bars)")
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
		barStore = chstore.NewPriceBarStore(conn)
	}

	loader := ingestion.NewLoader(ingestion.Options{
		InstrumentStore: instrumentStore,
		PriceBarStore:   barStore,
		Verbose:         *verbose,
	})

	ins, err := loader.LoadFile(ctx, *csvPath, *symbol, *exchange)
	if err != nil {
		logger.Fatalf("ingest failed: %v", err)
	}

	logger.Printf("Ingested %s/%s: instrument_id=%s bars=%d range=[%d, %d]",
		ins.Symbol, ins.Exchange, ins.InstrumentID, ins.BarCount, ins.FirstBarDate, ins.LastBarDate)
}
