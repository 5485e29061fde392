package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"walkforward-lab/internal/reporting"
	chstore "walkforward-lab/internal/storage/clickhouse"
	"walkforward-lab/internal/storage/migrations"
	pgstore "walkforward-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	runID := flag.String("run-id", "", "Run ID to report on (required)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (required)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (required)")
	format := flag.String("format", "markdown", "Output format: markdown or csv")
	output := flag.String("output", "", "Output file (empty for stdout)")
	fixedTime := flag.String("generated-at", "", "Override report timestamp (RFC3339, for reproducible output)")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	// Validate required flags
	if *runID == "" {
		logger.Fatal("--run-id is required")
	}
	if *postgresDSN == "" || *clickhouseDSN == "" {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required")
	}
	if *format != "markdown" && *format != "csv" {
		logger.Fatalf("invalid --format: %s. Must be markdown or csv", *format)
	}

	ctx := context.Background()

	// Connect storage
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

	generator := reporting.NewGenerator(
		pgstore.NewInstrumentStore(pool),
		pgstore.NewRunStore(pool),
		chstore.NewEquityCurveStore(conn),
	)

	if *fixedTime != "" {
		at, err := time.Parse(time.RFC3339, *fixedTime)
		if err != nil {
			logger.Fatalf("invalid --generated-at: %v", err)
		}
		generator = generator.WithClock(func() time.Time { return at })
	}

	report, err := generator.Generate(ctx, *runID)
	if err != nil {
		logger.Fatalf("generate report: %v", err)
	}

	var rendered string
	switch *format {
	case "markdown":
		rendered = reporting.RenderMarkdown(report)
	case "csv":
		rendered = reporting.RenderCSV(report.Windows)
	}

	if *output == "" {
		fmt.Print(rendered)
		return
	}
	if err := os.WriteFile(*output, []byte(rendered), 0o644); err != nil {
		logger.Fatalf("write %s: %v", *output, err)
	}
	logger.Printf("Wrote %s report for run %s to %s", *format, *runID, *output)
}
