// Package main generates an offline performance report for one user's
// journal: a Markdown summary plus CSV exports of the daily P&L and the
// snapshot history.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"vantage-journal/internal/journal"
	"vantage-journal/internal/reporting"
	"vantage-journal/internal/storage"
	chstore "vantage-journal/internal/storage/clickhouse"
	"vantage-journal/internal/storage/migrations"
	pgstore "vantage-journal/internal/storage/postgres"
)

func main() {
	godotenv.Load()

	userID := flag.String("user-id", "", "User whose journal to report on")
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional, adds score history)")
	since := flag.String("since", "", "Only include trades created on or after this date (YYYY-MM-DD)")
	until := flag.String("until", "", "Only include trades created on or before this date (YYYY-MM-DD)")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "Error: --user-id is required")
		os.Exit(1)
	}

	sinceTime, untilTime, err := parseWindow(*since, *until)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	tradeStore := pgstore.NewTradeStore(pool)

	var snapshotStore storage.StatsSnapshotStore
	if *clickhouseDSN != "" {
		chConn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
			os.Exit(1)
		}
		defer chConn.Close()
		snapshotStore = chstore.NewStatsSnapshotStore(chConn)
	}

	engine := journal.NewEngine(journal.Options{})
	generator := reporting.NewGenerator(tradeStore, snapshotStore, engine)

	report, err := generator.GenerateRange(ctx, *userID, sinceTime, untilTime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	files := map[string]string{
		"REPORT.md":     reporting.RenderMarkdown(report),
		"DAILY_PNL.csv": reporting.RenderDailyPnLCSV(report.DailyPnL),
	}
	if len(report.History) > 0 {
		files["SCORE_HISTORY.csv"] = reporting.RenderHistoryCSV(report.History)
	}

	for name, content := range files {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	fmt.Println("Report generated successfully:")
	for name := range files {
		fmt.Printf("  - %s/%s\n", *outputDir, name)
	}
}

// parseWindow turns the optional --since/--until dates into a time range.
// The until bound is pushed to the end of its day so the range is inclusive.
func parseWindow(since, until string) (time.Time, time.Time, error) {
	var sinceTime, untilTime time.Time
	var err error

	if since != "" {
		sinceTime, err = time.Parse("2006-01-02", since)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --since date %q (want YYYY-MM-DD)", since)
		}
	}
	if until != "" {
		untilTime, err = time.Parse("2006-01-02", until)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --until date %q (want YYYY-MM-DD)", until)
		}
		untilTime = untilTime.Add(24*time.Hour - time.Nanosecond)
	}
	if !sinceTime.IsZero() && !untilTime.IsZero() && untilTime.Before(sinceTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("--until is before --since")
	}
	return sinceTime, untilTime, nil
}
