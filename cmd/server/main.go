// Package main provides the journal backend server: trade ingest, the
// analytics engine behind the dashboard, Vantage scoring, and a WebSocket
// feed that pushes refreshed analytics after every journal write.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"vantage-journal/internal/domain"
	"vantage-journal/internal/idhash"
	"vantage-journal/internal/journal"
	"vantage-journal/internal/observability"
	"vantage-journal/internal/storage"
	chstore "vantage-journal/internal/storage/clickhouse"
	"vantage-journal/internal/storage/memory"
	"vantage-journal/internal/storage/migrations"
	pgstore "vantage-journal/internal/storage/postgres"
)

// Server holds the journal service components.
type Server struct {
	engine        *journal.Engine
	tradeStore    storage.TradeStore
	snapshotStore storage.StatsSnapshotStore
	hub           *Hub
	logger        *log.Logger

	started time.Time
}

func main() {
	// Load .env if present; system env vars win.
	godotenv.Load()

	addr := flag.String("addr", envOr("SERVER_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	maxTrades := flag.Int("max-trades", journal.DefaultMaxTrades, "Maximum trades per analytics run")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tradeStore, snapshotStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	server := &Server{
		engine:        journal.NewEngine(journal.Options{MaxTrades: *maxTrades}),
		tradeStore:    tradeStore,
		snapshotStore: snapshotStore,
		hub:           NewHub(logger),
		logger:        logger,
		started:       time.Now(),
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.routes(),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
		server.hub.Close()
		cancel()
	}()

	logger.Printf("Listening on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// createStores wires the storage backends: Postgres for trades, ClickHouse
// for snapshot history, or in-memory versions of both. Migrations run on
// startup.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool, logger *log.Logger) (storage.TradeStore, storage.StatsSnapshotStore, func(), error) {
	if useMemory {
		return memory.NewTradeStore(), memory.NewStatsSnapshotStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}
	tradeStore := pgstore.NewTradeStore(pool)

	// Snapshot history degrades to memory when ClickHouse is not configured.
	if clickhouseDSN == "" {
		logger.Println("No ClickHouse DSN configured, keeping stats snapshots in memory")
		return tradeStore, memory.NewStatsSnapshotStore(), func() { pool.Close() }, nil
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}
	snapshotStore := chstore.NewStatsSnapshotStore(chConn)

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return tradeStore, snapshotStore, cleanup, nil
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.instrument("/status", s.handleStatus))

	mux.HandleFunc("/api/trades", s.instrument("/api/trades", s.handleTrades))
	mux.HandleFunc("/api/analytics", s.instrument("/api/analytics", s.handleAnalytics))
	mux.HandleFunc("/api/vantage-score", s.instrument("/api/vantage-score", s.handleVantageScore))
	mux.HandleFunc("/ws/analytics", s.handleWS)

	return mux
}

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		observability.RecordHTTPRequest(endpoint, strconv.Itoa(rec.code), time.Since(start).Seconds())
	}
}

// StatusResponse is the JSON response for /status.
type StatusResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status: "running",
		Uptime: time.Since(s.started).String(),
	})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTrades(w, r)
	case http.MethodPost:
		s.handleCreateTrades(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	trades, err := s.loadTrades(r.Context(), userID)
	if err != nil {
		s.logger.Printf("list trades: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load trades")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"trades": trades})
}

func (s *Server) handleCreateTrades(w http.ResponseWriter, r *http.Request) {
	rawTrades, err := decodeTradePayload(r)
	if err != nil {
		observability.RecordDecodeError()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trades, err := journal.DecodeTrades(rawTrades)
	if err != nil {
		observability.RecordDecodeError()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	records := make([]*domain.TradeRecord, 0, len(trades))
	userID := ""
	for i := range trades {
		t := &trades[i]
		if t.UserID == "" {
			writeError(w, http.StatusBadRequest, "user_id is required on every trade")
			return
		}
		if userID == "" {
			userID = t.UserID
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if t.TradeID == "" {
			t.TradeID = idhash.ComputeTradeID(t.UserID, t.Symbol, t.EntryTimestamp, t.CreatedAt)
		}
		records = append(records, t)
	}

	if err := s.tradeStore.InsertBulk(r.Context(), records); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			writeError(w, http.StatusConflict, "duplicate trade")
			return
		}
		if errors.Is(err, storage.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Printf("insert trades: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store trades")
		return
	}
	observability.RecordTradeStored(len(records))

	// Push refreshed analytics to live dashboard connections.
	go s.broadcastAnalytics(userID)

	ids := make([]string, len(records))
	for i, t := range records {
		ids[i] = t.TradeID
	}
	writeJSON(w, http.StatusCreated, map[string]any{"trade_ids": ids})
}

// decodeTradePayload accepts either a single trade object or an array.
// Numbers are decoded as json.Number so price strings survive intact.
func decodeTradePayload(r *http.Request) ([]map[string]any, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	var batch []map[string]any
	if err := unmarshalNumber(raw, &batch); err == nil {
		return batch, nil
	}

	var single map[string]any
	if err := unmarshalNumber(raw, &single); err != nil {
		return nil, fmt.Errorf("body must be a trade object or an array of trades")
	}
	return []map[string]any{single}, nil
}

func unmarshalNumber(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	criteria, err := parseFilterCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trades, err := s.loadTrades(r.Context(), userID)
	if err != nil {
		s.logger.Printf("load trades: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load trades")
		return
	}
	trades = journal.FilterTrades(trades, criteria)

	start := time.Now()
	result, err := s.engine.Analyze(trades)
	if err != nil {
		observability.RecordAnalyticsRun("error", time.Since(start).Seconds(), len(trades))
		if errors.Is(err, journal.ErrTooManyTrades) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Printf("analytics: %v", err)
		writeError(w, http.StatusInternalServerError, "analytics run failed")
		return
	}
	observability.RecordAnalyticsRun("success", time.Since(start).Seconds(), len(trades))
	observability.DefaultMetrics.LastSuccessfulAnalytics.SetToCurrentTime()

	// Snapshot history tracks the unfiltered journal only.
	if criteria.IsZero() {
		s.recordSnapshot(r.Context(), userID, result)
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleVantageScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	trades, err := s.loadTrades(r.Context(), userID)
	if err != nil {
		s.logger.Printf("load trades: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load trades")
		return
	}

	score, err := s.engine.VantageScore(trades)
	if err != nil {
		if errors.Is(err, journal.ErrTooManyTrades) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Printf("vantage score: %v", err)
		writeError(w, http.StatusInternalServerError, "scoring failed")
		return
	}

	writeJSON(w, http.StatusOK, score)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	s.hub.ServeWS(w, r, userID)
}

// loadTrades fetches a user's journal in chronological order.
func (s *Server) loadTrades(ctx context.Context, userID string) ([]domain.TradeRecord, error) {
	start := time.Now()
	stored, err := s.tradeStore.GetByUser(ctx, userID)
	observability.RecordDBQuery("postgres", "get_trades_by_user", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}

	trades := make([]domain.TradeRecord, len(stored))
	for i, t := range stored {
		trades[i] = *t
	}
	return trades, nil
}

// broadcastAnalytics recomputes the user's analytics and pushes the payload
// to their live connections. Failures are logged, never surfaced to the
// request that triggered the refresh.
func (s *Server) broadcastAnalytics(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	trades, err := s.loadTrades(ctx, userID)
	if err != nil {
		s.logger.Printf("broadcast load trades: %v", err)
		return
	}

	result, err := s.engine.Analyze(trades)
	if err != nil {
		s.logger.Printf("broadcast analytics: %v", err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Printf("broadcast marshal: %v", err)
		return
	}
	s.hub.Broadcast(userID, payload)

	s.recordSnapshot(ctx, userID, result)
}

// recordSnapshot appends one analytics run to the snapshot history.
func (s *Server) recordSnapshot(ctx context.Context, userID string, result *journal.Result) {
	score := journal.Score(result.Stats)

	snap := &domain.StatsSnapshot{
		SnapshotID:     uuid.NewString(),
		UserID:         userID,
		ComputedAt:     time.Now().UTC(),
		TradeCount:     result.Stats.TradeCount,
		TotalPL:        result.Stats.TotalPL.InexactFloat64(),
		WinRate:        result.Stats.WinRate,
		ProfitFactor:   float64(result.Stats.ProfitFactor),
		MaxDrawdownPct: result.Stats.MaxDrawdownPct,
		SharpeRatio:    result.Stats.SharpeRatio,
		VantageScore:   score.VantageScore,
	}

	start := time.Now()
	err := s.snapshotStore.Insert(ctx, snap)
	observability.RecordDBQuery("clickhouse", "insert_snapshot", time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Printf("record snapshot: %v", err)
		return
	}
	observability.RecordSnapshot()
}

// parseFilterCriteria reads the optional filter query parameters.
func parseFilterCriteria(r *http.Request) (journal.FilterCriteria, error) {
	var c journal.FilterCriteria
	q := r.URL.Query()

	parse := func(key string, dst **float64) error {
		raw := q.Get(key)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", key, raw)
		}
		*dst = &v
		return nil
	}

	if err := parse("min_duration", &c.MinDuration); err != nil {
		return c, err
	}
	if err := parse("max_duration", &c.MaxDuration); err != nil {
		return c, err
	}
	if err := parse("min_rr", &c.MinRR); err != nil {
		return c, err
	}
	if err := parse("max_rr", &c.MaxRR); err != nil {
		return c, err
	}
	return c, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing to do but note it.
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
