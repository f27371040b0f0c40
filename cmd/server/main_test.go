package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vantage-journal/internal/domain"
	"vantage-journal/internal/journal"
	"vantage-journal/internal/storage/memory"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	srv := &Server{
		engine:        journal.NewEngine(journal.Options{}),
		tradeStore:    memory.NewTradeStore(),
		snapshotStore: memory.NewStatsSnapshotStore(),
		hub:           NewHub(logger),
		logger:        logger,
		started:       time.Now(),
	}
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(func() {
		srv.hub.Close()
		ts.Close()
	})
	return srv, ts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", url, err)
		}
	}
	return resp
}

const sampleTrade = `{
	"user_id": "u1",
	"symbol": "ES",
	"direction": "Long",
	"entry_price": 100,
	"exit_price": "110",
	"stop_loss_price": 95,
	"position_size": 1,
	"p_l": 10,
	"entry_timestamp": "2024-03-01T09:30:00Z",
	"created_at": "2024-03-01T16:00:00Z"
}`

func TestCreateTrades_SingleObject(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/trades", sampleTrade)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var body struct {
		TradeIDs []string `json:"trade_ids"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.TradeIDs) != 1 || body.TradeIDs[0] == "" {
		t.Errorf("trade_ids = %v, want one derived id", body.TradeIDs)
	}

	// Same payload again collides on the derived trade id.
	resp = postJSON(t, ts.URL+"/api/trades", sampleTrade)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", resp.StatusCode)
	}
}

func TestCreateTrades_Validation(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/trades", `{"symbol": "ES"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing user_id: status = %d, want 400", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/trades", `{"user_id": "u1", "direction": "Diagonal"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad direction: status = %d, want 400", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/trades", `not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateAndListTrades_Batch(t *testing.T) {
	_, ts := newTestServer(t)

	batch := `[
		{"user_id": "u1", "symbol": "ES", "p_l": 100, "created_at": "2024-03-02T16:00:00Z"},
		{"user_id": "u1", "symbol": "NQ", "p_l": -40, "created_at": "2024-03-01T16:00:00Z"}
	]`
	resp := postJSON(t, ts.URL+"/api/trades", batch)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var listing struct {
		Trades []struct {
			Symbol string `json:"symbol"`
		} `json:"trades"`
	}
	resp = getJSON(t, ts.URL+"/api/trades?user_id=u1", &listing)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.StatusCode)
	}
	if len(listing.Trades) != 2 {
		t.Errorf("listed %d trades, want 2", len(listing.Trades))
	}

	resp = getJSON(t, ts.URL+"/api/trades", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing user_id: status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	srv, ts := newTestServer(t)

	// Seed the store directly: a POST would also refresh analytics in the
	// background and record its own snapshot, making counts below racy.
	err := srv.tradeStore.Insert(context.Background(), &domain.TradeRecord{
		TradeID: "t1", UserID: "u1", Symbol: "ES",
		Direction:  domain.DirectionLong,
		EntryPrice: decimal.NewFromInt(100), ExitPrice: decimal.NewFromInt(110),
		StopLossPrice: decimal.NewFromInt(95), PositionSize: decimal.NewFromInt(1),
		PL:        decimal.NewFromInt(10),
		CreatedAt: time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed trade: %v", err)
	}

	var result struct {
		Trades []json.RawMessage `json:"trades"`
		Stats  struct {
			TradeCount int     `json:"trade_count"`
			WinRate    float64 `json:"win_rate"`
		} `json:"stats"`
	}
	resp := getJSON(t, ts.URL+"/api/analytics?user_id=u1", &result)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if result.Stats.TradeCount != 1 || result.Stats.WinRate != 100 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if len(result.Trades) != 1 {
		t.Errorf("payload has %d trades, want 1", len(result.Trades))
	}

	// An unfiltered run records a snapshot.
	snaps, err := srv.snapshotStore.GetByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("snapshot lookup: %v", err)
	}
	if len(snaps) != 1 {
		t.Errorf("got %d snapshots, want 1 from the unfiltered run", len(snaps))
	}

	// A filtered run must not pollute the history.
	resp = getJSON(t, ts.URL+"/api/analytics?user_id=u1&min_rr=1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("filtered status = %d, want 200", resp.StatusCode)
	}
	snaps, _ = srv.snapshotStore.GetByUser(context.Background(), "u1")
	if len(snaps) != 1 {
		t.Errorf("got %d snapshots after filtered run, want still 1", len(snaps))
	}
}

func TestAnalyticsEndpoint_BadFilter(t *testing.T) {
	_, ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/api/analytics?user_id=u1&min_rr=abc", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyticsEndpoint_TooManyTrades(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.engine = journal.NewEngine(journal.Options{MaxTrades: 1})

	batch := `[
		{"user_id": "u1", "symbol": "ES", "p_l": 1},
		{"user_id": "u1", "symbol": "NQ", "p_l": 2}
	]`
	resp := postJSON(t, ts.URL+"/api/trades", batch)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("insert status = %d, want 201", resp.StatusCode)
	}

	resp = getJSON(t, ts.URL+"/api/analytics?user_id=u1", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestVantageScoreEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	// Empty journal scores zero across the board.
	var score struct {
		VantageScore     float64 `json:"vantage_score"`
		WinRateScore     float64 `json:"win_rate_score"`
		MaxDrawdownScore float64 `json:"max_drawdown_score"`
	}
	resp := getJSON(t, ts.URL+"/api/vantage-score?user_id=u1", &score)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if score.VantageScore != 0 || score.MaxDrawdownScore != 0 {
		t.Errorf("empty journal score = %+v, want zeros", score)
	}

	postJSON(t, ts.URL+"/api/trades", sampleTrade)

	resp = getJSON(t, ts.URL+"/api/vantage-score?user_id=u1", &score)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if score.VantageScore == 0 {
		t.Error("single winning trade should score above zero")
	}
}

func TestHealthAndStatus(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/health status = %d", resp.StatusCode)
	}

	var status StatusResponse
	resp = getJSON(t, ts.URL+"/status", &status)
	if resp.StatusCode != http.StatusOK || status.Status != "running" {
		t.Errorf("/status = %d %+v", resp.StatusCode, status)
	}
}

func TestParseFilterCriteria(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/analytics?user_id=u1&min_duration=10&max_rr=2.5", nil)
	c, err := parseFilterCriteria(r)
	if err != nil {
		t.Fatalf("parseFilterCriteria: %v", err)
	}
	if c.MinDuration == nil || *c.MinDuration != 10 {
		t.Errorf("min_duration = %v", c.MinDuration)
	}
	if c.MaxRR == nil || *c.MaxRR != 2.5 {
		t.Errorf("max_rr = %v", c.MaxRR)
	}
	if c.MaxDuration != nil || c.MinRR != nil {
		t.Error("absent bounds should stay nil")
	}

	r = httptest.NewRequest(http.MethodGet, "/api/analytics?user_id=u1", nil)
	c, err = parseFilterCriteria(r)
	if err != nil {
		t.Fatalf("parseFilterCriteria: %v", err)
	}
	if !c.IsZero() {
		t.Error("no filter params should produce zero criteria")
	}
}
