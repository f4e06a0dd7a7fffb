package httpapi

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/nitelabs/niteos/internal/logging"
	"github.com/nitelabs/niteos/internal/server/config"
	"github.com/nitelabs/niteos/internal/server/metrics"
	"github.com/nitelabs/niteos/internal/server/repositories/repomanager"
	"github.com/nitelabs/niteos/internal/server/services"
	"github.com/nitelabs/niteos/internal/server/userlock"
)

const handlerTestSchema = `
CREATE TABLE accounts (
	id           TEXT PRIMARY KEY,
	email        TEXT NOT NULL UNIQUE,
	nite_balance INTEGER NOT NULL DEFAULT 0 CHECK (nite_balance >= 0),
	xp           INTEGER NOT NULL DEFAULT 0,
	level        INTEGER NOT NULL DEFAULT 1,
	created_at   TIMESTAMP NOT NULL
);
CREATE TABLE ledger_entries (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	venue_id   TEXT,
	amount     INTEGER NOT NULL,
	kind       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE receipts (
	id             TEXT PRIMARY KEY,
	venue_id       TEXT NOT NULL,
	user_id        TEXT NOT NULL,
	total_amount   INTEGER NOT NULL,
	items_snapshot BLOB,
	created_at     TIMESTAMP NOT NULL
);
CREATE TABLE venues (
	id    TEXT PRIMARY KEY,
	slug  TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	city  TEXT NOT NULL
);
CREATE TABLE market_items (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	price_nite INTEGER NOT NULL,
	venue_id   TEXT NOT NULL
);
CREATE TABLE feed_items (
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	title      TEXT NOT NULL,
	body       TEXT NOT NULL,
	venue_id   TEXT,
	created_at TIMESTAMP NOT NULL
);
`

// newTestHandler stands up the full API against an in-memory SQLite
// database, no Mongo sink.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite", fmt.Sprintf("file:http_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(handlerTestSchema)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	repos := repomanager.NewPostgresRepositoryManager()
	guard := userlock.New(2 * time.Second)
	registry := prometheus.NewRegistry()
	collector := metrics.New(registry)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	nitecoin := services.NewNitecoinService(db, repos, guard, collector, logger)
	checkout := services.NewCheckoutService(db, repos, nitecoin, guard, collector, logger)
	accounts := services.NewAccountService(db, repos, nitecoin, cfg.DemoGrant, logger)
	catalog := services.NewCatalogService(db, repos, logger)

	server := NewServer(cfg, checkout, nitecoin, accounts, catalog, nil, registry, logger)
	return server.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func createDemoUser(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/users/demo", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateDemoUser(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/users/demo", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Email       string `json:"email"`
		NiteBalance int64  `json:"niteBalance"`
		Level       int64  `json:"level"`
	}
	decodeBody(t, rec, &resp)
	require.Equal(t, "demo+1@nite.local", resp.Email)
	require.Equal(t, int64(500), resp.NiteBalance)
	require.Equal(t, int64(1), resp.Level)
}

func TestCheckout_Success(t *testing.T) {
	h := newTestHandler(t)
	userID := createDemoUser(t, h)

	body := fmt.Sprintf(`{"venueId":"v-1","userId":%q,"amount":100,"items":[{"sku":"beer","qty":2}]}`, userID)
	rec := doJSON(t, h, http.MethodPost, "/api/pos/checkout", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var receipt struct {
		ID          string `json:"id"`
		TotalAmount int64  `json:"totalAmount"`
	}
	decodeBody(t, rec, &receipt)
	require.NotEmpty(t, receipt.ID)
	require.Equal(t, int64(100), receipt.TotalAmount)

	rec = doJSON(t, h, http.MethodGet, "/api/nitecoin/users/"+userID+"/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var balance struct {
		Balance int64 `json:"balance"`
	}
	decodeBody(t, rec, &balance)
	require.Equal(t, int64(400), balance.Balance)

	rec = doJSON(t, h, http.MethodGet, "/api/users/"+userID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var account struct {
		XP    int64 `json:"xp"`
		Level int64 `json:"level"`
	}
	decodeBody(t, rec, &account)
	require.Equal(t, int64(1000), account.XP)
	require.Equal(t, int64(4), account.Level)

	rec = doJSON(t, h, http.MethodGet, "/api/nitecoin/users/"+userID+"/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []struct {
		Amount int64  `json:"amount"`
		Type   string `json:"type"`
	}
	decodeBody(t, rec, &history)
	require.Len(t, history, 2)
	require.Equal(t, "spend", history[0].Type)
	require.Equal(t, int64(-100), history[0].Amount)

	rec = doJSON(t, h, http.MethodGet, "/api/pos/venues/v-1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var receipts []struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &receipts)
	require.Len(t, receipts, 1)
}

func TestCheckout_InsufficientFunds(t *testing.T) {
	h := newTestHandler(t)
	userID := createDemoUser(t, h)

	body := fmt.Sprintf(`{"venueId":"v-1","userId":%q,"amount":600}`, userID)
	rec := doJSON(t, h, http.MethodPost, "/api/pos/checkout", body)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/nitecoin/users/"+userID+"/balance", "")
	var balance struct {
		Balance int64 `json:"balance"`
	}
	decodeBody(t, rec, &balance)
	require.Equal(t, int64(500), balance.Balance, "refused checkout must not mutate")
}

func TestCheckout_UnknownAccount(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/pos/checkout", `{"venueId":"v-1","userId":"ghost","amount":10}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout_BadPayload(t *testing.T) {
	h := newTestHandler(t)
	userID := createDemoUser(t, h)

	cases := []string{
		`{"userId":"` + userID + `","amount":10}`,
		fmt.Sprintf(`{"venueId":"v-1","userId":%q,"amount":0}`, userID),
		fmt.Sprintf(`{"venueId":"v-1","userId":%q,"amount":-5}`, userID),
		`not json`,
	}
	for _, body := range cases {
		rec := doJSON(t, h, http.MethodPost, "/api/pos/checkout", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "payload: %s", body)
	}
}

func TestTransactions_EarnAndRejectSpend(t *testing.T) {
	h := newTestHandler(t)
	userID := createDemoUser(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/nitecoin/transactions",
		fmt.Sprintf(`{"userId":%q,"amount":250,"type":"earn"}`, userID))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/nitecoin/transactions",
		fmt.Sprintf(`{"userId":%q,"amount":-10,"type":"spend"}`, userID))
	require.Equal(t, http.StatusBadRequest, rec.Code, "spend goes through checkout only")

	rec = doJSON(t, h, http.MethodGet, "/api/nitecoin/users/"+userID+"/balance", "")
	var balance struct {
		Balance int64 `json:"balance"`
	}
	decodeBody(t, rec, &balance)
	require.Equal(t, int64(750), balance.Balance)
}

func TestBalance_UnknownAccount(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/api/nitecoin/users/ghost/balance", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVenues_CreateAndLookup(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/venues", `{"slug":"neon-den","title":"Neon Den","city":"Riga"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/venues/neon-den", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/venues/no-such-place", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeed_RejectsUnknownType(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/feed", `{"type":"gossip","title":"x","body":"y"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_IssuesToken(t *testing.T) {
	h := newTestHandler(t)
	userID := createDemoUser(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/login", fmt.Sprintf(`{"userId":%q}`, userID))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.AccessToken)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", `{"userId":"ghost"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalytics_NotMountedWithoutSink(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/api/analytics/events", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServicePings(t *testing.T) {
	h := newTestHandler(t)

	for _, path := range []string{"/api/pos/", "/api/nitecoin/"} {
		rec := doJSON(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Status string `json:"status"`
		}
		decodeBody(t, rec, &resp)
		require.Equal(t, "online", resp.Status)
	}
}
