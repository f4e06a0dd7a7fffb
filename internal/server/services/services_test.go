package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/nitelabs/niteos/internal/logging"
	"github.com/nitelabs/niteos/internal/server/metrics"
	"github.com/nitelabs/niteos/internal/server/models"
	"github.com/nitelabs/niteos/internal/server/repositories/repomanager"
	"github.com/nitelabs/niteos/internal/server/userlock"
)

// The service tests run the real repositories against an in-memory SQLite
// database. The repositories' SQL ($n placeholders, RETURNING) is valid
// in both engines, so the whole transactional path is exercised without a
// Postgres instance.
const testSchema = `
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
	user_id    TEXT NOT NULL REFERENCES accounts(id),
	venue_id   TEXT,
	amount     INTEGER NOT NULL,
	kind       TEXT NOT NULL CHECK (kind IN ('earn', 'spend', 'adjust')),
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE receipts (
	id             TEXT PRIMARY KEY,
	venue_id       TEXT NOT NULL,
	user_id        TEXT NOT NULL REFERENCES accounts(id),
	total_amount   INTEGER NOT NULL CHECK (total_amount > 0),
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

type testEnv struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	nitecoin *NitecoinService
	checkout *CheckoutService
	accounts *AccountService
	catalog  *CatalogService
}

func newTestEnv(t *testing.T, demoGrant int64) *testEnv {
	t.Helper()

	// Each test gets its own named shared-cache database; one open
	// connection keeps SQLite's locking out of the picture.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	repos := repomanager.NewPostgresRepositoryManager()
	guard := userlock.New(2 * time.Second)
	collector := metrics.New(prometheus.NewRegistry())
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	nitecoin := NewNitecoinService(db, repos, guard, collector, logger)

	return &testEnv{
		db:       db,
		repos:    repos,
		nitecoin: nitecoin,
		checkout: NewCheckoutService(db, repos, nitecoin, guard, collector, logger),
		accounts: NewAccountService(db, repos, nitecoin, demoGrant, logger),
		catalog:  NewCatalogService(db, repos, logger),
	}
}

func mustDemoAccount(t *testing.T, env *testEnv) *models.Account {
	t.Helper()
	account, err := env.accounts.CreateDemo(context.Background())
	require.NoError(t, err)
	return account
}

// ledgerSum reads the entry sum straight from the repository; after every
// committed operation it must equal the materialized balance.
func ledgerSum(t *testing.T, env *testEnv, userID string) int64 {
	t.Helper()
	sum, err := env.repos.Ledger(env.db).SumByUser(context.Background(), userID)
	require.NoError(t, err)
	return sum
}
