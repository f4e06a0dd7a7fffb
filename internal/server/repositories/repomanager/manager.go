// Package repomanager hands out repositories bound to a caller-supplied
// transaction scope. Services pick the scope (*sql.DB for single reads,
// the dbx.WithTx handle for composed atomic writes) and the manager wires
// the repositories to it.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/nitelabs/niteos/internal/dbx"
	"github.com/nitelabs/niteos/internal/server/repositories/accounts"
	"github.com/nitelabs/niteos/internal/server/repositories/feed"
	"github.com/nitelabs/niteos/internal/server/repositories/ledger"
	"github.com/nitelabs/niteos/internal/server/repositories/market"
	"github.com/nitelabs/niteos/internal/server/repositories/receipts"
	"github.com/nitelabs/niteos/internal/server/repositories/venues"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Ledger(db dbx.DBTX) ledger.Repository
	Receipts(db dbx.DBTX) receipts.Repository
	Venues(db dbx.DBTX) venues.Repository
	Market(db dbx.DBTX) market.Repository
	Feed(db dbx.DBTX) feed.Repository
}
