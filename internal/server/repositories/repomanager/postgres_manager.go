package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/nitelabs/niteos/internal/dbx"
	"github.com/nitelabs/niteos/internal/server/migrations"
	"github.com/nitelabs/niteos/internal/server/repositories/accounts"
	"github.com/nitelabs/niteos/internal/server/repositories/feed"
	"github.com/nitelabs/niteos/internal/server/repositories/ledger"
	"github.com/nitelabs/niteos/internal/server/repositories/market"
	"github.com/nitelabs/niteos/internal/server/repositories/receipts"
	"github.com/nitelabs/niteos/internal/server/repositories/venues"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Ledger(db dbx.DBTX) ledger.Repository {
	return ledger.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Receipts(db dbx.DBTX) receipts.Repository {
	return receipts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Venues(db dbx.DBTX) venues.Repository {
	return venues.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Market(db dbx.DBTX) market.Repository {
	return market.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Feed(db dbx.DBTX) feed.Repository {
	return feed.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
