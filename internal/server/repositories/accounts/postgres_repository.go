package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nitelabs/niteos/internal/dbx"
	"github.com/nitelabs/niteos/internal/server/models"
	"github.com/nitelabs/niteos/internal/shared"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (id, email, nite_balance, xp, level, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.NiteBalance, account.XP, account.Level, account.CreatedAt).Scan(&account.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {

	query :=
		`SELECT id, email, nite_balance, xp, level, created_at FROM accounts
		 WHERE id = $1
		 `

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.Email, &account.NiteBalance, &account.XP, &account.Level, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {

	query :=
		`SELECT id, email, nite_balance, xp, level, created_at FROM accounts
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		account := &models.Account{}
		if err := rows.Scan(&account.ID, &account.Email, &account.NiteBalance, &account.XP, &account.Level, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {

	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) AdjustBalance(ctx context.Context, id string, delta int64) (int64, error) {

	query :=
		`UPDATE accounts SET nite_balance = nite_balance + $1
		 WHERE id = $2
		 RETURNING nite_balance
		 `

	var balance int64
	err := r.db.QueryRowContext(ctx, query, delta, id).Scan(&balance)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, shared.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return balance, nil
}

func (r *PostgresRepository) UpdateProgress(ctx context.Context, id string, xp, level int64) error {

	query :=
		`UPDATE accounts SET xp = $1, level = $2
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, xp, level, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return shared.ErrorNotFound
	}

	return nil
}
