package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nitelabs/niteos/internal/dbx"
	"github.com/nitelabs/niteos/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.LedgerEntry) (*models.LedgerEntry, error) {

	query :=
		`INSERT INTO ledger_entries (id, user_id, venue_id, amount, kind, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	var venueID any
	if entry.VenueID != "" {
		venueID = entry.VenueID
	}

	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.UserID, venueID, entry.Amount, string(entry.Kind), entry.CreatedAt).Scan(&entry.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) SelectByUser(ctx context.Context, userID string) ([]*models.LedgerEntry, error) {

	query :=
		`SELECT id, user_id, venue_id, amount, kind, created_at FROM ledger_entries
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.LedgerEntry
	for rows.Next() {
		entry := &models.LedgerEntry{}
		var venueID sql.NullString
		var kind string
		if err := rows.Scan(&entry.ID, &entry.UserID, &venueID, &entry.Amount, &kind, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entry.VenueID = venueID.String
		entry.Kind = models.EntryKind(kind)
		result = append(result, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SumByUser(ctx context.Context, userID string) (int64, error) {

	query :=
		`SELECT COALESCE(SUM(amount), 0) FROM ledger_entries
		 WHERE user_id = $1
		 `

	var sum int64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return sum, nil
}
