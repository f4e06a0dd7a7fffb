package receipts

import (
	"context"
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

func (r *PostgresRepository) Create(ctx context.Context, receipt *models.Receipt) (*models.Receipt, error) {

	query :=
		`INSERT INTO receipts (id, venue_id, user_id, total_amount, items_snapshot, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	var snapshot any
	if len(receipt.ItemsSnapshot) > 0 {
		snapshot = []byte(receipt.ItemsSnapshot)
	}

	err := r.db.QueryRowContext(ctx, query,
		receipt.ID, receipt.VenueID, receipt.UserID, receipt.TotalAmount, snapshot, receipt.CreatedAt).Scan(&receipt.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return receipt, nil
}

func (r *PostgresRepository) SelectByVenue(ctx context.Context, venueID string) ([]*models.Receipt, error) {

	query :=
		`SELECT id, venue_id, user_id, total_amount, items_snapshot, created_at FROM receipts
		 WHERE venue_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, venueID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Receipt
	for rows.Next() {
		receipt := &models.Receipt{}
		var snapshot []byte
		if err := rows.Scan(&receipt.ID, &receipt.VenueID, &receipt.UserID, &receipt.TotalAmount, &snapshot, &receipt.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		receipt.ItemsSnapshot = snapshot
		result = append(result, receipt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
