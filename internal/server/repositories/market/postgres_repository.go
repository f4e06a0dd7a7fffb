package market

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

func (r *PostgresRepository) Create(ctx context.Context, item *models.MarketItem) (*models.MarketItem, error) {

	query :=
		`INSERT INTO market_items (id, title, price_nite, venue_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, item.ID, item.Title, item.PriceNite, item.VenueID).Scan(&item.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.MarketItem, error) {

	query :=
		`SELECT id, title, price_nite, venue_id FROM market_items
		 ORDER BY title
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.MarketItem
	for rows.Next() {
		item := &models.MarketItem{}
		if err := rows.Scan(&item.ID, &item.Title, &item.PriceNite, &item.VenueID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
