package feed

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

func (r *PostgresRepository) Create(ctx context.Context, item *models.FeedItem) (*models.FeedItem, error) {

	query :=
		`INSERT INTO feed_items (id, type, title, body, venue_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	var venueID any
	if item.VenueID != "" {
		venueID = item.VenueID
	}

	err := r.db.QueryRowContext(ctx, query, item.ID, item.Type, item.Title, item.Body, venueID, item.CreatedAt).Scan(&item.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.FeedItem, error) {

	query :=
		`SELECT id, type, title, body, venue_id, created_at FROM feed_items
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.FeedItem
	for rows.Next() {
		item := &models.FeedItem{}
		var venueID sql.NullString
		if err := rows.Scan(&item.ID, &item.Type, &item.Title, &item.Body, &venueID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		item.VenueID = venueID.String
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {

	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feed_items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}
