package venues

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

func (r *PostgresRepository) Create(ctx context.Context, venue *models.Venue) (*models.Venue, error) {

	query :=
		`INSERT INTO venues (id, slug, title, city)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, venue.ID, venue.Slug, venue.Title, venue.City).Scan(&venue.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return venue, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Venue, error) {

	query :=
		`SELECT id, slug, title, city FROM venues
		 ORDER BY slug
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Venue
	for rows.Next() {
		venue := &models.Venue{}
		if err := rows.Scan(&venue.ID, &venue.Slug, &venue.Title, &venue.City); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, venue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.Venue, error) {

	query :=
		`SELECT id, slug, title, city FROM venues
		 WHERE slug = $1
		 `

	venue := &models.Venue{}
	err := r.db.QueryRowContext(ctx, query, slug).Scan(&venue.ID, &venue.Slug, &venue.Title, &venue.City)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return venue, nil
}
