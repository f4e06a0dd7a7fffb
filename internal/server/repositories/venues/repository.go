package venues

import (
	"context"

	"github.com/nitelabs/niteos/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, venue *models.Venue) (*models.Venue, error)
	List(ctx context.Context) ([]*models.Venue, error)
	GetBySlug(ctx context.Context, slug string) (*models.Venue, error)
}
