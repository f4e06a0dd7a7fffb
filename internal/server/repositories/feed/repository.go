package feed

import (
	"context"

	"github.com/nitelabs/niteos/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.FeedItem) (*models.FeedItem, error)
	List(ctx context.Context) ([]*models.FeedItem, error)
	Count(ctx context.Context) (int64, error)
}
