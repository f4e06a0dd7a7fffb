package market

import (
	"context"

	"github.com/nitelabs/niteos/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.MarketItem) (*models.MarketItem, error)
	List(ctx context.Context) ([]*models.MarketItem, error)
}
