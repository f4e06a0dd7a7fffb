package receipts

import (
	"context"

	"github.com/nitelabs/niteos/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, receipt *models.Receipt) (*models.Receipt, error)

	// SelectByVenue returns a venue's receipts newest-first.
	SelectByVenue(ctx context.Context, venueID string) ([]*models.Receipt, error)
}
