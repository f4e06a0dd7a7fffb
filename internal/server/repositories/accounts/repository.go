package accounts

import (
	"context"

	"github.com/nitelabs/niteos/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	Count(ctx context.Context) (int64, error)

	// AdjustBalance shifts nite_balance by delta and returns the new value.
	// Must run on the same transaction scope as the ledger entry it pairs with.
	AdjustBalance(ctx context.Context, id string, delta int64) (int64, error)

	// UpdateProgress writes the recomputed xp and level. Callers hold the
	// per-user lock, so absolute values are safe here.
	UpdateProgress(ctx context.Context, id string, xp, level int64) error
}
