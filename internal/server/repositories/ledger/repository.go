package ledger

import (
	"context"

	"github.com/nitelabs/niteos/internal/server/models"
)

type Repository interface {
	// Create appends an entry. Entries are immutable: there is no update
	// or delete on this repository by design of the ledger.
	Create(ctx context.Context, entry *models.LedgerEntry) (*models.LedgerEntry, error)

	// SelectByUser returns a user's entries newest-first. Each call
	// re-reads current state.
	SelectByUser(ctx context.Context, userID string) ([]*models.LedgerEntry, error)

	// SumByUser returns the sum of a user's entry amounts, used to verify
	// the ledger reconciles with the materialized balance.
	SumByUser(ctx context.Context, userID string) (int64, error)
}
