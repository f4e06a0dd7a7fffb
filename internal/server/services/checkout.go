package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nitelabs/niteos/internal/dbx"
	"github.com/nitelabs/niteos/internal/logging"
	"github.com/nitelabs/niteos/internal/server/leveling"
	"github.com/nitelabs/niteos/internal/server/metrics"
	"github.com/nitelabs/niteos/internal/server/models"
	"github.com/nitelabs/niteos/internal/server/repositories/repomanager"
	"github.com/nitelabs/niteos/internal/server/userlock"
	"github.com/nitelabs/niteos/internal/shared"
)

// CheckoutService runs the point-of-sale transaction engine. A checkout
// debits the balance, grants XP, recomputes the level and writes the
// receipt in one database transaction, serialized per user by the lock
// guard so two concurrent checkouts can never both pass the funds check.
type CheckoutService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	nitecoin *NitecoinService
	guard    *userlock.Guard
	metrics  *metrics.Collector
	logger   logging.Logger
}

func NewCheckoutService(db *sql.DB, repos repomanager.RepositoryManager, nitecoin *NitecoinService, guard *userlock.Guard, m *metrics.Collector, l logging.Logger) *CheckoutService {
	return &CheckoutService{
		db:       db,
		repos:    repos,
		nitecoin: nitecoin,
		guard:    guard,
		metrics:  m,
		logger:   l.With("module", "pos"),
	}
}

// ProcessCheckout settles a purchase of amount nitecoins at venueID for
// userID. items is stored verbatim on the receipt as the cart snapshot.
// Either every effect lands (ledger debit, balance, XP, level, receipt)
// or none do.
func (s *CheckoutService) ProcessCheckout(ctx context.Context, venueID, userID string, amount int64, items json.RawMessage) (*models.Receipt, error) {

	start := time.Now()
	defer func() {
		s.metrics.CheckoutDuration.Observe(time.Since(start).Seconds())
	}()

	if amount <= 0 {
		s.metrics.CheckoutsTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: amount must be positive", shared.ErrorValidation)
	}

	release, err := s.guard.Acquire(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrorLockTimeout) {
			s.metrics.CheckoutsTotal.WithLabelValues("lock_timeout").Inc()
			s.logger.Warn(ctx, "checkout lock wait expired", "user", userID, "venue", venueID)
		}
		return nil, err
	}
	defer release()

	var receipt *models.Receipt
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		accounts := s.repos.Accounts(tx)

		// State is re-read under the lock, never trusted from before it.
		account, err := accounts.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, shared.ErrorNotFound) {
				return shared.ErrorAccountNotFound
			}
			return err
		}

		if account.NiteBalance < amount {
			return shared.ErrorInsufficientFunds
		}

		if _, err := s.nitecoin.RecordEntry(ctx, tx, userID, venueID, -amount, models.KindSpend); err != nil {
			return err
		}

		newXP := account.XP + leveling.XPForSpend(amount)
		newLevel := leveling.Level(newXP)
		if newLevel < account.Level {
			newLevel = account.Level
		}
		if err := accounts.UpdateProgress(ctx, userID, newXP, newLevel); err != nil {
			return err
		}

		receipt = &models.Receipt{
			ID:            uuid.New().String(),
			VenueID:       venueID,
			UserID:        userID,
			TotalAmount:   amount,
			ItemsSnapshot: items,
			CreatedAt:     time.Now().UTC(),
		}
		receipt, err = s.repos.Receipts(tx).Create(ctx, receipt)
		return err
	})
	if err != nil {
		s.metrics.CheckoutsTotal.WithLabelValues(checkoutResult(err)).Inc()
		return nil, translateStorageErr(err)
	}

	s.metrics.CheckoutsTotal.WithLabelValues("committed").Inc()
	s.metrics.LedgerEntriesTotal.WithLabelValues(string(models.KindSpend)).Inc()
	s.logger.Info(ctx, "checkout committed",
		"receipt", receipt.ID, "user", userID, "venue", venueID, "amount", amount)

	return receipt, nil
}

// GetVenueHistory returns the receipts settled at a venue, newest-first.
func (s *CheckoutService) GetVenueHistory(ctx context.Context, venueID string) ([]*models.Receipt, error) {

	receipts, err := s.repos.Receipts(s.db).SelectByVenue(ctx, venueID)
	if err != nil {
		return nil, translateStorageErr(err)
	}

	return receipts, nil
}

func checkoutResult(err error) string {
	switch {
	case errors.Is(err, shared.ErrorInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, shared.ErrorAccountNotFound):
		return "account_not_found"
	default:
		return "storage_error"
	}
}
