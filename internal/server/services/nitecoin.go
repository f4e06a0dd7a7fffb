package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nitelabs/niteos/internal/dbx"
	"github.com/nitelabs/niteos/internal/logging"
	"github.com/nitelabs/niteos/internal/server/metrics"
	"github.com/nitelabs/niteos/internal/server/models"
	"github.com/nitelabs/niteos/internal/server/repositories/repomanager"
	"github.com/nitelabs/niteos/internal/server/userlock"
	"github.com/nitelabs/niteos/internal/shared"
)

// NitecoinService is the balance ledger store. It owns the account's
// materialized balance: an entry is never written without the matching
// balance adjustment, and vice versa — both go through one transaction
// scope that the caller commits.
type NitecoinService struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	guard   *userlock.Guard
	metrics *metrics.Collector
	logger  logging.Logger
}

func NewNitecoinService(db *sql.DB, repos repomanager.RepositoryManager, guard *userlock.Guard, m *metrics.Collector, l logging.Logger) *NitecoinService {
	return &NitecoinService{
		db:      db,
		repos:   repos,
		guard:   guard,
		metrics: m,
		logger:  l.With("module", "nitecoin"),
	}
}

// RecordEntry appends a ledger entry and shifts the account balance by
// amount on the given transaction scope. The caller decides the unit of
// work: checkout composes this with the receipt write, Record wraps it in
// its own transaction. Fails with shared.ErrorAccountNotFound when the
// user does not exist and shared.ErrorInsufficientFunds when the shift
// would drive the balance negative.
func (s *NitecoinService) RecordEntry(ctx context.Context, tx dbx.DBTX, userID, venueID string, amount int64, kind models.EntryKind) (*models.LedgerEntry, error) {

	accounts := s.repos.Accounts(tx)

	if amount < 0 {
		// Checked here, before the write, so the caller gets the funds
		// error instead of a constraint violation from the database.
		account, err := accounts.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, shared.ErrorNotFound) {
				return nil, shared.ErrorAccountNotFound
			}
			return nil, err
		}
		if account.NiteBalance+amount < 0 {
			return nil, shared.ErrorInsufficientFunds
		}
	}

	if _, err := accounts.AdjustBalance(ctx, userID, amount); err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil, shared.ErrorAccountNotFound
		}
		return nil, err
	}

	entry := &models.LedgerEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		VenueID:   venueID,
		Amount:    amount,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repos.Ledger(tx).Create(ctx, entry)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Record writes a single earn or adjust entry in its own transaction,
// serialized against checkouts for the same user. Spend entries only come
// out of the checkout path.
func (s *NitecoinService) Record(ctx context.Context, userID, venueID string, amount int64, kind models.EntryKind) (*models.LedgerEntry, error) {

	if kind == models.KindSpend || !kind.Valid() {
		return nil, fmt.Errorf("%w: kind %q not allowed here", shared.ErrorValidation, kind)
	}

	release, err := s.guard.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	var entry *models.LedgerEntry
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		entry, err = s.RecordEntry(ctx, tx, userID, venueID, amount, kind)
		return err
	})
	if err != nil {
		return nil, translateStorageErr(err)
	}

	s.metrics.LedgerEntriesTotal.WithLabelValues(string(kind)).Inc()
	s.logger.Info(ctx, "ledger entry recorded", "user", userID, "amount", amount, "kind", kind)

	return entry, nil
}

// GetBalance returns the materialized balance for the user.
func (s *NitecoinService) GetBalance(ctx context.Context, userID string) (int64, error) {

	account, err := s.repos.Accounts(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return 0, shared.ErrorAccountNotFound
		}
		return 0, translateStorageErr(err)
	}

	return account.NiteBalance, nil
}

// GetHistory returns the user's ledger entries newest-first. Each call
// re-reads current state.
func (s *NitecoinService) GetHistory(ctx context.Context, userID string) ([]*models.LedgerEntry, error) {

	if _, err := s.repos.Accounts(s.db).GetByID(ctx, userID); err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil, shared.ErrorAccountNotFound
		}
		return nil, translateStorageErr(err)
	}

	entries, err := s.repos.Ledger(s.db).SelectByUser(ctx, userID)
	if err != nil {
		return nil, translateStorageErr(err)
	}

	return entries, nil
}

// translateStorageErr keeps the taxonomy errors as-is and folds everything
// else into shared.ErrorStorage so callers never see raw driver errors.
func translateStorageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shared.ErrorAccountNotFound),
		errors.Is(err, shared.ErrorInsufficientFunds),
		errors.Is(err, shared.ErrorLockTimeout),
		errors.Is(err, shared.ErrorValidation),
		errors.Is(err, shared.ErrorNotFound):
		return err
	default:
		return fmt.Errorf("%w: %v", shared.ErrorStorage, err)
	}
}
