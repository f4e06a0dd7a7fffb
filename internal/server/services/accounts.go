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
	"github.com/nitelabs/niteos/internal/server/models"
	"github.com/nitelabs/niteos/internal/server/repositories/repomanager"
	"github.com/nitelabs/niteos/internal/shared"
)

// AccountService handles demo onboarding and account reads.
type AccountService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	nitecoin  *NitecoinService
	demoGrant int64
	logger    logging.Logger
}

func NewAccountService(db *sql.DB, repos repomanager.RepositoryManager, nitecoin *NitecoinService, demoGrant int64, l logging.Logger) *AccountService {
	return &AccountService{
		db:        db,
		repos:     repos,
		nitecoin:  nitecoin,
		demoGrant: demoGrant,
		logger:    l.With("module", "users"),
	}
}

// CreateDemo onboards a sequentially numbered demo account and funds it
// with the configured grant. The account row and the earn entry commit
// together, so a demo account never appears unfunded.
func (s *AccountService) CreateDemo(ctx context.Context) (*models.Account, error) {

	var account *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		accounts := s.repos.Accounts(tx)

		n, err := accounts.Count(ctx)
		if err != nil {
			return err
		}

		account = &models.Account{
			ID:        uuid.New().String(),
			Email:     fmt.Sprintf("demo+%d@nite.local", n+1),
			Level:     1,
			CreatedAt: time.Now().UTC(),
		}
		if account, err = accounts.Create(ctx, account); err != nil {
			return err
		}

		if s.demoGrant > 0 {
			if _, err := s.nitecoin.RecordEntry(ctx, tx, account.ID, "", s.demoGrant, models.KindEarn); err != nil {
				return err
			}
			account.NiteBalance = s.demoGrant
		}
		return nil
	})
	if err != nil {
		return nil, translateStorageErr(err)
	}

	s.logger.Info(ctx, "demo account onboarded", "user", account.ID, "email", account.Email, "grant", s.demoGrant)

	return account, nil
}

// List returns every account.
func (s *AccountService) List(ctx context.Context) ([]*models.Account, error) {

	list, err := s.repos.Accounts(s.db).List(ctx)
	if err != nil {
		return nil, translateStorageErr(err)
	}

	return list, nil
}

// GetByID looks up a single account.
func (s *AccountService) GetByID(ctx context.Context, id string) (*models.Account, error) {

	account, err := s.repos.Accounts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil, shared.ErrorAccountNotFound
		}
		return nil, translateStorageErr(err)
	}

	return account, nil
}
