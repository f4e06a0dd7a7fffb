package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nitelabs/niteos/internal/server/models"
	"github.com/nitelabs/niteos/internal/shared"
)

func TestProcessCheckout_Commits(t *testing.T) {
	env := newTestEnv(t, 500)
	ctx := context.Background()
	account := mustDemoAccount(t, env)

	items := json.RawMessage(`[{"sku":"beer","qty":2}]`)
	receipt, err := env.checkout.ProcessCheckout(ctx, "v-1", account.ID, 100, items)
	require.NoError(t, err)
	require.NotEmpty(t, receipt.ID)
	require.Equal(t, int64(100), receipt.TotalAmount)

	got, err := env.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, int64(400), got.NiteBalance)
	require.Equal(t, int64(1000), got.XP)
	require.Equal(t, int64(4), got.Level)

	history, err := env.nitecoin.GetHistory(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, models.KindSpend, history[0].Kind)
	require.Equal(t, int64(-100), history[0].Amount)
	require.Equal(t, "v-1", history[0].VenueID)

	require.Equal(t, got.NiteBalance, ledgerSum(t, env, account.ID))

	receipts, err := env.checkout.GetVenueHistory(ctx, "v-1")
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	require.Equal(t, receipt.ID, receipts[0].ID)
	require.JSONEq(t, string(items), string(receipts[0].ItemsSnapshot))
}

func TestProcessCheckout_InsufficientFundsLeavesState(t *testing.T) {
	env := newTestEnv(t, 50)
	ctx := context.Background()
	account := mustDemoAccount(t, env)

	_, err := env.checkout.ProcessCheckout(ctx, "v-1", account.ID, 100, nil)
	require.ErrorIs(t, err, shared.ErrorInsufficientFunds)

	got, err := env.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, int64(50), got.NiteBalance)
	require.Equal(t, int64(0), got.XP)
	require.Equal(t, int64(1), got.Level)

	history, err := env.nitecoin.GetHistory(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, history, 1, "only the onboarding grant may exist")

	receipts, err := env.checkout.GetVenueHistory(ctx, "v-1")
	require.NoError(t, err)
	require.Empty(t, receipts)
}

func TestProcessCheckout_AccountNotFound(t *testing.T) {
	env := newTestEnv(t, 0)

	_, err := env.checkout.ProcessCheckout(context.Background(), "v-1", "ghost", 100, nil)
	require.ErrorIs(t, err, shared.ErrorAccountNotFound)
}

func TestProcessCheckout_RejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t, 500)
	account := mustDemoAccount(t, env)

	for _, amount := range []int64{0, -10} {
		_, err := env.checkout.ProcessCheckout(context.Background(), "v-1", account.ID, amount, nil)
		require.ErrorIs(t, err, shared.ErrorValidation)
	}
}

func TestProcessCheckout_ConcurrentSameUser(t *testing.T) {
	env := newTestEnv(t, 500)
	ctx := context.Background()
	account := mustDemoAccount(t, env)

	// Both want 300 from a balance of 500. The per-user lock forces them
	// through one at a time, so exactly one can pass the funds check.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.checkout.ProcessCheckout(ctx, "v-1", account.ID, 300, nil)
		}(i)
	}
	wg.Wait()

	var committed, refused int
	for _, err := range errs {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, shared.ErrorInsufficientFunds):
			refused++
		default:
			t.Fatalf("unexpected checkout error: %v", err)
		}
	}
	require.Equal(t, 1, committed)
	require.Equal(t, 1, refused)

	balance, err := env.nitecoin.GetBalance(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, int64(200), balance)
	require.Equal(t, balance, ledgerSum(t, env, account.ID))

	receipts, err := env.checkout.GetVenueHistory(ctx, "v-1")
	require.NoError(t, err)
	require.Len(t, receipts, 1)
}

func TestProcessCheckout_LevelNeverDecreases(t *testing.T) {
	env := newTestEnv(t, 500)
	ctx := context.Background()
	account := mustDemoAccount(t, env)

	// Force a level higher than the XP curve would grant.
	require.NoError(t, env.repos.Accounts(env.db).UpdateProgress(ctx, account.ID, 0, 10))

	_, err := env.checkout.ProcessCheckout(ctx, "v-1", account.ID, 100, nil)
	require.NoError(t, err)

	got, err := env.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1000), got.XP)
	require.Equal(t, int64(10), got.Level, "level must not drop when XP implies a lower one")
}

func TestProcessCheckout_SequentialSpendDown(t *testing.T) {
	env := newTestEnv(t, 500)
	ctx := context.Background()
	account := mustDemoAccount(t, env)

	for _, amount := range []int64{200, 200, 100} {
		_, err := env.checkout.ProcessCheckout(ctx, "v-1", account.ID, amount, nil)
		require.NoError(t, err)
		balance, err := env.nitecoin.GetBalance(ctx, account.ID)
		require.NoError(t, err)
		require.Equal(t, balance, ledgerSum(t, env, account.ID))
	}

	balance, err := env.nitecoin.GetBalance(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)

	_, err = env.checkout.ProcessCheckout(ctx, "v-1", account.ID, 1, nil)
	require.ErrorIs(t, err, shared.ErrorInsufficientFunds)
}

func TestGetVenueHistory_NewestFirst(t *testing.T) {
	env := newTestEnv(t, 500)
	ctx := context.Background()
	account := mustDemoAccount(t, env)

	first, err := env.checkout.ProcessCheckout(ctx, "v-1", account.ID, 100, nil)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := env.checkout.ProcessCheckout(ctx, "v-1", account.ID, 50, nil)
	require.NoError(t, err)

	receipts, err := env.checkout.GetVenueHistory(ctx, "v-1")
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	require.Equal(t, second.ID, receipts[0].ID)
	require.Equal(t, first.ID, receipts[1].ID)
}
