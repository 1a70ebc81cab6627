package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oficialwritiai-cmd/WritiIA/internal/apperr"
	"github.com/oficialwritiai-cmd/WritiIA/internal/config"
	"github.com/oficialwritiai-cmd/WritiIA/internal/repository"
)

func newCreditService(t *testing.T, allotment int) *CreditService {
	t.Helper()

	db := newTestDB(t)
	cfg := config.CreditsConfig{DefaultAllotment: allotment, GenerateCost: 5}
	return NewCreditService(repository.NewCreditRepository(db), cfg, zerolog.Nop())
}

func TestReserveInitializesLedgerOnFirstTouch(t *testing.T) {
	svc := newCreditService(t, 200)
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, "user-1", 5))

	balance, err := svc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 200, balance.TotalCredits)
	assert.Equal(t, 5, balance.UsedCredits)
	assert.Equal(t, 195, balance.Available())
}

func TestReserveFailsWhenBudgetExhausted(t *testing.T) {
	svc := newCreditService(t, 10)
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, "user-1", 5))
	require.NoError(t, svc.Reserve(ctx, "user-1", 5))

	err := svc.Reserve(ctx, "user-1", 5)
	assert.ErrorIs(t, err, apperr.ErrInsufficientCredits)

	balance, err := svc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 10, balance.UsedCredits)
}

func TestReservePartialBudgetStaysUntouchedOnRejection(t *testing.T) {
	svc := newCreditService(t, 7)
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, "user-1", 5))

	// 2 credits remain but the batch costs 5. The ledger must not move.
	err := svc.Reserve(ctx, "user-1", 5)
	assert.ErrorIs(t, err, apperr.ErrInsufficientCredits)

	balance, err := svc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, balance.UsedCredits)
}

func TestReleaseRestoresReservedCredits(t *testing.T) {
	svc := newCreditService(t, 10)
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, "user-1", 5))
	svc.Release(ctx, "user-1", 5)

	balance, err := svc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, balance.UsedCredits)

	// The released credits are spendable again.
	require.NoError(t, svc.Reserve(ctx, "user-1", 10))
}

func TestReleaseFloorsAtZero(t *testing.T) {
	svc := newCreditService(t, 10)
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, "user-1", 3))
	svc.Release(ctx, "user-1", 5)

	balance, err := svc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, balance.UsedCredits)
}

func TestReserveRejectsNonPositiveCost(t *testing.T) {
	svc := newCreditService(t, 10)

	assert.Error(t, svc.Reserve(context.Background(), "user-1", 0))
	assert.Error(t, svc.Reserve(context.Background(), "user-1", -1))
}

func TestGrantRaisesAllotment(t *testing.T) {
	svc := newCreditService(t, 10)
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, "user-1", 10))
	require.ErrorIs(t, svc.Reserve(ctx, "user-1", 5), apperr.ErrInsufficientCredits)

	require.NoError(t, svc.Grant(ctx, "user-1", 20))
	require.NoError(t, svc.Reserve(ctx, "user-1", 5))

	balance, err := svc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 30, balance.TotalCredits)
	assert.Equal(t, 15, balance.UsedCredits)
}

func TestLedgersAreIndependentPerUser(t *testing.T) {
	svc := newCreditService(t, 5)
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, "user-1", 5))
	require.ErrorIs(t, svc.Reserve(ctx, "user-1", 5), apperr.ErrInsufficientCredits)

	require.NoError(t, svc.Reserve(ctx, "user-2", 5))
}
