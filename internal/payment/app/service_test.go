package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/agromart/agromart/internal/payment/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttemptRepo struct {
	attempts map[string]domain.Attempt
	nextID   int
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{attempts: map[string]domain.Attempt{}}
}

func (f *fakeAttemptRepo) Create(_ context.Context, a domain.Attempt) (domain.Attempt, error) {
	f.nextID++
	a.ID = fmt.Sprintf("pa-%d", f.nextID)
	f.attempts[a.ID] = a
	return a, nil
}

func (f *fakeAttemptRepo) Get(_ context.Context, id string) (domain.Attempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return domain.Attempt{}, ErrNotFound
	}
	return a, nil
}

func (f *fakeAttemptRepo) ListByBuyer(_ context.Context, buyerID string) ([]domain.Attempt, error) {
	var out []domain.Attempt
	for _, a := range f.attempts {
		if a.BuyerID == buyerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) ListAll(_ context.Context) ([]domain.Attempt, error) {
	var out []domain.Attempt
	for _, a := range f.attempts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAttemptRepo) SetStatus(_ context.Context, id string, status domain.Status, notes string) (domain.Attempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return domain.Attempt{}, ErrNotFound
	}
	a.Status = status
	if notes != "" {
		a.Notes = notes
	}
	f.attempts[id] = a
	return a, nil
}

func TestCreateAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults and generated payment id", func(t *testing.T) {
		svc := NewService(newFakeAttemptRepo())
		attempt, err := svc.CreateAttempt(ctx, CreateAttemptInput{
			BuyerID:     "buyer-1",
			Amount:      1500,
			CartItemIDs: []string{"ci-1"},
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(attempt.PaymentID, "PAY_"), "payment id %q", attempt.PaymentID)
		assert.Equal(t, domain.StatusPending, attempt.Status)
		assert.Equal(t, domain.MethodCOD, attempt.PaymentMethod)
		assert.Equal(t, "USD", attempt.Currency)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		svc := NewService(newFakeAttemptRepo())
		cases := []CreateAttemptInput{
			{Amount: 100, CartItemIDs: []string{"ci-1"}},                                            // no buyer
			{BuyerID: "b", Amount: 0, CartItemIDs: []string{"ci-1"}},                                // zero amount
			{BuyerID: "b", Amount: 100},                                                             // no cart items
			{BuyerID: "b", Amount: 100, CartItemIDs: []string{"ci-1"}, PaymentMethod: "Barter"},     // unknown method
		}
		for i, in := range cases {
			_, err := svc.CreateAttempt(ctx, in)
			assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
		}
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("moves a pending attempt forward", func(t *testing.T) {
		repo := newFakeAttemptRepo()
		svc := NewService(repo)
		attempt, err := svc.CreateAttempt(ctx, CreateAttemptInput{
			BuyerID: "buyer-1", Amount: 100, CartItemIDs: []string{"ci-1"},
		})
		require.NoError(t, err)

		updated, err := svc.UpdateStatus(ctx, attempt.ID, domain.StatusProcessing, "handed to gateway")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusProcessing, updated.Status)
		assert.Equal(t, "handed to gateway", updated.Notes)
	})

	t.Run("terminal statuses are frozen", func(t *testing.T) {
		repo := newFakeAttemptRepo()
		svc := NewService(repo)
		attempt, err := svc.CreateAttempt(ctx, CreateAttemptInput{
			BuyerID: "buyer-1", Amount: 100, CartItemIDs: []string{"ci-1"},
		})
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, attempt.ID, domain.StatusCompleted, "")
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, attempt.ID, domain.StatusFailed, "")
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("rejects an unknown status word", func(t *testing.T) {
		svc := NewService(newFakeAttemptRepo())
		_, err := svc.UpdateStatus(ctx, "pa-1", "refunded", "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Service, domain.Attempt) {
		svc := NewService(newFakeAttemptRepo())
		attempt, err := svc.CreateAttempt(ctx, CreateAttemptInput{
			BuyerID: "buyer-1", Amount: 100, CartItemIDs: []string{"ci-1"},
		})
		require.NoError(t, err)
		return svc, attempt
	}

	t.Run("owner cancels a pending attempt", func(t *testing.T) {
		svc, attempt := setup(t)
		cancelled, err := svc.Cancel(ctx, "buyer-1", attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, cancelled.Status)
		assert.Equal(t, "Cancelled by user", cancelled.Notes)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		svc, attempt := setup(t)
		_, err := svc.Cancel(ctx, "buyer-2", attempt.ID)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("only pending attempts can be cancelled", func(t *testing.T) {
		svc, attempt := setup(t)
		_, err := svc.UpdateStatus(ctx, attempt.ID, domain.StatusProcessing, "")
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, "buyer-1", attempt.ID)
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("unknown attempt", func(t *testing.T) {
		svc := NewService(newFakeAttemptRepo())
		_, err := svc.Cancel(ctx, "buyer-1", "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
