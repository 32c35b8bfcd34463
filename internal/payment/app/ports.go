package app

import (
	"context"

	"github.com/agromart/agromart/internal/payment/domain"
)

type AttemptRepo interface {
	Create(ctx context.Context, a domain.Attempt) (domain.Attempt, error)
	Get(ctx context.Context, id string) (domain.Attempt, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Attempt, error)
	ListAll(ctx context.Context) ([]domain.Attempt, error)
	SetStatus(ctx context.Context, id string, status domain.Status, notes string) (domain.Attempt, error)
}
