package app

import (
	"context"

	"github.com/agromart/agromart/internal/order/domain"
)

type OrderRepo interface {
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.ResolvedOrder, error)
	ListBySeller(ctx context.Context, sellerID string) ([]domain.ResolvedOrder, error)
	ListAllWithPayments(ctx context.Context) ([]domain.OrderWithPayment, error)
	UpdateStatus(ctx context.Context, id, status string) (domain.Order, error)
}
