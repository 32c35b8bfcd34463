package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/agromart/agromart/internal/order/domain"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Service struct {
	repo OrderRepo
}

func NewService(repo OrderRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) MyOrders(ctx context.Context, buyerID string, asSeller bool) ([]domain.ResolvedOrder, error) {
	if buyerID == "" {
		return nil, ErrInvalidInput
	}
	if asSeller {
		return s.repo.ListBySeller(ctx, buyerID)
	}
	return s.repo.ListByBuyer(ctx, buyerID)
}

func (s *Service) AllOrders(ctx context.Context) ([]domain.OrderWithPayment, error) {
	return s.repo.ListAllWithPayments(ctx)
}

// UpdateStatus advances fulfillment along initialized -> pending -> complete.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, ErrInvalidInput
	}
	if status != domain.StatusPending && status != domain.StatusComplete {
		return domain.Order{}, fmt.Errorf("%w: %q", ErrInvalidInput, status)
	}

	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if !validTransition(order.Status, status) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	return s.repo.UpdateStatus(ctx, orderID, status)
}

func validTransition(from, to string) bool {
	switch from {
	case domain.StatusInitialized:
		return to == domain.StatusPending
	case domain.StatusPending:
		return to == domain.StatusComplete
	default:
		return false
	}
}
