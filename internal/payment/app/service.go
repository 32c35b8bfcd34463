package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agromart/agromart/internal/payment/domain"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("payment attempt not found")
	ErrNotOwner     = errors.New("not authorized for this payment attempt")
	ErrNotPending   = errors.New("payment attempt is not pending")
)

type Service struct {
	repo AttemptRepo
}

func NewService(repo AttemptRepo) *Service {
	return &Service{repo: repo}
}

type CreateAttemptInput struct {
	BuyerID       string
	Amount        int64
	Currency      string
	PaymentMethod string
	CartItemIDs   []string
}

func (s *Service) CreateAttempt(ctx context.Context, in CreateAttemptInput) (domain.Attempt, error) {
	if in.BuyerID == "" {
		return domain.Attempt{}, ErrInvalidInput
	}
	if in.Amount <= 0 {
		return domain.Attempt{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if len(in.CartItemIDs) == 0 {
		return domain.Attempt{}, fmt.Errorf("%w: cart item ids are required", ErrInvalidInput)
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	method := in.PaymentMethod
	if method == "" {
		method = domain.MethodCOD
	}
	if !domain.ValidMethod(method) {
		return domain.Attempt{}, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, method)
	}

	return s.repo.Create(ctx, domain.Attempt{
		PaymentID:     newPaymentID(),
		Amount:        in.Amount,
		Currency:      currency,
		Status:        domain.StatusPending,
		PaymentMethod: method,
		BuyerID:       in.BuyerID,
		CartItemIDs:   in.CartItemIDs,
	})
}

func newPaymentID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("PAY_%d_%s", time.Now().UnixMilli(), suffix)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Attempt, error) {
	if id == "" {
		return domain.Attempt{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Attempt, error) {
	if buyerID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByBuyer(ctx, buyerID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Attempt, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.Status, notes string) (domain.Attempt, error) {
	if id == "" {
		return domain.Attempt{}, ErrInvalidInput
	}
	if !status.Valid() {
		return domain.Attempt{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	attempt, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Attempt{}, err
	}
	if attempt.Status.Terminal() {
		return domain.Attempt{}, fmt.Errorf("%w: status is already %s", ErrNotPending, attempt.Status)
	}

	return s.repo.SetStatus(ctx, id, status, notes)
}

// Cancel is owner-only and allowed while the attempt is still pending. It
// is the escape hatch for abandoned checkout flows.
func (s *Service) Cancel(ctx context.Context, buyerID, id string) (domain.Attempt, error) {
	if buyerID == "" || id == "" {
		return domain.Attempt{}, ErrInvalidInput
	}

	attempt, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Attempt{}, err
	}
	if attempt.BuyerID != buyerID {
		return domain.Attempt{}, ErrNotOwner
	}
	if attempt.Status != domain.StatusPending {
		return domain.Attempt{}, fmt.Errorf("%w: status is %s", ErrNotPending, attempt.Status)
	}

	return s.repo.SetStatus(ctx, id, domain.StatusCancelled, "Cancelled by user")
}
