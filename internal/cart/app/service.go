package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/agromart/agromart/internal/cart/domain"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrPriceNotSet       = errors.New("product price not set")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Service struct {
	repo      CartRepo
	inventory InventoryReader
}

func NewService(repo CartRepo, inventory InventoryReader) *Service {
	return &Service{repo: repo, inventory: inventory}
}

// AddToCart resolves the inventory reference, prices the line from the
// current unit price and persists a new active cart item. The stock check
// here is advisory; checkout's conditional decrement is authoritative.
func (s *Service) AddToCart(ctx context.Context, userID, inventoryID string, quantity int32) (domain.CartItem, error) {
	if userID == "" || inventoryID == "" {
		return domain.CartItem{}, ErrInvalidInput
	}
	if quantity <= 0 {
		return domain.CartItem{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	info, err := s.inventory.Resolve(ctx, inventoryID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if !info.PriceSet {
		return domain.CartItem{}, ErrPriceNotSet
	}
	if info.Stock < quantity {
		return domain.CartItem{}, fmt.Errorf("%w: requested %d, available %d",
			ErrInsufficientStock, quantity, info.Stock)
	}

	return s.repo.Create(ctx, domain.CartItem{
		UserID:      userID,
		Ref:         info.Ref,
		ProductID:   info.ProductID,
		CategoryID:  info.CategoryID,
		Quantity:    quantity,
		TotalAmount: info.UnitPrice * int64(quantity),
		Active:      true,
	})
}

func (s *Service) Items(ctx context.Context, userID string) ([]domain.ResolvedCartItem, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListActive(ctx, userID)
}

// UpdateQuantity re-validates stock against the current inventory snapshot
// and recomputes the total from the current unit price, never from client
// input. A race with a concurrent checkout is resolved by checkout's
// conditional decrement, not here.
func (s *Service) UpdateQuantity(ctx context.Context, userID, cartItemID string, quantity int32) (domain.CartItem, error) {
	if userID == "" || cartItemID == "" {
		return domain.CartItem{}, ErrInvalidInput
	}
	if quantity <= 0 {
		return domain.CartItem{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	item, err := s.repo.Get(ctx, userID, cartItemID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if !item.Active {
		return domain.CartItem{}, fmt.Errorf("%w: cart item already consumed", ErrInvalidInput)
	}

	info, err := s.inventory.Resolve(ctx, item.Ref.ID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if !info.PriceSet {
		return domain.CartItem{}, ErrPriceNotSet
	}
	if info.Stock < quantity {
		return domain.CartItem{}, fmt.Errorf("%w: requested %d, available %d",
			ErrInsufficientStock, quantity, info.Stock)
	}

	item.Quantity = quantity
	item.TotalAmount = info.UnitPrice * int64(quantity)
	return s.repo.Update(ctx, item)
}

// Remove soft-deactivates the item so order linkage survives.
func (s *Service) Remove(ctx context.Context, userID, cartItemID string) error {
	if userID == "" || cartItemID == "" {
		return ErrInvalidInput
	}
	return s.repo.Deactivate(ctx, userID, cartItemID)
}
