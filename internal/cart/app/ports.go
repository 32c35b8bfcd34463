package app

import (
	"context"

	"github.com/agromart/agromart/internal/cart/domain"
)

type CartRepo interface {
	Create(ctx context.Context, item domain.CartItem) (domain.CartItem, error)
	Get(ctx context.Context, userID, id string) (domain.CartItem, error)
	ListActive(ctx context.Context, userID string) ([]domain.ResolvedCartItem, error)
	Update(ctx context.Context, item domain.CartItem) (domain.CartItem, error)
	Deactivate(ctx context.Context, userID, id string) error
}

// InventoryInfo is the snapshot of an inventory record the cart needs to
// price and validate a line.
type InventoryInfo struct {
	Ref        domain.InventoryRef
	ProductID  string
	CategoryID string
	SellerID   string
	UnitPrice  int64
	Currency   string
	Stock      int32
	PriceSet   bool
}

// InventoryReader resolves an id against both inventory sources: legacy
// listings first, then the catalog.
type InventoryReader interface {
	Resolve(ctx context.Context, id string) (InventoryInfo, error)
}
