package app

import (
	"context"
	"time"

	"github.com/agromart/agromart/internal/checkout/domain"
)

// Stores is the transactional store surface of one checkout. Every call on
// a Stores value belongs to the same unit of work: either all of them commit
// together or none apply.
type Stores interface {
	// ActiveCartLines loads the cart items matching ids that are still
	// active and owned by buyerID. Items belonging to other buyers are
	// silently excluded.
	ActiveCartLines(ctx context.Context, buyerID string, ids []string) ([]domain.CartLine, error)

	// DecrementListingStock subtracts qty from a listing's quantity only if
	// the current quantity covers it; otherwise it returns a *StockError
	// and the transaction must abort.
	DecrementListingStock(ctx context.Context, listingID string, qty int32) error

	// DecrementProductStock is the catalog-stock counterpart of
	// DecrementListingStock.
	DecrementProductStock(ctx context.Context, productID string, qty int32) error

	DeactivateCartItems(ctx context.Context, ids []string) error

	InsertOrders(ctx context.Context, orders []domain.NewOrder) ([]domain.PlacedOrder, error)

	// CompletePaymentAttempt marks the attempt completed and records the
	// created order ids (direct order ref when there is exactly one,
	// metadata list otherwise). Returns ErrPaymentAttemptNotFound when the
	// id resolves to nothing.
	CompletePaymentAttempt(ctx context.Context, attemptID string, orderIDs []string) error
}

// TxRunner opens one atomic transaction and passes its store surface to fn.
// A non-nil error from fn rolls everything back. Implementations may retry
// fn as a whole on transient conflicts, never partially.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Stores) error) error
}

// CatalogReader resolves product names for the checkout response after
// commit.
type CatalogReader interface {
	ProductName(ctx context.Context, productID string) (string, error)
}

type OrderPlacedEvent struct {
	BuyerID    string    `json:"buyerId"`
	OrderIDs   []string  `json:"orderIds"`
	SellerIDs  []string  `json:"sellerIds,omitempty"`
	TotalItems int       `json:"totalItems"`
	PlacedAt   time.Time `json:"placedAt"`
}

// EventPublisher announces a committed checkout, best-effort.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, evt OrderPlacedEvent) error
}
