package app

import (
	"errors"
	"fmt"

	"github.com/agromart/agromart/internal/checkout/domain"
)

var (
	// ErrNoActiveItems is the distinct "nothing left to check out" outcome:
	// a replay with already-consumed cart ids lands here, not on a failure.
	ErrNoActiveItems = errors.New("no active cart items")

	// ErrInsufficientStock means a conditional decrement matched no row:
	// the record vanished or its quantity was below the requested amount.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidState marks internally inconsistent cart data, e.g. a
	// non-positive stored quantity or an unresolvable inventory reference.
	ErrInvalidState = errors.New("invalid cart item state")

	// ErrPaymentAttemptNotFound aborts checkout when the supplied payment
	// attempt id resolves to nothing.
	ErrPaymentAttemptNotFound = errors.New("payment attempt not found")
)

// ValidationError reports a malformed request field before any transaction
// is opened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StockError identifies which inventory record failed its conditional
// decrement, and of which kind.
type StockError struct {
	Kind      domain.InventoryKind
	ID        string
	Requested int32
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock on %s %s (requested %d)", e.Kind, e.ID, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
