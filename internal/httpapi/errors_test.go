package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	authapp "github.com/agromart/agromart/internal/auth/app"
	cartapp "github.com/agromart/agromart/internal/cart/app"
	catalogapp "github.com/agromart/agromart/internal/catalog/app"
	checkoutapp "github.com/agromart/agromart/internal/checkout/app"
	orderapp "github.com/agromart/agromart/internal/order/app"
	paymentapp "github.com/agromart/agromart/internal/payment/app"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation error", &checkoutapp.ValidationError{Field: "cartId", Reason: "required"}, http.StatusBadRequest},
		{"no active items", checkoutapp.ErrNoActiveItems, http.StatusBadRequest},
		{"insufficient stock", checkoutapp.ErrInsufficientStock, http.StatusBadRequest},
		{"wrapped stock error", fmt.Errorf("checkout: %w", &checkoutapp.StockError{ID: "l-1", Requested: 3}), http.StatusBadRequest},
		{"invalid cart item state", checkoutapp.ErrInvalidState, http.StatusBadRequest},
		{"wrapped invalid state", fmt.Errorf("cart item ci-1: %w: quantity 0", checkoutapp.ErrInvalidState), http.StatusBadRequest},
		{"cart price not set", cartapp.ErrPriceNotSet, http.StatusBadRequest},
		{"order transition", orderapp.ErrInvalidTransition, http.StatusBadRequest},
		{"email taken", authapp.ErrEmailTaken, http.StatusBadRequest},
		{"payment not pending", paymentapp.ErrNotPending, http.StatusBadRequest},
		{"bad credentials", authapp.ErrInvalidCredentials, http.StatusUnauthorized},
		{"bad token", authapp.ErrInvalidToken, http.StatusUnauthorized},
		{"not the owner", paymentapp.ErrNotOwner, http.StatusForbidden},
		{"catalog not found", catalogapp.ErrNotFound, http.StatusNotFound},
		{"payment attempt missing at checkout", checkoutapp.ErrPaymentAttemptNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", orderapp.ErrNotFound), http.StatusNotFound},
		{"unknown error", errors.New("pq: connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusFor(tc.err); got != tc.want {
				t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
