package httpapi

import (
	"errors"
	"net/http"

	authapp "github.com/agromart/agromart/internal/auth/app"
	cartapp "github.com/agromart/agromart/internal/cart/app"
	catalogapp "github.com/agromart/agromart/internal/catalog/app"
	checkoutapp "github.com/agromart/agromart/internal/checkout/app"
	orderapp "github.com/agromart/agromart/internal/order/app"
	paymentapp "github.com/agromart/agromart/internal/payment/app"
)

// statusFor maps service errors onto HTTP statuses. Unknown errors are a 500
// and keep their detail out of the response body.
func statusFor(err error) int {
	var vErr *checkoutapp.ValidationError
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, cartapp.ErrInvalidInput),
		errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, orderapp.ErrInvalidInput),
		errors.Is(err, paymentapp.ErrInvalidInput),
		errors.Is(err, authapp.ErrInvalidInput),
		errors.Is(err, authapp.ErrEmailTaken),
		errors.Is(err, checkoutapp.ErrNoActiveItems),
		errors.Is(err, checkoutapp.ErrInsufficientStock),
		errors.Is(err, checkoutapp.ErrInvalidState),
		errors.Is(err, cartapp.ErrInsufficientStock),
		errors.Is(err, cartapp.ErrPriceNotSet),
		errors.Is(err, orderapp.ErrInvalidTransition),
		errors.Is(err, paymentapp.ErrNotPending):
		return http.StatusBadRequest

	case errors.Is(err, authapp.ErrInvalidCredentials),
		errors.Is(err, authapp.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, paymentapp.ErrNotOwner):
		return http.StatusForbidden

	case errors.Is(err, cartapp.ErrNotFound),
		errors.Is(err, catalogapp.ErrNotFound),
		errors.Is(err, orderapp.ErrNotFound),
		errors.Is(err, paymentapp.ErrNotFound),
		errors.Is(err, authapp.ErrNotFound),
		errors.Is(err, checkoutapp.ErrPaymentAttemptNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	writeJSON(w, status, envelope{Success: false, Message: message})
}
