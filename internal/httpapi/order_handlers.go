package httpapi

import (
	"errors"
	"net/http"
	"time"

	checkoutapp "github.com/agromart/agromart/internal/checkout/app"
	orderapp "github.com/agromart/agromart/internal/order/app"
	orderdomain "github.com/agromart/agromart/internal/order/domain"
)

type orderHandlers struct {
	orders *orderapp.Service
}

func checkoutFailureReason(err error) string {
	var vErr *checkoutapp.ValidationError
	switch {
	case errors.As(err, &vErr):
		return "validation"
	case errors.Is(err, checkoutapp.ErrNoActiveItems):
		return "no_active_items"
	case errors.Is(err, checkoutapp.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, checkoutapp.ErrPaymentAttemptNotFound):
		return "payment_attempt_not_found"
	case errors.Is(err, checkoutapp.ErrInvalidState):
		return "invalid_state"
	default:
		return "internal"
	}
}

type orderResponse struct {
	ID            string     `json:"id"`
	BuyerID       string     `json:"buyerId"`
	BuyerName     string     `json:"buyerName,omitempty"`
	SellerID      string     `json:"sellerId,omitempty"`
	SellerName    string     `json:"sellerName,omitempty"`
	ProductID     string     `json:"productId"`
	ProductName   string     `json:"productName,omitempty"`
	ListingID     string     `json:"listingId,omitempty"`
	CategoryID    string     `json:"categoryId,omitempty"`
	CategoryName  string     `json:"categoryName,omitempty"`
	Quantity      int32      `json:"quantity"`
	TotalAmount   int64      `json:"totalAmount"`
	PaymentIntent string     `json:"paymentIntent,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	Status        string     `json:"status"`
	IsPaid        bool       `json:"isPaid"`
	RefID         string     `json:"refId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func toOrderResponse(o orderdomain.ResolvedOrder) orderResponse {
	return orderResponse{
		ID:            o.ID,
		BuyerID:       o.BuyerID,
		BuyerName:     o.BuyerName,
		SellerID:      o.SellerID,
		SellerName:    o.SellerName,
		ProductID:     o.ProductID,
		ProductName:   o.ProductName,
		ListingID:     o.ListingID,
		CategoryID:    o.CategoryID,
		CategoryName:  o.CategoryName,
		Quantity:      o.Quantity,
		TotalAmount:   o.TotalAmount,
		PaymentIntent: o.PaymentIntent,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		IsPaid:        o.IsPaid,
		RefID:         o.RefID,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func (h *orderHandlers) getMyOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	asSeller := r.URL.Query().Get("seller") == "true"

	orders, err := h.orders.MyOrders(r.Context(), claims.Subject, asSeller)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	respondData(w, http.StatusOK, out)
}

func (h *orderHandlers) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), req.OrderID, req.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Order status updated", map[string]any{
		"id":     order.ID,
		"status": order.Status,
	})
}

type paymentSummaryResponse struct {
	AttemptID     string `json:"attemptId"`
	PaymentID     string `json:"paymentId"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"paymentMethod"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

type orderWithPaymentResponse struct {
	orderResponse
	Payment *paymentSummaryResponse `json:"payment,omitempty"`
}

func (h *orderHandlers) listAll(withPayments bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := h.orders.AllOrders(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}

		out := make([]orderWithPaymentResponse, 0, len(orders))
		for _, o := range orders {
			resp := orderWithPaymentResponse{orderResponse: toOrderResponse(o.ResolvedOrder)}
			if withPayments && o.Payment != nil {
				resp.Payment = &paymentSummaryResponse{
					AttemptID:     o.Payment.AttemptID,
					PaymentID:     o.Payment.PaymentID,
					Status:        o.Payment.Status,
					Amount:        o.Payment.Amount,
					Currency:      o.Payment.Currency,
					PaymentMethod: o.Payment.PaymentMethod,
					ErrorMessage:  o.Payment.ErrorMessage,
				}
			}
			out = append(out, resp)
		}
		respondData(w, http.StatusOK, out)
	}
}
