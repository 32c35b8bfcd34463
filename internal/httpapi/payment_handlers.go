package httpapi

import (
	"net/http"
	"time"

	paymentapp "github.com/agromart/agromart/internal/payment/app"
	paymentdomain "github.com/agromart/agromart/internal/payment/domain"
	"github.com/go-chi/chi/v5"
)

type paymentHandlers struct {
	payments *paymentapp.Service
}

type paymentAttemptResponse struct {
	ID            string         `json:"id"`
	PaymentID     string         `json:"paymentId"`
	Amount        int64          `json:"amount"`
	Currency      string         `json:"currency"`
	Status        string         `json:"status"`
	PaymentMethod string         `json:"paymentMethod"`
	BuyerID       string         `json:"buyerId"`
	OrderID       string         `json:"orderId,omitempty"`
	CartItemIDs   []string       `json:"cartItemIds"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func toPaymentAttemptResponse(a paymentdomain.Attempt) paymentAttemptResponse {
	return paymentAttemptResponse{
		ID:            a.ID,
		PaymentID:     a.PaymentID,
		Amount:        a.Amount,
		Currency:      a.Currency,
		Status:        string(a.Status),
		PaymentMethod: a.PaymentMethod,
		BuyerID:       a.BuyerID,
		OrderID:       a.OrderID,
		CartItemIDs:   a.CartItemIDs,
		Metadata:      a.Metadata,
		ErrorMessage:  a.ErrorMessage,
		Notes:         a.Notes,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (h *paymentHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount        int64    `json:"amount"`
		Currency      string   `json:"currency"`
		PaymentMethod string   `json:"paymentMethod"`
		CartItemIDs   []string `json:"cartItemIds"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	claims, _ := claimsFrom(r.Context())
	attempt, err := h.payments.CreateAttempt(r.Context(), paymentapp.CreateAttemptInput{
		BuyerID:       claims.Subject,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		CartItemIDs:   req.CartItemIDs,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Payment attempt created", toPaymentAttemptResponse(attempt))
}

func (h *paymentHandlers) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	attempt, err := h.payments.UpdateStatus(r.Context(), req.ID, paymentdomain.Status(req.Status), req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Payment status updated", toPaymentAttemptResponse(attempt))
}

func (h *paymentHandlers) listAll(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.payments.ListAll(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toPaymentAttemptResponses(attempts))
}

func (h *paymentHandlers) listMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	attempts, err := h.payments.ListByBuyer(r.Context(), claims.Subject)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toPaymentAttemptResponses(attempts))
}

func toPaymentAttemptResponses(attempts []paymentdomain.Attempt) []paymentAttemptResponse {
	out := make([]paymentAttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, toPaymentAttemptResponse(a))
	}
	return out
}

func (h *paymentHandlers) get(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.payments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	claims, _ := claimsFrom(r.Context())
	if attempt.BuyerID != claims.Subject && claims.Role != "admin" {
		respondError(w, paymentapp.ErrNotOwner)
		return
	}
	respondData(w, http.StatusOK, toPaymentAttemptResponse(attempt))
}

func (h *paymentHandlers) cancel(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	attempt, err := h.payments.Cancel(r.Context(), claims.Subject, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Payment attempt cancelled", toPaymentAttemptResponse(attempt))
}
