package httpapi

import (
	"net/http"
	"time"

	cartapp "github.com/agromart/agromart/internal/cart/app"
	cartdomain "github.com/agromart/agromart/internal/cart/domain"
	checkoutapp "github.com/agromart/agromart/internal/checkout/app"
	checkoutdomain "github.com/agromart/agromart/internal/checkout/domain"
	"github.com/agromart/agromart/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

type cartHandlers struct {
	cart     *cartapp.Service
	checkout *checkoutapp.Service
	metrics  *metrics.ServerMetrics
}

type cartItemResponse struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	InventoryID  string    `json:"inventoryId"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName,omitempty"`
	CategoryID   string    `json:"categoryId,omitempty"`
	CategoryName string    `json:"categoryName,omitempty"`
	Quantity     int32     `json:"quantity"`
	UnitPrice    int64     `json:"unitPrice,omitempty"`
	TotalAmount  int64     `json:"totalAmount"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toCartItemResponse(item cartdomain.CartItem) cartItemResponse {
	return cartItemResponse{
		ID:          item.ID,
		Kind:        string(item.Ref.Kind),
		InventoryID: item.Ref.ID,
		ProductID:   item.ProductID,
		CategoryID:  item.CategoryID,
		Quantity:    item.Quantity,
		TotalAmount: item.TotalAmount,
		CreatedAt:   item.CreatedAt,
	}
}

func (h *cartHandlers) addToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID   string `json:"productId"`
		InventoryID string `json:"inventoryId"`
		Quantity    int32  `json:"quantity"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}
	inventoryID := req.ProductID
	if inventoryID == "" {
		inventoryID = req.InventoryID
	}

	claims, _ := claimsFrom(r.Context())
	item, err := h.cart.AddToCart(r.Context(), claims.Subject, inventoryID, req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Item added to cart", toCartItemResponse(item))
}

func (h *cartHandlers) getCartItems(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	items, err := h.cart.Items(r.Context(), claims.Subject)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]cartItemResponse, 0, len(items))
	for _, item := range items {
		resp := toCartItemResponse(item.CartItem)
		resp.ProductName = item.ProductName
		resp.CategoryName = item.CategoryName
		resp.UnitPrice = item.UnitPrice
		out = append(out, resp)
	}
	respondData(w, http.StatusOK, out)
}

func (h *cartHandlers) updateCartItems(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID         string `json:"id"`
		CartItemID string `json:"cartItemId"`
		Quantity   int32  `json:"quantity"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}
	itemID := req.ID
	if itemID == "" {
		itemID = req.CartItemID
	}

	claims, _ := claimsFrom(r.Context())
	item, err := h.cart.UpdateQuantity(r.Context(), claims.Subject, itemID, req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Cart item updated", toCartItemResponse(item))
}

// deleteCartItem takes the item id from the URL, or from a body of the
// form {"id": "..."} when the route carries no path parameter.
func (h *cartHandlers) deleteCartItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		var req struct {
			ID string `json:"id"`
		}
		if err := decodeBody(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
			return
		}
		itemID = req.ID
	}

	claims, _ := claimsFrom(r.Context())
	if err := h.cart.Remove(r.Context(), claims.Subject, itemID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Cart item removed", nil)
}

type deliveryAddressPayload struct {
	Label      string  `json:"label"`
	Street     string  `json:"street"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postalCode"`
	Country    string  `json:"country"`
	Longitude  float64 `json:"longitude,omitempty"`
	Latitude   float64 `json:"latitude,omitempty"`
}

func (p deliveryAddressPayload) toDomain() checkoutdomain.DeliveryAddress {
	addr := checkoutdomain.DeliveryAddress{
		Label:      p.Label,
		Street:     p.Street,
		City:       p.City,
		State:      p.State,
		PostalCode: p.PostalCode,
		Country:    p.Country,
	}
	if p.Longitude != 0 || p.Latitude != 0 {
		addr.Location = &checkoutdomain.GeoPoint{Longitude: p.Longitude, Latitude: p.Latitude}
	}
	return addr
}

type placedOrderResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName,omitempty"`
	ListingID   string    `json:"listingId,omitempty"`
	SellerID    string    `json:"sellerId,omitempty"`
	Quantity    int32     `json:"quantity"`
	TotalAmount int64     `json:"totalAmount"`
	Status      string    `json:"status"`
	IsPaid      bool      `json:"isPaid"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *cartHandlers) buyProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CartID           []string               `json:"cartId"`
		DeliveryAddress  deliveryAddressPayload `json:"deliveryAddress"`
		PaymentIntent    string                 `json:"paymentIntent"`
		PaymentAttemptID string                 `json:"paymentAttemptId"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	claims, _ := claimsFrom(r.Context())
	placed, err := h.checkout.PlaceOrder(r.Context(), checkoutapp.PlaceOrderInput{
		BuyerID:          claims.Subject,
		CartItemIDs:      req.CartID,
		Address:          req.DeliveryAddress.toDomain(),
		PaymentIntent:    req.PaymentIntent,
		PaymentAttemptID: req.PaymentAttemptID,
	})
	if err != nil {
		h.metrics.CheckoutFailures.WithLabelValues(checkoutFailureReason(err)).Inc()
		respondError(w, err)
		return
	}
	h.metrics.CheckoutOrders.Add(float64(len(placed)))

	out := make([]placedOrderResponse, 0, len(placed))
	for _, o := range placed {
		out = append(out, placedOrderResponse{
			ID:          o.ID,
			ProductID:   o.ProductID,
			ProductName: o.ProductName,
			ListingID:   o.ListingID,
			SellerID:    o.SellerID,
			Quantity:    o.Quantity,
			TotalAmount: o.TotalAmount,
			Status:      o.Status,
			IsPaid:      o.IsPaid,
			CreatedAt:   o.CreatedAt,
		})
	}
	respondMessage(w, http.StatusOK, "Products purchased successfully!", out)
}
