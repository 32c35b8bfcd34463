package httpapi

import (
	"net/http"
	"strconv"
	"time"

	catalogapp "github.com/agromart/agromart/internal/catalog/app"
	catalogdomain "github.com/agromart/agromart/internal/catalog/domain"
	"github.com/go-chi/chi/v5"
)

type catalogHandlers struct {
	catalog *catalogapp.Service
}

type categoryResponse struct {
	ID           string    `json:"id"`
	CategoryName string    `json:"categoryName"`
	Image        string    `json:"image,omitempty"`
	BgColor      string    `json:"bgColor,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toCategoryResponse(c catalogdomain.Category) categoryResponse {
	return categoryResponse{
		ID:           c.ID,
		CategoryName: c.Name,
		Image:        c.Image,
		BgColor:      c.BgColor,
		CreatedAt:    c.CreatedAt,
	}
}

func (h *catalogHandlers) createCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CategoryName string `json:"categoryName"`
		Image        string `json:"image"`
		BgColor      string `json:"bgColor"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), req.CategoryName, req.Image, req.BgColor)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Category created", toCategoryResponse(category))
}

func (h *catalogHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	respondData(w, http.StatusOK, out)
}

func (h *catalogHandlers) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CategoryName string `json:"categoryName"`
		Image        string `json:"image"`
		BgColor      string `json:"bgColor"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	category, err := h.catalog.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req.CategoryName, req.Image, req.BgColor)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Category updated", toCategoryResponse(category))
}

func (h *catalogHandlers) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Category deleted", nil)
}

type productResponse struct {
	ID            string    `json:"id"`
	ProductName   string    `json:"productName"`
	Description   string    `json:"description,omitempty"`
	Currency      string    `json:"currency"`
	Amount        int64     `json:"amount"`
	StockQuantity int32     `json:"stockQuantity"`
	MinOrderQty   int32     `json:"minOrderQty"`
	Unit          string    `json:"unit"`
	CategoryID    string    `json:"categoryId"`
	IsFeatured    bool      `json:"isFeatured"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toProductResponse(p catalogdomain.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		ProductName:   p.Name,
		Description:   p.Description,
		Currency:      p.Price.Currency,
		Amount:        p.Price.Amount,
		StockQuantity: p.StockQuantity,
		MinOrderQty:   p.MinOrderQty,
		Unit:          p.Unit,
		CategoryID:    p.CategoryID,
		IsFeatured:    p.Featured,
		CreatedAt:     p.CreatedAt,
	}
}

func (h *catalogHandlers) createProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductName   string `json:"productName"`
		Description   string `json:"description"`
		Currency      string `json:"currency"`
		Amount        int64  `json:"amount"`
		StockQuantity int32  `json:"stockQuantity"`
		MinOrderQty   int32  `json:"minOrderQty"`
		Unit          string `json:"unit"`
		CategoryID    string `json:"categoryId"`
		IsFeatured    bool   `json:"isFeatured"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), catalogapp.CreateProductInput{
		Name:          req.ProductName,
		Description:   req.Description,
		Currency:      req.Currency,
		Amount:        req.Amount,
		StockQuantity: req.StockQuantity,
		MinOrderQty:   req.MinOrderQty,
		Unit:          req.Unit,
		CategoryID:    req.CategoryID,
		Featured:      req.IsFeatured,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Product created", toProductResponse(product))
}

func (h *catalogHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toProductResponse(product))
}

func (h *catalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	products, next, err := h.catalog.ListProducts(r.Context(),
		q.Get("categoryId"), q.Get("featured") == "true", limit, q.Get("cursor"))
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	respondData(w, http.StatusOK, map[string]any{
		"products":   out,
		"nextCursor": next,
	})
}

func (h *catalogHandlers) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductName   string `json:"productName"`
		Description   string `json:"description"`
		Amount        int64  `json:"amount"`
		StockQuantity int32  `json:"stockQuantity"`
		IsFeatured    *bool  `json:"isFeatured"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), catalogapp.UpdateProductInput{
		ID:            chi.URLParam(r, "id"),
		Name:          req.ProductName,
		Description:   req.Description,
		Amount:        req.Amount,
		StockQuantity: req.StockQuantity,
		Featured:      req.IsFeatured,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Product updated", toProductResponse(product))
}

func (h *catalogHandlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Product deleted", nil)
}

type listingResponse struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"sellerId"`
	ProductID   string    `json:"productId"`
	CategoryID  string    `json:"categoryId"`
	Currency    string    `json:"currency"`
	Amount      int64     `json:"amount"`
	Quantity    int32     `json:"quantity"`
	MinimumSell string    `json:"minimumSell,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	IsSold      bool      `json:"isSold"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toListingResponse(l catalogdomain.Listing) listingResponse {
	resp := listingResponse{
		ID:          l.ID,
		SellerID:    l.SellerID,
		ProductID:   l.ProductID,
		CategoryID:  l.CategoryID,
		Currency:    l.Price.Currency,
		Amount:      l.Price.Amount,
		Quantity:    l.Quantity,
		MinimumSell: l.MinimumSell,
		IsSold:      l.Sold,
		CreatedAt:   l.CreatedAt,
	}
	if l.Location != nil {
		resp.Longitude = &l.Location.Longitude
		resp.Latitude = &l.Location.Latitude
	}
	return resp
}

func (h *catalogHandlers) createListing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID   string   `json:"productId"`
		CategoryID  string   `json:"categoryId"`
		Currency    string   `json:"currency"`
		Amount      int64    `json:"amount"`
		Quantity    int32    `json:"quantity"`
		MinimumSell string   `json:"minimumSell"`
		Longitude   *float64 `json:"longitude"`
		Latitude    *float64 `json:"latitude"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	claims, _ := claimsFrom(r.Context())
	in := catalogapp.CreateListingInput{
		SellerID:    claims.Subject,
		ProductID:   req.ProductID,
		CategoryID:  req.CategoryID,
		Currency:    req.Currency,
		Amount:      req.Amount,
		Quantity:    req.Quantity,
		MinimumSell: req.MinimumSell,
	}
	if req.Longitude != nil && req.Latitude != nil {
		in.Location = &catalogdomain.GeoPoint{Longitude: *req.Longitude, Latitude: *req.Latitude}
	}

	listing, err := h.catalog.CreateListing(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Listing created", toListingResponse(listing))
}

func (h *catalogHandlers) getListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.catalog.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toListingResponse(listing))
}

func (h *catalogHandlers) myListings(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	listings, err := h.catalog.SellerListings(r.Context(), claims.Subject)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toListingResponses(listings))
}

func (h *catalogHandlers) openListings(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	listings, err := h.catalog.OpenListings(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toListingResponses(listings))
}

func toListingResponses(listings []catalogdomain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}
