package domain

import "time"

// InventoryKind names which of the two inventory sources governs a cart
// line: a legacy seller-owned listing or centralized catalog stock.
type InventoryKind string

const (
	KindListing InventoryKind = "listing"
	KindProduct InventoryKind = "product"
)

// InventoryRef is a tagged union so the checkout branch is exhaustive
// rather than probing two optional foreign keys.
type InventoryRef struct {
	Kind InventoryKind
	ID   string
}

type GeoPoint struct {
	Longitude float64
	Latitude  float64
}

type DeliveryAddress struct {
	Label      string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	Location   *GeoPoint
}

// CartLine is checkout's view of an active cart item at transaction start.
type CartLine struct {
	ID          string
	BuyerID     string
	Ref         InventoryRef
	ProductID   string // catalog product behind the ref; for listings, the listing's product
	SellerID    string // set only for listing-backed lines
	CategoryID  string
	Quantity    int32
	TotalAmount int64
}

const (
	OrderStatusInitialized = "initialized"
	OrderStatusPending     = "pending"
	OrderStatusComplete    = "complete"
)

// NewOrder is the record checkout inserts, one per consumed cart line.
type NewOrder struct {
	BuyerID       string
	SellerID      string
	CartItemID    string
	ProductID     string
	ListingID     string
	CategoryID    string
	Quantity      int32
	TotalAmount   int64
	PaymentIntent string
	Status        string
	IsPaid        bool
	Address       DeliveryAddress
}

// PlacedOrder is a created order, reference names resolved for the response.
type PlacedOrder struct {
	ID            string
	BuyerID       string
	SellerID      string
	CartItemID    string
	ProductID     string
	ProductName   string
	ListingID     string
	CategoryID    string
	Quantity      int32
	TotalAmount   int64
	PaymentIntent string
	Status        string
	IsPaid        bool
	Address       DeliveryAddress
	CreatedAt     time.Time
}
