package domain

import "time"

const (
	StatusInitialized = "initialized"
	StatusPending     = "pending"
	StatusComplete    = "complete"
)

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

// Order is immutable after creation except for its fulfillment status.
type Order struct {
	ID            string
	BuyerID       string
	SellerID      string
	CartItemID    string
	ProductID     string
	ListingID     string
	CategoryID    string
	Quantity      int32
	TotalAmount   int64
	PaymentIntent string
	PaymentMethod string
	Status        string
	IsPaid        bool
	Active        bool
	RefID         string
	Address       DeliveryAddress
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ResolvedOrder carries display fields for listing endpoints.
type ResolvedOrder struct {
	Order
	ProductName  string
	CategoryName string
	BuyerName    string
	SellerName   string
}

// PaymentSummary is the payment attempt attached to an order in admin views.
type PaymentSummary struct {
	AttemptID     string
	PaymentID     string
	Status        string
	Amount        int64
	Currency      string
	PaymentMethod string
	ErrorMessage  string
}

type OrderWithPayment struct {
	ResolvedOrder
	Payment *PaymentSummary
}
