package domain

import "time"

type GeoPoint struct {
	Longitude float64
	Latitude  float64
}

// Listing is legacy seller-owned stock with its own price and quantity,
// distinct from the centralized product stock.
type Listing struct {
	ID          string
	SellerID    string
	ProductID   string
	CategoryID  string
	Price       Money
	Quantity    int32
	MinimumSell string
	Location    *GeoPoint
	Sold        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
