package domain

import "time"

type Money struct {
	Currency string
	Amount   int64
}

// Product is centrally managed catalog stock, owned by the platform.
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         Money
	StockQuantity int32
	MinOrderQty   int32
	Unit          string
	CategoryID    string
	Active        bool
	Featured      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Category struct {
	ID        string
	Name      string
	Image     string
	BgColor   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
