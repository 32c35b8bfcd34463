package domain

import "time"

// InventoryKind names which inventory source governs a cart item.
type InventoryKind string

const (
	KindListing InventoryKind = "listing"
	KindProduct InventoryKind = "product"
)

// InventoryRef points at exactly one inventory record. Modeled as an explicit
// variant so checkout can branch exhaustively instead of probing two optional
// foreign keys.
type InventoryRef struct {
	Kind InventoryKind
	ID   string
}

func ListingRef(id string) InventoryRef { return InventoryRef{Kind: KindListing, ID: id} }
func ProductRef(id string) InventoryRef { return InventoryRef{Kind: KindProduct, ID: id} }

type CartItem struct {
	ID          string
	UserID      string
	Ref         InventoryRef
	ProductID   string // catalog product behind the ref (resolved for listings)
	CategoryID  string
	Quantity    int32
	TotalAmount int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ResolvedCartItem carries display names alongside the raw item for the
// cart listing endpoint.
type ResolvedCartItem struct {
	CartItem
	ProductName  string
	CategoryName string
	UnitPrice    int64
}
