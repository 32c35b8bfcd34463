package adapter

import (
	"context"
	"errors"

	cartapp "github.com/agromart/agromart/internal/cart/app"
	cartdomain "github.com/agromart/agromart/internal/cart/domain"
	catalogapp "github.com/agromart/agromart/internal/catalog/app"
)

// CatalogInventoryReader resolves an inventory id against both sources:
// legacy listings win, then catalog products, mirroring the add-to-cart
// lookup order of the trade API.
type CatalogInventoryReader struct {
	catalog *catalogapp.Service
}

func NewCatalogInventoryReader(catalog *catalogapp.Service) *CatalogInventoryReader {
	return &CatalogInventoryReader{catalog: catalog}
}

func (r *CatalogInventoryReader) Resolve(ctx context.Context, id string) (cartapp.InventoryInfo, error) {
	listing, err := r.catalog.GetListing(ctx, id)
	if err == nil {
		return cartapp.InventoryInfo{
			Ref:        cartdomain.ListingRef(listing.ID),
			ProductID:  listing.ProductID,
			CategoryID: listing.CategoryID,
			SellerID:   listing.SellerID,
			UnitPrice:  listing.Price.Amount,
			Currency:   listing.Price.Currency,
			Stock:      listing.Quantity,
			PriceSet:   listing.Price.Amount > 0,
		}, nil
	}
	if !errors.Is(err, catalogapp.ErrNotFound) {
		return cartapp.InventoryInfo{}, err
	}

	product, err := r.catalog.GetProduct(ctx, id)
	if errors.Is(err, catalogapp.ErrNotFound) {
		return cartapp.InventoryInfo{}, cartapp.ErrNotFound
	}
	if err != nil {
		return cartapp.InventoryInfo{}, err
	}

	return cartapp.InventoryInfo{
		Ref:        cartdomain.ProductRef(product.ID),
		ProductID:  product.ID,
		CategoryID: product.CategoryID,
		UnitPrice:  product.Price.Amount,
		Currency:   product.Price.Currency,
		Stock:      product.StockQuantity,
		PriceSet:   product.Price.Amount > 0,
	}, nil
}
