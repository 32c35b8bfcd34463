package adapter

import (
	"context"

	catalogapp "github.com/agromart/agromart/internal/catalog/app"
)

// CatalogServiceReader satisfies checkout's CatalogReader port with the
// catalog application service.
type CatalogServiceReader struct {
	catalog *catalogapp.Service
}

func NewCatalogServiceReader(catalog *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{catalog: catalog}
}

func (r *CatalogServiceReader) ProductName(ctx context.Context, productID string) (string, error) {
	product, err := r.catalog.GetProduct(ctx, productID)
	if err != nil {
		return "", err
	}
	return product.Name, nil
}
