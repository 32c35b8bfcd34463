package app

import (
	"context"

	"github.com/agromart/agromart/internal/catalog/domain"
)

type ProductRepo interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, categoryID string, featuredOnly bool, limit int, cursor string) ([]domain.Product, string, error)
	Update(ctx context.Context, p domain.Product) (domain.Product, error)
	Deactivate(ctx context.Context, id string) error
}

type CategoryRepo interface {
	Create(ctx context.Context, c domain.Category) (domain.Category, error)
	Get(ctx context.Context, id string) (domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, c domain.Category) (domain.Category, error)
	Deactivate(ctx context.Context, id string) error
}

type ListingRepo interface {
	Create(ctx context.Context, l domain.Listing) (domain.Listing, error)
	Get(ctx context.Context, id string) (domain.Listing, error)
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Listing, error)
	ListOpen(ctx context.Context, limit int) ([]domain.Listing, error)
}
