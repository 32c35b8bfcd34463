package app

import (
	"context"
	"errors"
	"strings"

	"github.com/agromart/agromart/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	products   ProductRepo
	categories CategoryRepo
	listings   ListingRepo
}

func NewService(products ProductRepo, categories CategoryRepo, listings ListingRepo) *Service {
	return &Service{
		products:   products,
		categories: categories,
		listings:   listings,
	}
}

type CreateProductInput struct {
	Name          string
	Description   string
	Currency      string
	Amount        int64
	StockQuantity int32
	MinOrderQty   int32
	Unit          string
	CategoryID    string
	Featured      bool
}

func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Currency = strings.TrimSpace(in.Currency)

	if in.Name == "" || in.Currency == "" || in.Amount <= 0 || in.CategoryID == "" {
		return domain.Product{}, ErrInvalidInput
	}
	if in.StockQuantity < 0 {
		return domain.Product{}, ErrInvalidInput
	}
	if in.MinOrderQty <= 0 {
		in.MinOrderQty = 1
	}
	if in.Unit == "" {
		in.Unit = "kg"
	}

	p := domain.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         domain.Money{Currency: in.Currency, Amount: in.Amount},
		StockQuantity: in.StockQuantity,
		MinOrderQty:   in.MinOrderQty,
		Unit:          in.Unit,
		CategoryID:    in.CategoryID,
		Active:        true,
		Featured:      in.Featured,
	}

	return s.products.Create(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.products.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, categoryID string, featuredOnly bool, limit int, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.products.List(ctx, categoryID, featuredOnly, limit, cursor)
}

type UpdateProductInput struct {
	ID            string
	Name          string
	Description   string
	Amount        int64
	StockQuantity int32
	Featured      *bool
}

func (s *Service) UpdateProduct(ctx context.Context, in UpdateProductInput) (domain.Product, error) {
	if strings.TrimSpace(in.ID) == "" {
		return domain.Product{}, ErrInvalidInput
	}

	p, err := s.products.Get(ctx, in.ID)
	if err != nil {
		return domain.Product{}, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		p.Name = name
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Amount > 0 {
		p.Price.Amount = in.Amount
	}
	if in.StockQuantity >= 0 {
		p.StockQuantity = in.StockQuantity
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}

	return s.products.Update(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.products.Deactivate(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, name, image, bgColor string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, ErrInvalidInput
	}
	return s.categories.Create(ctx, domain.Category{
		Name:    name,
		Image:   image,
		BgColor: bgColor,
		Active:  true,
	})
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) UpdateCategory(ctx context.Context, id, name, image, bgColor string) (domain.Category, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Category{}, ErrInvalidInput
	}
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}
	if name = strings.TrimSpace(name); name != "" {
		c.Name = name
	}
	if image != "" {
		c.Image = image
	}
	if bgColor != "" {
		c.BgColor = bgColor
	}
	return s.categories.Update(ctx, c)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.categories.Deactivate(ctx, id)
}

type CreateListingInput struct {
	SellerID    string
	ProductID   string
	CategoryID  string
	Currency    string
	Amount      int64
	Quantity    int32
	MinimumSell string
	Location    *domain.GeoPoint
}

func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (domain.Listing, error) {
	if in.SellerID == "" || in.ProductID == "" || in.Amount <= 0 || in.Quantity <= 0 {
		return domain.Listing{}, ErrInvalidInput
	}

	product, err := s.products.Get(ctx, in.ProductID)
	if err != nil {
		return domain.Listing{}, err
	}

	categoryID := in.CategoryID
	if categoryID == "" {
		categoryID = product.CategoryID
	}
	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		currency = product.Price.Currency
	}

	return s.listings.Create(ctx, domain.Listing{
		SellerID:    in.SellerID,
		ProductID:   in.ProductID,
		CategoryID:  categoryID,
		Price:       domain.Money{Currency: currency, Amount: in.Amount},
		Quantity:    in.Quantity,
		MinimumSell: in.MinimumSell,
		Location:    in.Location,
	})
}

func (s *Service) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Listing{}, ErrInvalidInput
	}
	return s.listings.Get(ctx, id)
}

func (s *Service) SellerListings(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	if sellerID == "" {
		return nil, ErrInvalidInput
	}
	return s.listings.ListBySeller(ctx, sellerID)
}

func (s *Service) OpenListings(ctx context.Context, limit int) ([]domain.Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.listings.ListOpen(ctx, limit)
}
