package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/agromart/agromart/internal/catalog/domain"
)

type fakeProductRepo struct {
	products map[string]domain.Product
	nextID   int

	lastListLimit int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]domain.Product{}}
}

func (f *fakeProductRepo) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	f.nextID++
	p.ID = fmt.Sprintf("p-%d", f.nextID)
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeProductRepo) Get(_ context.Context, id string) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) List(_ context.Context, categoryID string, featuredOnly bool, limit int, _ string) ([]domain.Product, string, error) {
	f.lastListLimit = limit
	var out []domain.Product
	for _, p := range f.products {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		if featuredOnly && !p.Featured {
			continue
		}
		out = append(out, p)
	}
	return out, "", nil
}

func (f *fakeProductRepo) Update(_ context.Context, p domain.Product) (domain.Product, error) {
	if _, ok := f.products[p.ID]; !ok {
		return domain.Product{}, ErrNotFound
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeProductRepo) Deactivate(_ context.Context, id string) error {
	p, ok := f.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Active = false
	f.products[id] = p
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]domain.Category
}

func (f *fakeCategoryRepo) Create(_ context.Context, c domain.Category) (domain.Category, error) {
	c.ID = fmt.Sprintf("c-%d", len(f.categories)+1)
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeCategoryRepo) Get(_ context.Context, id string) (domain.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return domain.Category{}, ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, c domain.Category) (domain.Category, error) {
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeCategoryRepo) Deactivate(_ context.Context, id string) error {
	c, ok := f.categories[id]
	if !ok {
		return ErrNotFound
	}
	c.Active = false
	f.categories[id] = c
	return nil
}

type fakeListingRepo struct {
	listings map[string]domain.Listing
}

func (f *fakeListingRepo) Create(_ context.Context, l domain.Listing) (domain.Listing, error) {
	l.ID = fmt.Sprintf("l-%d", len(f.listings)+1)
	f.listings[l.ID] = l
	return l, nil
}

func (f *fakeListingRepo) Get(_ context.Context, id string) (domain.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return domain.Listing{}, ErrNotFound
	}
	return l, nil
}

func (f *fakeListingRepo) ListBySeller(_ context.Context, sellerID string) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range f.listings {
		if l.SellerID == sellerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) ListOpen(_ context.Context, _ int) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range f.listings {
		if !l.Sold {
			out = append(out, l)
		}
	}
	return out, nil
}

func newCatalogService() (*Service, *fakeProductRepo, *fakeListingRepo) {
	products := newFakeProductRepo()
	listings := &fakeListingRepo{listings: map[string]domain.Listing{}}
	categories := &fakeCategoryRepo{categories: map[string]domain.Category{}}
	return NewService(products, categories, listings), products, listings
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCatalogService()

	t.Run("applies defaults", func(t *testing.T) {
		p, err := svc.CreateProduct(ctx, CreateProductInput{
			Name: " Basmati Rice ", Currency: "USD", Amount: 500, CategoryID: "c-1",
		})
		if err != nil {
			t.Fatalf("CreateProduct: %v", err)
		}
		if p.Name != "Basmati Rice" {
			t.Errorf("name = %q, want trimmed", p.Name)
		}
		if p.MinOrderQty != 1 || p.Unit != "kg" {
			t.Errorf("defaults not applied: minOrderQty=%d unit=%q", p.MinOrderQty, p.Unit)
		}
		if !p.Active {
			t.Error("new product should be active")
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		bad := []CreateProductInput{
			{Currency: "USD", Amount: 100, CategoryID: "c-1"},          // no name
			{Name: "x", Amount: 100, CategoryID: "c-1"},                // no currency
			{Name: "x", Currency: "USD", Amount: 0, CategoryID: "c-1"}, // zero price
			{Name: "x", Currency: "USD", Amount: 100},                  // no category
		}
		for i, in := range bad {
			if _, err := svc.CreateProduct(ctx, in); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("case %d: err = %v, want ErrInvalidInput", i, err)
			}
		}
	})
}

func TestListProductsClampsLimit(t *testing.T) {
	ctx := context.Background()
	svc, products, _ := newCatalogService()

	if _, _, err := svc.ListProducts(ctx, "", false, 0, ""); err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if products.lastListLimit != 20 {
		t.Errorf("default limit = %d, want 20", products.lastListLimit)
	}

	if _, _, err := svc.ListProducts(ctx, "", false, 500, ""); err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if products.lastListLimit != 100 {
		t.Errorf("clamped limit = %d, want 100", products.lastListLimit)
	}
}

func TestCreateListingInheritsFromProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCatalogService()

	p, err := svc.CreateProduct(ctx, CreateProductInput{
		Name: "Alphonso Mango", Currency: "INR", Amount: 900, CategoryID: "c-7",
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	l, err := svc.CreateListing(ctx, CreateListingInput{
		SellerID: "seller-1", ProductID: p.ID, Amount: 850, Quantity: 40,
	})
	if err != nil {
		t.Fatalf("CreateListing: %v", err)
	}
	if l.CategoryID != "c-7" {
		t.Errorf("category = %q, want inherited c-7", l.CategoryID)
	}
	if l.Price.Currency != "INR" {
		t.Errorf("currency = %q, want inherited INR", l.Price.Currency)
	}

	if _, err := svc.CreateListing(ctx, CreateListingInput{
		SellerID: "seller-1", ProductID: "missing", Amount: 850, Quantity: 40,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown product err = %v, want ErrNotFound", err)
	}
}
