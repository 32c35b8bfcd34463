package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/agromart/agromart/internal/catalog/app"
	"github.com/agromart/agromart/internal/catalog/domain"
	"github.com/jmoiron/sqlx"
)

type listingRow struct {
	ID          string          `db:"id"`
	SellerID    string          `db:"seller_id"`
	ProductID   string          `db:"product_id"`
	CategoryID  string          `db:"category_id"`
	PriceAmount int64           `db:"price_amount"`
	Currency    string          `db:"currency"`
	Quantity    int32           `db:"quantity"`
	MinimumSell string          `db:"minimum_sell"`
	Longitude   sql.NullFloat64 `db:"longitude"`
	Latitude    sql.NullFloat64 `db:"latitude"`
	IsSold      bool            `db:"is_sold"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r listingRow) toDomain() domain.Listing {
	l := domain.Listing{
		ID:          r.ID,
		SellerID:    r.SellerID,
		ProductID:   r.ProductID,
		CategoryID:  r.CategoryID,
		Price:       domain.Money{Currency: r.Currency, Amount: r.PriceAmount},
		Quantity:    r.Quantity,
		MinimumSell: r.MinimumSell,
		Sold:        r.IsSold,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Longitude.Valid && r.Latitude.Valid {
		l.Location = &domain.GeoPoint{Longitude: r.Longitude.Float64, Latitude: r.Latitude.Float64}
	}
	return l
}

const listingColumns = `id, seller_id, product_id, category_id, price_amount,
	currency, quantity, minimum_sell, longitude, latitude, is_sold, created_at, updated_at`

type ListingRepo struct {
	db *sqlx.DB
}

func NewListingRepo(db *sqlx.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

func (r *ListingRepo) Create(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	var lon, lat sql.NullFloat64
	if l.Location != nil {
		lon = sql.NullFloat64{Float64: l.Location.Longitude, Valid: true}
		lat = sql.NullFloat64{Float64: l.Location.Latitude, Valid: true}
	}

	var row listingRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO listings (seller_id, product_id, category_id, price_amount,
			currency, quantity, minimum_sell, longitude, latitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+listingColumns,
		l.SellerID, l.ProductID, l.CategoryID, l.Price.Amount, l.Price.Currency,
		l.Quantity, l.MinimumSell, lon, lat)
	if err != nil {
		return domain.Listing{}, err
	}
	return row.toDomain(), nil
}

func (r *ListingRepo) Get(ctx context.Context, id string) (domain.Listing, error) {
	var row listingRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Listing{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Listing{}, err
	}
	return row.toDomain(), nil
}

func (r *ListingRepo) ListBySeller(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	var rows []listingRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+listingColumns+` FROM listings WHERE seller_id = $1 ORDER BY created_at DESC`,
		sellerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ListingRepo) ListOpen(ctx context.Context, limit int) ([]domain.Listing, error) {
	var rows []listingRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+listingColumns+` FROM listings
		WHERE NOT is_sold AND quantity > 0
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
