package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/agromart/agromart/internal/cart/app"
	"github.com/agromart/agromart/internal/cart/domain"
	"github.com/jmoiron/sqlx"
)

type cartRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	ListingID   sql.NullString `db:"listing_id"`
	ProductID   sql.NullString `db:"product_id"`
	CategoryID  sql.NullString `db:"category_id"`
	Quantity    int32          `db:"quantity"`
	TotalAmount int64          `db:"total_amount"`
	IsActive    bool           `db:"is_active"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r cartRow) toDomain() domain.CartItem {
	item := domain.CartItem{
		ID:          r.ID,
		UserID:      r.UserID,
		ProductID:   r.ProductID.String,
		CategoryID:  r.CategoryID.String,
		Quantity:    r.Quantity,
		TotalAmount: r.TotalAmount,
		Active:      r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.ListingID.Valid {
		item.Ref = domain.ListingRef(r.ListingID.String)
	} else {
		item.Ref = domain.ProductRef(r.ProductID.String)
	}
	return item
}

const cartColumns = `id, user_id, listing_id, product_id, category_id,
	quantity, total_amount, is_active, created_at, updated_at`

type CartRepo struct {
	db *sqlx.DB
}

func NewCartRepo(db *sqlx.DB) *CartRepo {
	return &CartRepo{db: db}
}

func (r *CartRepo) Create(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	var listingID sql.NullString
	if item.Ref.Kind == domain.KindListing {
		listingID = sql.NullString{String: item.Ref.ID, Valid: true}
	}

	var row cartRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO cart_items (user_id, listing_id, product_id, category_id, quantity, total_amount, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+cartColumns,
		item.UserID, listingID, nullable(item.ProductID), nullable(item.CategoryID),
		item.Quantity, item.TotalAmount, item.Active)
	if err != nil {
		return domain.CartItem{}, err
	}
	return row.toDomain(), nil
}

func (r *CartRepo) Get(ctx context.Context, userID, id string) (domain.CartItem, error) {
	var row cartRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+cartColumns+` FROM cart_items WHERE id = $1 AND user_id = $2`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CartItem{}, app.ErrNotFound
	}
	if err != nil {
		return domain.CartItem{}, err
	}
	return row.toDomain(), nil
}

type resolvedCartRow struct {
	cartRow
	ProductName  sql.NullString `db:"product_name"`
	CategoryName sql.NullString `db:"category_name"`
	UnitPrice    sql.NullInt64  `db:"unit_price"`
}

func (r *CartRepo) ListActive(ctx context.Context, userID string) ([]domain.ResolvedCartItem, error) {
	var rows []resolvedCartRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT ci.id, ci.user_id, ci.listing_id, ci.product_id, ci.category_id,
			ci.quantity, ci.total_amount, ci.is_active, ci.created_at, ci.updated_at,
			p.product_name AS product_name,
			c.category_name AS category_name,
			COALESCE(l.price_amount, p.price_amount) AS unit_price
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		LEFT JOIN categories c ON c.id = ci.category_id
		LEFT JOIN listings l ON l.id = ci.listing_id
		WHERE ci.user_id = $1 AND ci.is_active
		ORDER BY ci.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ResolvedCartItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ResolvedCartItem{
			CartItem:     row.toDomain(),
			ProductName:  row.ProductName.String,
			CategoryName: row.CategoryName.String,
			UnitPrice:    row.UnitPrice.Int64,
		})
	}
	return out, nil
}

func (r *CartRepo) Update(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	var row cartRow
	err := r.db.GetContext(ctx, &row, `
		UPDATE cart_items
		SET quantity = $3, total_amount = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND is_active
		RETURNING `+cartColumns,
		item.ID, item.UserID, item.Quantity, item.TotalAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CartItem{}, app.ErrNotFound
	}
	if err != nil {
		return domain.CartItem{}, err
	}
	return row.toDomain(), nil
}

func (r *CartRepo) Deactivate(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items SET is_active = FALSE, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND is_active`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
