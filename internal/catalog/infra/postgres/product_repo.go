package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agromart/agromart/internal/catalog/app"
	"github.com/agromart/agromart/internal/catalog/domain"
	"github.com/jmoiron/sqlx"
)

type productRow struct {
	ID            string    `db:"id"`
	ProductName   string    `db:"product_name"`
	Description   string    `db:"description"`
	PriceAmount   int64     `db:"price_amount"`
	Currency      string    `db:"currency"`
	StockQuantity int32     `db:"stock_quantity"`
	MinOrderQty   int32     `db:"min_order_qty"`
	Unit          string    `db:"unit"`
	CategoryID    string    `db:"category_id"`
	IsActive      bool      `db:"is_active"`
	IsFeatured    bool      `db:"is_featured"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ID:            r.ID,
		Name:          r.ProductName,
		Description:   r.Description,
		Price:         domain.Money{Currency: r.Currency, Amount: r.PriceAmount},
		StockQuantity: r.StockQuantity,
		MinOrderQty:   r.MinOrderQty,
		Unit:          r.Unit,
		CategoryID:    r.CategoryID,
		Active:        r.IsActive,
		Featured:      r.IsFeatured,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

const productColumns = `id, product_name, description, price_amount, currency,
	stock_quantity, min_order_qty, unit, category_id, is_active, is_featured,
	created_at, updated_at`

type ProductRepo struct {
	db *sqlx.DB
}

func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO products (product_name, description, price_amount, currency,
			stock_quantity, min_order_qty, unit, category_id, is_active, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+productColumns,
		p.Name, p.Description, p.Price.Amount, p.Price.Currency,
		p.StockQuantity, p.MinOrderQty, p.Unit, p.CategoryID, p.Active, p.Featured)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) List(ctx context.Context, categoryID string, featuredOnly bool, limit int, cursor string) ([]domain.Product, string, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active`
	args := []any{}
	n := 1

	if strings.TrimSpace(categoryID) != "" {
		query += fmt.Sprintf(" AND category_id = $%d", n)
		args = append(args, categoryID)
		n++
	}
	if featuredOnly {
		query += " AND is_featured"
	}
	if strings.TrimSpace(cursor) != "" {
		query += fmt.Sprintf(" AND id > $%d", n)
		args = append(args, strings.TrimSpace(cursor))
		n++
	}
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d", n)
	args = append(args, limit)

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, "", err
	}

	out := make([]domain.Product, 0, len(rows))
	var nextCursor string
	for _, row := range rows {
		out = append(out, row.toDomain())
		nextCursor = row.ID
	}
	if len(out) < limit {
		nextCursor = ""
	}
	return out, nextCursor, nil
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `
		UPDATE products
		SET product_name = $2, description = $3, price_amount = $4,
			stock_quantity = $5, is_featured = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.Price.Amount, p.StockQuantity, p.Featured)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
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
