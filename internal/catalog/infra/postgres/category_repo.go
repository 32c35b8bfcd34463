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

type categoryRow struct {
	ID           string    `db:"id"`
	CategoryName string    `db:"category_name"`
	Image        string    `db:"image"`
	BgColor      string    `db:"bg_color"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r categoryRow) toDomain() domain.Category {
	return domain.Category{
		ID:        r.ID,
		Name:      r.CategoryName,
		Image:     r.Image,
		BgColor:   r.BgColor,
		Active:    r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type CategoryRepo struct {
	db *sqlx.DB
}

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	var row categoryRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO categories (category_name, image, bg_color, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, category_name, image, bg_color, is_active, created_at, updated_at`,
		c.Name, c.Image, c.BgColor, c.Active)
	if err != nil {
		return domain.Category{}, err
	}
	return row.toDomain(), nil
}

func (r *CategoryRepo) Get(ctx context.Context, id string) (domain.Category, error) {
	var row categoryRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, category_name, image, bg_color, is_active, created_at, updated_at
		FROM categories WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Category{}, err
	}
	return row.toDomain(), nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, category_name, image, bg_color, is_active, created_at, updated_at
		FROM categories WHERE is_active ORDER BY category_name`)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c domain.Category) (domain.Category, error) {
	var row categoryRow
	err := r.db.GetContext(ctx, &row, `
		UPDATE categories
		SET category_name = $2, image = $3, bg_color = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, category_name, image, bg_color, is_active, created_at, updated_at`,
		c.ID, c.Name, c.Image, c.BgColor)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Category{}, err
	}
	return row.toDomain(), nil
}

func (r *CategoryRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
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
