package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/agromart/agromart/internal/auth/app"
	"github.com/agromart/agromart/internal/auth/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type userRow struct {
	ID           string    `db:"id"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	MobileNo     string    `db:"mobile_no"`
	Role         string    `db:"role"`
	Avatar       string    `db:"avatar"`
	Verified     bool      `db:"verified"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		FullName:     r.FullName,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		MobileNo:     r.MobileNo,
		Role:         r.Role,
		Avatar:       r.Avatar,
		Verified:     r.Verified,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const userColumns = `id, full_name, email, password_hash, mobile_no, role,
	avatar, verified, created_at, updated_at`

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO users (full_name, email, password_hash, mobile_no, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		u.FullName, u.Email, u.PasswordHash, u.MobileNo, u.Role)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.User{}, app.ErrEmailTaken
	}
	if err != nil {
		return domain.User{}, err
	}
	return row.toDomain(), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (domain.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, app.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return row.toDomain(), nil
}
