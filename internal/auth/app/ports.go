package app

import (
	"context"

	"github.com/agromart/agromart/internal/auth/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

type RefreshTokenRepo interface {
	Store(ctx context.Context, t domain.RefreshToken) error
	Get(ctx context.Context, token string) (domain.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
}
