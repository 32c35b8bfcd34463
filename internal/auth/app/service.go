package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agromart/agromart/internal/auth/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

type Service struct {
	users      UserRepo
	refresh    RefreshTokenRepo
	issuer     *TokenIssuer
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(users UserRepo, refresh RefreshTokenRepo, issuer *TokenIssuer, refreshTTL time.Duration) *Service {
	return &Service{
		users:      users,
		refresh:    refresh,
		issuer:     issuer,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	MobileNo string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FullName == "" || in.Email == "" {
		return domain.User{}, fmt.Errorf("%w: full name and email are required", ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return domain.User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: string(hash),
		MobileNo:     in.MobileNo,
		Role:         domain.RoleUser,
	})
	if err != nil {
		return domain.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

type Session struct {
	User         domain.User
	AccessToken  string
	RefreshToken string
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidInput
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

func (s *Service) startSession(ctx context.Context, user domain.User) (Session, error) {
	now := s.now()
	access, err := s.issuer.Issue(user.ID, user.Role, now)
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}

	refresh := domain.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.refresh.Store(ctx, refresh); err != nil {
		return Session{}, fmt.Errorf("store refresh token: %w", err)
	}

	user.PasswordHash = ""
	return Session{User: user, AccessToken: access, RefreshToken: refresh.Token}, nil
}

// Refresh rotates the refresh token: the presented token is consumed even
// when expired, so a leaked token cannot be replayed.
func (s *Service) Refresh(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrInvalidInput
	}

	stored, err := s.refresh.Get(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidToken
	}
	if err != nil {
		return Session{}, err
	}
	if err := s.refresh.Delete(ctx, token); err != nil {
		return Session{}, err
	}
	if stored.Expired(s.now()) {
		return Session{}, fmt.Errorf("%w: refresh token expired", ErrInvalidToken)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return Session{}, err
	}
	return s.startSession(ctx, user)
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidInput
	}
	return s.refresh.DeleteByUser(ctx, userID)
}

func (s *Service) Profile(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, ErrInvalidInput
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) VerifyAccess(token string) (Claims, error) {
	return s.issuer.Verify(token)
}
