package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Vinith1801/Growfinix-Tech/internal/user"
)

// TokenService defines the interface for session token creation and validation.
type TokenService interface {
	CreateToken(userID uuid.UUID, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// RateLimiter bounds request rates on the credential endpoints.
type RateLimiter interface {
	Allow(ctx context.Context, purpose, ip string) (bool, error)
}

// UserRepository defines the user persistence operations the account
// service depends on.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, username, email string) (*user.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
