package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vinith1801/Growfinix-Tech/internal/logging"
	"github.com/Vinith1801/Growfinix-Tech/internal/user"
)

var (
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrEmailRequired           = errors.New("email is required")
	ErrInvalidEmailFormat      = errors.New("invalid email format")
	ErrPasswordRequired        = errors.New("password is required")
	ErrPasswordTooShort        = errors.New("password must be at least 6 characters")
	ErrCurrentPasswordRequired = errors.New("current password is required to set a new password")
)

const minPasswordLen = 6

// Service handles account business logic: signup, login, profile reads and
// updates, and password verification/rotation.
type Service struct {
	userRepo        UserRepository
	tokenService    TokenService
	logger          *logging.Logger
	sessionDuration time.Duration
}

func NewService(userRepo UserRepository, tokenService TokenService, logger *logging.Logger, sessionDuration time.Duration) *Service {
	return &Service{
		userRepo:        userRepo,
		tokenService:    tokenService,
		logger:          logger,
		sessionDuration: sessionDuration,
	}
}

// UpdateProfileParams carries a profile update. Password is optional; when
// set, CurrentPassword must hold the account's current password.
type UpdateProfileParams struct {
	Username        string
	Email           string
	Password        string
	CurrentPassword string
}

// Signup creates a new account and issues a session token for it.
func (s *Service) Signup(ctx context.Context, email, password string) (*user.User, string, error) {
	email = normalizeEmail(email)

	if email == "" {
		return nil, "", ErrEmailRequired
	}
	if len(email) > 254 {
		return nil, "", ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmailFormat
	}
	if password == "" {
		return nil, "", ErrPasswordRequired
	}
	if len(password) < minPasswordLen {
		return nil, "", ErrPasswordTooShort
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.userRepo.Create(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, "", user.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokenService.CreateToken(newUser.ID, s.sessionDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	return newUser, token, nil
}

// Login authenticates a user and issues a session token. Unknown email and
// wrong password produce the same error so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existingUser.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(existingUser.ID, s.sessionDuration)
	if err != nil {
		return "", fmt.Errorf("failed to create session token: %w", err)
	}

	return token, nil
}

// GetCurrentUser returns the authenticated user's profile.
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	existingUser, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return existingUser, nil
}

// CheckPassword re-verifies the account's current password without mutating
// any state. The client uses this as a precondition before offering the
// new-password form; it is a UX nicety, never a security boundary.
func (s *Service) CheckPassword(ctx context.Context, userID uuid.UUID, currentPassword string) error {
	existingUser, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existingUser.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}

	return nil
}

// UpdateProfile updates username/email and optionally rotates the password.
// Password rotation always re-validates the supplied current password inside
// this call; a prior CheckPassword success is never trusted since each HTTP
// request stands alone.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) (*user.User, error) {
	email := normalizeEmail(params.Email)

	if email == "" {
		return nil, ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmailFormat
	}

	rotatePassword := params.Password != ""
	var passwordHash string
	if rotatePassword {
		if params.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if len(params.Password) < minPasswordLen {
			return nil, ErrPasswordTooShort
		}

		existingUser, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return nil, user.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get user: %w", err)
		}

		if !VerifyPassword(existingUser.PasswordHash, params.CurrentPassword) {
			return nil, ErrInvalidCredentials
		}

		passwordHash, err = HashPassword(params.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	// The profile update goes first: a rejected email change must not leave
	// a rotated password behind a failed request.
	updatedUser, err := s.userRepo.UpdateProfile(ctx, userID, strings.TrimSpace(params.Username), email)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if rotatePassword {
		if err := s.userRepo.UpdatePassword(ctx, userID, passwordHash); err != nil {
			return nil, fmt.Errorf("failed to update password: %w", err)
		}
		s.logger.Info("password rotated", "user_id", userID)
	}

	return updatedUser, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
