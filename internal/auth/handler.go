package auth

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Vinith1801/Growfinix-Tech/internal/httputil"
	"github.com/Vinith1801/Growfinix-Tech/internal/logging"
	"github.com/Vinith1801/Growfinix-Tech/internal/user"
)

// Handler contains HTTP handlers for account endpoints. Logging goes through
// the request-scoped logger installed by the router middleware.
type Handler struct {
	service         *Service
	rateLimiter     RateLimiter
	isProduction    bool
	sessionDuration time.Duration
}

func NewHandler(service *Service, rateLimiter RateLimiter, isProduction bool, sessionDuration time.Duration) *Handler {
	return &Handler{
		service:         service,
		rateLimiter:     rateLimiter,
		isProduction:    isProduction,
		sessionDuration: sessionDuration,
	}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyPasswordRequest represents the password verification request body
type VerifyPasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
}

// UpdateProfileRequest represents the profile update request body
type UpdateProfileRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password,omitempty"`
	CurrentPassword string `json:"currentPassword,omitempty"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SignupResponse represents the signup response
type SignupResponse struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Signup handles account creation
// @Summary      Sign up
// @Description  Create a new account with email and password. Sets the session cookie on success.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup credentials"
// @Success      201 {object} SignupResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid input"
// @Failure      409 {object} httputil.ErrorResponse "Email already registered"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allowRate(w, r, "signup") {
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	newUser, token, err := h.service.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			logger.Warn("signup failed: email already exists")
			httputil.RespondError(w, "email already registered", httputil.CodeEmailAlreadyExists, http.StatusConflict)
		case errors.Is(err, ErrEmailRequired):
			httputil.RespondError(w, err.Error(), httputil.CodeEmailRequired, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidEmailFormat):
			httputil.RespondError(w, err.Error(), httputil.CodeInvalidEmailFormat, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordRequired):
			httputil.RespondError(w, err.Error(), httputil.CodePasswordRequired, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordTooShort):
			httputil.RespondError(w, err.Error(), httputil.CodePasswordTooShort, http.StatusBadRequest)
		default:
			logger.Error("signup failed: internal error", "error", err.Error())
			httputil.RespondError(w, "failed to sign up", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user signed up", "user_id", newUser.ID)

	SetSessionCookie(w, token, h.isProduction, h.sessionDuration)
	httputil.RespondJSON(w, SignupResponse{
		User:    toUserResponse(newUser),
		Message: "Signup successful",
	}, http.StatusCreated)
}

// Login handles user login
// @Summary      Log in
// @Description  Authenticate with email and password. Sets the session cookie on success.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allowRate(w, r, "login") {
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondError(w, "invalid email or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondError(w, "failed to login", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in")

	SetSessionCookie(w, token, h.isProduction, h.sessionDuration)
	httputil.RespondMessage(w, "Login successful", http.StatusOK)
}

// Logout handles user logout
// @Summary      Log out
// @Description  Clear the session cookie. Idempotent.
// @Tags         auth
// @Produce      json
// @Success      200 {object} httputil.MessageResponse
// @Router       /api/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ClearSessionCookie(w)

	logger.Info("user logged out")
	httputil.RespondMessage(w, "Logged out", http.StatusOK)
}

// Me returns the authenticated user's profile
// @Summary      Current user
// @Description  Return the authenticated user's profile, without password material.
// @Tags         auth
// @Produce      json
// @Success      200 {object} UserResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		// The middleware guarantees this; double-check anyway.
		httputil.RespondError(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	currentUser, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			logger.Warn("current user not found", "user_id", userID)
			httputil.RespondError(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get current user", "error", err.Error())
		httputil.RespondError(w, "failed to get user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, toUserResponse(currentUser), http.StatusOK)
}

// VerifyPassword re-checks the current password
// @Summary      Verify current password
// @Description  Re-check the supplied current password against the stored hash. No state change.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body VerifyPasswordRequest true "Current password"
// @Success      200 {object} httputil.MessageResponse
// @Failure      401 {object} httputil.ErrorResponse "Incorrect password"
// @Router       /api/auth/verify-password [post]
func (h *Handler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req VerifyPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.service.CheckPassword(r.Context(), userID, req.CurrentPassword); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("password verification failed")
			httputil.RespondError(w, "incorrect password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
			return
		}
		logger.Error("password verification failed: internal error", "error", err.Error())
		httputil.RespondError(w, "failed to verify password", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondMessage(w, "Password verified", http.StatusOK)
}

// UpdateMe updates the authenticated user's profile
// @Summary      Update profile
// @Description  Update username/email, and optionally rotate the password after re-verifying the current one.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} UserResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid input"
// @Failure      401 {object} httputil.ErrorResponse "Wrong current password"
// @Failure      409 {object} httputil.ErrorResponse "Email already registered"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/auth/me [put]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updatedUser, err := h.service.UpdateProfile(r.Context(), userID, UpdateProfileParams{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		CurrentPassword: req.CurrentPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrCurrentPasswordRequired):
			httputil.RespondError(w, err.Error(), httputil.CodeCurrentPasswordRequired, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidCredentials):
			logger.Warn("profile update failed: wrong current password")
			httputil.RespondError(w, "incorrect current password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
		case errors.Is(err, ErrEmailRequired):
			httputil.RespondError(w, err.Error(), httputil.CodeEmailRequired, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidEmailFormat):
			httputil.RespondError(w, err.Error(), httputil.CodeInvalidEmailFormat, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordTooShort):
			httputil.RespondError(w, err.Error(), httputil.CodePasswordTooShort, http.StatusBadRequest)
		case errors.Is(err, user.ErrDuplicateEmail):
			httputil.RespondError(w, "email already registered", httputil.CodeEmailAlreadyExists, http.StatusConflict)
		case errors.Is(err, user.ErrNotFound):
			httputil.RespondError(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
		default:
			logger.Error("profile update failed: internal error", "error", err.Error())
			httputil.RespondError(w, "failed to update profile", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("profile updated", "user_id", userID)
	httputil.RespondJSON(w, toUserResponse(updatedUser), http.StatusOK)
}

// allowRate applies the fixed-window limiter for the given purpose. Limiter
// errors fail open so a Redis outage never locks users out.
func (h *Handler) allowRate(w http.ResponseWriter, r *http.Request, purpose string) bool {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := getClientIP(r)
	allowed, err := h.rateLimiter.Allow(r.Context(), purpose, ip)
	if err != nil {
		logger.Error("failed to check rate limit", "error", err.Error())
		return true
	}
	if !allowed {
		logger.Warn("rate limit exceeded", "purpose", purpose, "ip", ip)
		httputil.RespondError(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return false
	}
	return true
}

// getClientIP returns the client address used for rate-limit keying. The
// RealIP middleware has already resolved any forwarding headers into
// RemoteAddr, so only the host part is needed here.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
