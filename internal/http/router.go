package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Vinith1801/Growfinix-Tech/internal/auth"
	"github.com/Vinith1801/Growfinix-Tech/internal/config"
	"github.com/Vinith1801/Growfinix-Tech/internal/httputil"
	"github.com/Vinith1801/Growfinix-Tech/internal/logging"
	"github.com/Vinith1801/Growfinix-Tech/internal/note"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, authHandler *auth.Handler, noteHandler *note.Handler, authMiddleware *auth.Middleware, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first. Credentials are allowed because the session
	// rides in a cookie.
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	// Public routes
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		// Auth routes; signup/login/logout need no session
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Get("/me", authHandler.Me)
				r.Put("/me", authHandler.UpdateMe)
				r.Post("/verify-password", authHandler.VerifyPassword)
			})
		})

		// Note routes are all owner-scoped
		r.Route("/notes", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/", noteHandler.Create)
			r.Get("/", noteHandler.List)
			r.Get("/{id}", noteHandler.Get)
			r.Put("/{id}", noteHandler.Update)
			r.Delete("/{id}", noteHandler.Delete)
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
