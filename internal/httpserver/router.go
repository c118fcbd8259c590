package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fish11112222/naha2/internal/config"
	"github.com/fish11112222/naha2/internal/domain"
	"github.com/fish11112222/naha2/internal/service"

	_ "github.com/fish11112222/naha2/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter constructs the main HTTP router and wires routes, services, and
// middleware around the selected storage backend.
func NewRouter(cfg *config.Config, storage domain.Storage) http.Handler {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Services
	authSvc := service.NewAuthService(storage)
	userSvc := service.NewUserService(storage)
	msgSvc := service.NewMessageService(storage, cfg.DefaultPageSize)
	themeSvc := service.NewThemeService(storage)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": cfg.AppName,
			"version": "1.0.0",
			"docs":    "/docs",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Swagger documentation
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", handleSignUp(authSvc))
			r.Post("/signin", handleSignIn(authSvc))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", handleListMessages(msgSvc))
			r.Post("/", handleCreateMessage(msgSvc))
			r.Put("/{messageID}", handleUpdateMessage(msgSvc))
			r.Patch("/{messageID}", handleUpdateMessage(msgSvc))
			r.Delete("/{messageID}", handleDeleteMessage(msgSvc))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", handleListUsers(userSvc))
			r.Get("/count", handleUsersCount(userSvc))
			r.Get("/total", handleTotalUsersCount(userSvc))
			r.Get("/online", handleOnlineUsers(userSvc))

			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/profile", handleGetProfile(userSvc))
				r.Put("/profile", handleUpdateProfile(userSvc))
				r.Post("/activity", handleActivity(userSvc))
				r.Get("/messages/count", handleUserMessageCount(userSvc))
			})
		})

		r.Route("/theme", func(r chi.Router) {
			r.Get("/", handleGetTheme(themeSvc))
			r.Post("/", handleSetTheme(themeSvc))
		})
	})

	return r
}

// writeJSON is a small helper to send JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeMessage sends the `{"message": ...}` error body used across the API.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeValidation renders a ValidationError as a 400 with field detail.
func writeValidation(w http.ResponseWriter, ve *domain.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"message": "Validation error",
		"errors":  ve.Fields,
	})
}

// asValidation extracts a *domain.ValidationError from err, if present.
func asValidation(err error) (*domain.ValidationError, bool) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
