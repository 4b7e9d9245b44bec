package authservice

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/auth-service/docs" // регистрация OpenAPI-документа
	"github.com/magabrotheeeer/auth-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/auth-service/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/auth-service/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/auth-service/internal/http/handlers/health"
	"github.com/magabrotheeeer/auth-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-service/internal/models"
)

// AuthService — сценарии аутентификации, которые обслуживает роутер.
type AuthService interface {
	Login(ctx context.Context, userID, password string) (models.LoginResponse, error)
	Signup(ctx context.Context, in models.SignupInput) (models.UserResponse, error)
	GetProfile(ctx context.Context, userID string) (models.UserResponse, error)
}

// NewRouter регистрирует все маршруты приложения.
func NewRouter(
	logger *slog.Logger,
	auth AuthService,
	tokens middlewarectx.TokenParser,
	obs middlewarectx.RequestObserver,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middlewarectx.Metrics(obs),
	)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", login.New(logger, auth).ServeHTTP)
		r.Post("/signup", signup.New(logger, auth).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokens, logger))
			r.Get("/me", profile.New(logger, auth).ServeHTTP)
		})
	})

	r.Get("/health", health.New().ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}
