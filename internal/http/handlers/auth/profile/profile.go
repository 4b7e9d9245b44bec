// Package profile реализует HTTP-обработчик профиля текущего пользователя.
// Обработчик ставится за JWTMiddleware и читает userId из контекста запроса.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/auth-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-service/internal/http/response"
	"github.com/magabrotheeeer/auth-service/internal/lib/sl"
	"github.com/magabrotheeeer/auth-service/internal/models"
	services "github.com/magabrotheeeer/auth-service/internal/services/auth"
)

// Service описывает получение профиля.
type Service interface {
	GetProfile(ctx context.Context, userID string) (models.UserResponse, error)
}

// Handler обрабатывает запросы профиля.
type Handler struct {
	log  *slog.Logger
	auth Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:  log,
		auth: auth,
	}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает пользователя из bearer-токена. Удалённый пользователь даёт 401.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse "Профиль"
// @Failure 401 {object} response.ErrorResponse "Нет токена, токен недействителен или пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Info("user id missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.auth.GetProfile(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			log.Info("profile of missing user requested", slog.String("user_id", userID))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
		default:
			log.Error("failed to get profile", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	render.JSON(w, r, user)
}
