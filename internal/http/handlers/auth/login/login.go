// Package login реализует HTTP-обработчик входа пользователя.
//
// Тело запроса декодируется и проверяется до вызова сервиса аутентификации.
// Неизвестный userId и неверный пароль дают одинаковый ответ 401.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/auth-service/internal/http/response"
	"github.com/magabrotheeeer/auth-service/internal/lib/sl"
	"github.com/magabrotheeeer/auth-service/internal/lib/validation"
	"github.com/magabrotheeeer/auth-service/internal/models"
	services "github.com/magabrotheeeer/auth-service/internal/services/auth"
)

// Request — учетные данные для входа.
type Request struct {
	UserID   string `json:"userId" validate:"required" example:"u1"`
	Password string `json:"password" validate:"required" example:"pw123"`
}

// Service описывает вход пользователя.
type Service interface {
	Login(ctx context.Context, userID, password string) (models.LoginResponse, error)
}

// Handler обрабатывает HTTP-запросы для входа.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validation.Validator
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет userId и пароль, увеличивает счётчик входов и выдаёт JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} models.LoginResponse "Успешный вход"
// @Failure 400 {object} response.ValidationErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if res := h.validate.Struct(req); !res.OK() {
		log.Info("validation failed", slog.String("errors", res.Error()))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(res))
		return
	}

	resp, err := h.auth.Login(r.Context(), req.UserID, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Info("login rejected", slog.String("user_id", req.UserID))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
		default:
			log.Error("login failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("login success", slog.String("user_id", req.UserID))
	render.JSON(w, r, resp)
}
