// Package signup реализует HTTP-обработчик регистрации пользователя.
package signup

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/auth-service/internal/http/response"
	"github.com/magabrotheeeer/auth-service/internal/lib/sl"
	"github.com/magabrotheeeer/auth-service/internal/lib/validation"
	"github.com/magabrotheeeer/auth-service/internal/models"
	services "github.com/magabrotheeeer/auth-service/internal/services/auth"
)

// Request — данные регистрации нового пользователя.
type Request struct {
	UserID      string     `json:"userId" validate:"required,max=64" example:"u1"`
	Email       string     `json:"email" validate:"required,email" example:"u1@x.com"`
	NickName    string     `json:"nickName" validate:"required,max=64" example:"A"`
	Password    string     `json:"password" validate:"required,max=72" example:"pw123"`
	Role        string     `json:"role" validate:"required,oneof=USER ADMIN" example:"USER"`
	IsBlocked   *bool      `json:"isBlocked,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	LoginCount  *int64     `json:"loginCount,omitempty" validate:"omitempty,gte=0"`
	InvitedBy   *string    `json:"invitedBy,omitempty"`
	LoginDays   *int       `json:"loginDays,omitempty" validate:"omitempty,gte=0"`
}

func (r Request) toInput() models.SignupInput {
	return models.SignupInput{
		UserID:      r.UserID,
		Email:       r.Email,
		NickName:    r.NickName,
		Password:    r.Password,
		Role:        models.Role(r.Role),
		IsBlocked:   r.IsBlocked,
		LastLoginAt: r.LastLoginAt,
		LoginCount:  r.LoginCount,
		InvitedBy:   r.InvitedBy,
		LoginDays:   r.LoginDays,
	}
}

// Service описывает регистрацию пользователя.
type Service interface {
	Signup(ctx context.Context, in models.SignupInput) (models.UserResponse, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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
// @Summary Регистрация пользователя
// @Description Создаёт пользователя с хэшированным паролем. Пароль в ответ не попадает.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные пользователя"
// @Success 201 {object} models.UserResponse "Пользователь создан"
// @Failure 400 {object} response.ValidationErrorResponse "Ошибка валидации или пользователь уже существует"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

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

	user, err := h.auth.Signup(r.Context(), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateKey):
			log.Info("user already exists", slog.String("user_id", req.UserID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(services.ErrDuplicateKey.Error()))
		case errors.Is(err, services.ErrValidation):
			log.Info("signup rejected", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(services.ErrValidation.Error()))
		default:
			log.Error("signup failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("user signed up", slog.String("user_id", user.UserID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}
