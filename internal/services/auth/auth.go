// Package services содержит сценарии аутентификации: вход, регистрацию и
// получение профиля. Все ошибки каталога пользователей, хэширования и выпуска
// токенов приводятся здесь к одному из видов ErrInvalidCredentials,
// ErrDuplicateKey, ErrNotFound, ErrValidation или ErrInternal.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/auth-service/internal/lib/metrics"
	"github.com/magabrotheeeer/auth-service/internal/lib/password"
	"github.com/magabrotheeeer/auth-service/internal/lib/sl"
	"github.com/magabrotheeeer/auth-service/internal/models"
	"github.com/magabrotheeeer/auth-service/internal/storage"
)

// Виды ошибок сервиса аутентификации.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateKey       = errors.New("user with this userId or email already exists")
	ErrNotFound           = errors.New("user not found")
	ErrValidation         = errors.New("validation failed")
	ErrInternal           = errors.New("internal error")
)

// UserDirectory — часть каталога пользователей, нужная аутентификации.
type UserDirectory interface {
	Create(ctx context.Context, user models.User) (*models.User, error)
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
	IncrementLoginCount(ctx context.Context, userID string) (*models.User, error)
}

// PasswordHasher хэширует и проверяет пароли.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer выпускает токены сессии.
type TokenIssuer interface {
	GenerateToken(userID, email, role string) (string, error)
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// MetricsRecorder учитывает исходы входа и регистрации.
type MetricsRecorder interface {
	LoginAttempt(result string)
	Signup(result string)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

type noopMetrics struct{}

func (noopMetrics) LoginAttempt(string) {}
func (noopMetrics) Signup(string)       {}

// AuthService реализует вход, регистрацию и профиль.
type AuthService struct {
	log     *slog.Logger
	users   UserDirectory
	hasher  PasswordHasher
	tokens  TokenIssuer
	events  EventPublisher
	metrics MetricsRecorder
	now     func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
// events и rec могут быть nil: тогда события и метрики не пишутся.
func NewAuthService(
	log *slog.Logger,
	users UserDirectory,
	hasher PasswordHasher,
	tokens TokenIssuer,
	events EventPublisher,
	rec MetricsRecorder,
) *AuthService {
	if events == nil {
		events = noopPublisher{}
	}
	if rec == nil {
		rec = noopMetrics{}
	}
	return &AuthService{
		log:     log,
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		events:  events,
		metrics: rec,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Login проверяет пароль, увеличивает счётчик входов и выпускает токен.
// Неизвестный userId и неверный пароль дают одну и ту же ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, userID, rawPassword string) (models.LoginResponse, error) {
	const op = "services.auth.Login"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.metrics.LoginAttempt(metrics.ResultInvalidCredentials)
			return models.LoginResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to find user", sl.Err(err))
		s.metrics.LoginAttempt(metrics.ResultError)
		return models.LoginResponse{}, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if !s.hasher.Verify(rawPassword, user.PasswordHash) {
		s.metrics.LoginAttempt(metrics.ResultInvalidCredentials)
		return models.LoginResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	// Сбой счётчика не прерывает вход.
	updated, err := s.users.IncrementLoginCount(ctx, user.UserID)
	if err != nil {
		log.Warn("failed to increment login count", sl.Err(err))
	} else {
		user = updated
	}

	token, err := s.tokens.GenerateToken(user.UserID, user.Email, string(user.Role))
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		s.metrics.LoginAttempt(metrics.ResultError)
		return models.LoginResponse{}, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	s.publish(ctx, log, models.RoutingKeyUserLoggedIn, models.UserLoggedInEvent{
		UserID:     user.UserID,
		LoginCount: user.LoginCount,
		OccurredAt: s.now(),
	})
	s.metrics.LoginAttempt(metrics.ResultSuccess)
	log.Info("user logged in")

	return models.LoginResponse{
		AccessToken: token,
		User:        models.NewUserResponse(user),
	}, nil
}

// Signup хэширует пароль и сохраняет нового пользователя.
// Совпадение userId или email даёт ErrDuplicateKey.
func (s *AuthService) Signup(ctx context.Context, in models.SignupInput) (models.UserResponse, error) {
	const op = "services.auth.Signup"
	log := s.log.With(slog.String("op", op), slog.String("user_id", in.UserID))

	if !in.Role.Valid() {
		s.metrics.Signup(metrics.ResultInvalid)
		return models.UserResponse{}, fmt.Errorf("%s: %w: unknown role %q", op, ErrValidation, in.Role)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, password.ErrEmptyPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
			s.metrics.Signup(metrics.ResultInvalid)
			return models.UserResponse{}, fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
		}
		log.Error("failed to hash password", sl.Err(err))
		s.metrics.Signup(metrics.ResultError)
		return models.UserResponse{}, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	user := models.User{
		UserID:       in.UserID,
		Email:        in.Email,
		NickName:     in.NickName,
		PasswordHash: hashed,
		Role:         in.Role,
		LastLoginAt:  in.LastLoginAt,
		InvitedBy:    in.InvitedBy,
	}
	if in.IsBlocked != nil {
		user.IsBlocked = *in.IsBlocked
	}
	if in.LoginCount != nil {
		user.LoginCount = *in.LoginCount
	}
	if in.LoginDays != nil {
		user.LoginDays = *in.LoginDays
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			s.metrics.Signup(metrics.ResultDuplicate)
			return models.UserResponse{}, fmt.Errorf("%s: %w", op, ErrDuplicateKey)
		}
		log.Error("failed to create user", sl.Err(err))
		s.metrics.Signup(metrics.ResultError)
		return models.UserResponse{}, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	s.publish(ctx, log, models.RoutingKeyUserSignedUp, models.UserSignedUpEvent{
		UserID:     created.UserID,
		Email:      created.Email,
		Role:       created.Role,
		InvitedBy:  created.InvitedBy,
		OccurredAt: s.now(),
	})
	s.metrics.Signup(metrics.ResultSuccess)
	log.Info("user signed up")

	return models.NewUserResponse(created), nil
}

// GetProfile возвращает публичное представление пользователя.
// Для отсутствующего пользователя возвращает ErrNotFound.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (models.UserResponse, error) {
	const op = "services.auth.GetProfile"

	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.UserResponse{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.log.Error("failed to find user", slog.String("op", op), slog.String("user_id", userID), sl.Err(err))
		return models.UserResponse{}, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return models.NewUserResponse(user), nil
}

func (s *AuthService) publish(ctx context.Context, log *slog.Logger, routingKey string, payload any) {
	if err := s.events.Publish(ctx, routingKey, payload); err != nil {
		log.Warn("failed to publish event", slog.String("routing_key", routingKey), sl.Err(err))
	}
}
