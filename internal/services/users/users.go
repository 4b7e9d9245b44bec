// Package services реализует каталог пользователей — единственный компонент,
// который читает и пишет хранилище пользователей.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/auth-service/internal/models"
	"github.com/magabrotheeeer/auth-service/internal/storage"
)

// Ошибки каталога. Отсутствие пользователя возвращается как ErrUserNotFound,
// а не как сбой.
var (
	ErrUserNotFound = storage.ErrUserNotFound
	ErrUserExists   = storage.ErrUserExists
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByUserID возвращает пользователя по userId.
	GetUserByUserID(ctx context.Context, userID string) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// UpdateUser применяет частичное обновление.
	UpdateUser(ctx context.Context, userID string, patch models.UserPatch, updatedAt time.Time) (*models.User, error)
	// IncrementLoginCount атомарно увеличивает счётчик входов.
	IncrementLoginCount(ctx context.Context, userID string, at time.Time) (*models.User, error)
	// DeleteUser удаляет пользователя.
	DeleteUser(ctx context.Context, userID string) (*models.User, error)
}

// UserService — каталог пользователей поверх UserRepository.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create сохраняет нового пользователя. Внутренний идентификатор, роль по
// умолчанию и метки времени заполняются здесь.
// При совпадении userId или email возвращает ErrUserExists.
func (s *UserService) Create(ctx context.Context, user models.User) (*models.User, error) {
	const op = "services.users.Create"

	now := s.now()
	user.ID = uuid.NewString()
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.LoginCount < 0 {
		user.LoginCount = 0
	}
	if user.LoginDays < 0 {
		user.LoginDays = 0
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user created", slog.String("user_id", created.UserID))
	return created, nil
}

// FindByUserID возвращает пользователя по userId или ErrUserNotFound.
func (s *UserService) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	const op = "services.users.FindByUserID"

	u, err := s.repo.GetUserByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindByEmail возвращает пользователя по email или ErrUserNotFound.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "services.users.FindByEmail"

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindAll возвращает всех пользователей.
func (s *UserService) FindAll(ctx context.Context) ([]*models.User, error) {
	const op = "services.users.FindAll"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// Update применяет частичное обновление. Пустой патч возвращает текущую запись.
func (s *UserService) Update(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	const op = "services.users.Update"

	if patch.Empty() {
		return s.FindByUserID(ctx, userID)
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, fmt.Errorf("%s: unknown role %q", op, *patch.Role)
	}

	u, err := s.repo.UpdateUser(ctx, userID, patch, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user updated", slog.String("user_id", userID))
	return u, nil
}

// IncrementLoginCount увеличивает счётчик входов на единицу на стороне хранилища
// и возвращает обновлённую запись.
func (s *UserService) IncrementLoginCount(ctx context.Context, userID string) (*models.User, error) {
	const op = "services.users.IncrementLoginCount"

	u, err := s.repo.IncrementLoginCount(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Remove удаляет пользователя и возвращает удалённую запись.
func (s *UserService) Remove(ctx context.Context, userID string) (*models.User, error) {
	const op = "services.users.Remove"

	u, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user removed", slog.String("user_id", userID))
	return u, nil
}
