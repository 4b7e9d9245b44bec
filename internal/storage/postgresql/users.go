package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/auth-service/internal/models"
)

const userColumns = `uid, user_id, email, nick_name, password_hash, role, is_blocked,
		login_count, last_login_at, invited_by, login_days, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u           models.User
		role        string
		lastLoginAt sql.NullTime
		invitedBy   sql.NullString
	)
	if err := row.Scan(&u.ID, &u.UserID, &u.Email, &u.NickName, &u.PasswordHash, &role,
		&u.IsBlocked, &u.LoginCount, &lastLoginAt, &invitedBy, &u.LoginDays,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}
	if invitedBy.Valid {
		u.InvitedBy = &invitedBy.String
	}
	return &u, nil
}

// CreateUser сохраняет нового пользователя и возвращает сохранённую запись.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.postgresql.CreateUser"

	query := `INSERT INTO users (uid, user_id, email, nick_name, password_hash, role, is_blocked,
			      login_count, last_login_at, invited_by, login_days, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING ` + userColumns
	created, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.ID, user.UserID, user.Email, user.NickName, user.PasswordHash, string(user.Role),
		user.IsBlocked, user.LoginCount, user.LastLoginAt, user.InvitedBy, user.LoginDays,
		user.CreatedAt, user.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// GetUserByUserID возвращает пользователя по userId.
func (s *Storage) GetUserByUserID(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.postgresql.GetUserByUserID"

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgresql.GetUserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// ListUsers возвращает всех пользователей в порядке регистрации.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.postgresql.ListUsers"

	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, user_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUser применяет частичное обновление и возвращает обновлённую запись.
func (s *Storage) UpdateUser(ctx context.Context, userID string, patch models.UserPatch, updatedAt time.Time) (*models.User, error) {
	const op = "storage.postgresql.UpdateUser"

	var role *string
	if patch.Role != nil {
		r := string(*patch.Role)
		role = &r
	}

	query := `UPDATE users
			  SET email = COALESCE($2, email),
			      nick_name = COALESCE($3, nick_name),
			      role = COALESCE($4, role),
			      is_blocked = COALESCE($5, is_blocked),
			      last_login_at = COALESCE($6, last_login_at),
			      invited_by = COALESCE($7, invited_by),
			      login_days = COALESCE($8, login_days),
			      updated_at = $9
			  WHERE user_id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID,
		patch.Email, patch.NickName, role, patch.IsBlocked, patch.LastLoginAt,
		patch.InvitedBy, patch.LoginDays, updatedAt))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// IncrementLoginCount атомарно увеличивает счётчик входов на единицу
// и отмечает время входа. Инкремент выполняется в базе, поэтому
// параллельные входы одного пользователя не теряют обновлений.
func (s *Storage) IncrementLoginCount(ctx context.Context, userID string, at time.Time) (*models.User, error) {
	const op = "storage.postgresql.IncrementLoginCount"

	query := `UPDATE users
			  SET login_count = login_count + 1,
			      last_login_at = $2,
			      updated_at = $2
			  WHERE user_id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID, at))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// DeleteUser удаляет пользователя и возвращает удалённую запись.
func (s *Storage) DeleteUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.postgresql.DeleteUser"

	query := `DELETE FROM users WHERE user_id = $1 RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}
