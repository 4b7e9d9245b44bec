// Package postgresql реализует хранилище пользователей на PostgreSQL.
//
// Подключение идёт через database/sql с драйвером pgx, схема создаётся
// миграциями из каталога migrations. Уникальность userId и email
// обеспечивается индексами, счётчик входов увеличивается одним UPDATE.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/auth-service/internal/storage"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New открывает пул соединений с PostgreSQL и проверяет доступность базы.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close(_ context.Context) error {
	return s.DB.Close()
}

// mapError переводит ошибки драйвера в ошибки пакета storage.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", storage.ErrUserExists, pgErr.ConstraintName)
	}
	return err
}
