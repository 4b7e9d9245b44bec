// Package password реализует одностороннее хэширование и проверку паролей.
//
// Hasher создаёт bcrypt-хэш с настраиваемой стоимостью и проверяет пароль
// против сохранённого хэша, не раскрывая причину несовпадения.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost — стоимость bcrypt по умолчанию.
const DefaultCost = bcrypt.DefaultCost

// ErrEmptyPassword возвращается при попытке захэшировать пустой пароль.
var ErrEmptyPassword = errors.New("password is empty")

// Hasher хэширует пароли bcrypt с заданной стоимостью.
type Hasher struct {
	cost int
}

// NewHasher создаёт Hasher. Стоимость вне допустимого диапазона bcrypt
// заменяется на DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost возвращает используемую стоимость.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash возвращает bcrypt-хэш пароля для хранения в базе данных.
func (h *Hasher) Hash(password string) (string, error) {
	const op = "password.Hash"
	if password == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify сообщает, соответствует ли пароль хэшу.
// Несовпадение и повреждённый хэш одинаково дают false.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
