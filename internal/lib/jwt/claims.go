// Package jwt реализует выпуск и разбор подписанных JWT токенов сессии.
//
// Токен несёт subject (userId), email и роль пользователя, подписывается
// серверным секретом по HS256 и ограничен временем жизни из конфигурации.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Maker описывает выпуск и разбор токенов.
type Maker interface {
	// GenerateToken выпускает токен для пользователя с указанными email и ролью.
	GenerateToken(userID, email, role string) (string, error)
	// ParseToken проверяет подпись и срок действия и возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// CustomClaims описывает данные, хранящиеся в JWT.
// Идентификатор пользователя передаётся в стандартном поле sub.
type CustomClaims struct {
	Email                string `json:"email"` // Электронная почта пользователя
	Role                 string `json:"role"`  // Роль пользователя
	jwt.RegisteredClaims        // sub, iat, exp
}

// UserID возвращает идентификатор пользователя из поля sub.
func (c *CustomClaims) UserID() string {
	return c.Subject
}

// MakerImpl реализует Maker на секретном ключе и времени жизни токена.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
	now       func() time.Time
}

// NewJWTMaker создаёт MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}
