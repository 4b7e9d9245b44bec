// Package models содержит доменную модель пользователя системы аутентификации,
// входные данные регистрации, частичное обновление и публичную проекцию
// пользователя без секретных полей.
package models

import "time"

// Role — роль пользователя.
type Role string

const (
	// RoleUser — обычный пользователь, роль по умолчанию.
	RoleUser Role = "USER"
	// RoleAdmin — администратор.
	RoleAdmin Role = "ADMIN"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User представляет зарегистрированного пользователя системы.
//
// PasswordHash всегда содержит bcrypt-хэш, открытый пароль здесь не хранится.
type User struct {
	ID           string     `bson:"_id"`                   // Внутренний идентификатор записи (UUID)
	UserID       string     `bson:"userId"`                // Уникальный логин пользователя
	Email        string     `bson:"email"`                 // Уникальная электронная почта
	NickName     string     `bson:"nickName"`              // Отображаемое имя
	PasswordHash string     `bson:"password" json:"-"`     // Хэш пароля
	Role         Role       `bson:"role"`                  // Роль пользователя
	IsBlocked    bool       `bson:"isBlocked"`             // Признак блокировки
	LoginCount   int64      `bson:"loginCount"`            // Количество входов, только растёт
	LastLoginAt  *time.Time `bson:"lastLoginAt,omitempty"` // Время последнего входа
	InvitedBy    *string    `bson:"invitedBy,omitempty"`   // userId пригласившего пользователя
	LoginDays    int        `bson:"loginDays"`             // Количество дней с входом
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

// SignupInput — данные регистрации с открытым паролем.
// Пароль хэшируется сервисом аутентификации до сохранения.
type SignupInput struct {
	UserID      string
	Email       string
	NickName    string
	Password    string
	Role        Role
	IsBlocked   *bool
	LastLoginAt *time.Time
	LoginCount  *int64
	InvitedBy   *string
	LoginDays   *int
}

// UserPatch описывает частичное обновление пользователя. nil-поля не меняются.
//
// Пароль и счётчик входов через патч не обновляются.
type UserPatch struct {
	Email       *string
	NickName    *string
	Role        *Role
	IsBlocked   *bool
	LastLoginAt *time.Time
	InvitedBy   *string
	LoginDays   *int
}

// Empty сообщает, что патч не содержит изменений.
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.NickName == nil && p.Role == nil && p.IsBlocked == nil &&
		p.LastLoginAt == nil && p.InvitedBy == nil && p.LoginDays == nil
}
