package models

import "time"

// UserResponse — публичное представление пользователя без пароля.
// Собирается явно по полям, поэтому новые секретные поля User
// не попадают в ответ API сами собой.
type UserResponse struct {
	UserID      string     `json:"userId"`
	Email       string     `json:"email"`
	NickName    string     `json:"nickName"`
	Role        Role       `json:"role"`
	IsBlocked   bool       `json:"isBlocked"`
	LoginCount  int64      `json:"loginCount"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	InvitedBy   *string    `json:"invitedBy,omitempty"`
	LoginDays   int        `json:"loginDays"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// LoginResponse — результат успешного входа.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// NewUserResponse строит проекцию пользователя без пароля.
// Для nil возвращает пустую проекцию; исходная запись не изменяется.
func NewUserResponse(u *User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	resp := UserResponse{
		UserID:     u.UserID,
		Email:      u.Email,
		NickName:   u.NickName,
		Role:       u.Role,
		IsBlocked:  u.IsBlocked,
		LoginCount: u.LoginCount,
		LoginDays:  u.LoginDays,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		resp.LastLoginAt = &t
	}
	if u.InvitedBy != nil {
		s := *u.InvitedBy
		resp.InvitedBy = &s
	}
	return resp
}
