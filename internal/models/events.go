package models

import "time"

// Ключи маршрутизации доменных событий.
const (
	RoutingKeyUserSignedUp = "user.signed_up"
	RoutingKeyUserLoggedIn = "user.logged_in"
)

// UserSignedUpEvent публикуется после успешной регистрации.
type UserSignedUpEvent struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	InvitedBy  *string   `json:"invitedBy,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// UserLoggedInEvent публикуется после успешного входа.
type UserLoggedInEvent struct {
	UserID     string    `json:"userId"`
	LoginCount int64     `json:"loginCount"`
	OccurredAt time.Time `json:"occurredAt"`
}
