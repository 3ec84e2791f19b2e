package model

import "time"

// User is an account. The password hash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	TelegramID   *string   `json:"telegram_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the shape returned by the auth endpoints.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Public strips everything a client has no business seeing.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}
