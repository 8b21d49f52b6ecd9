package domain

import (
	"strings"
	"time"
)

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Login        string    `json:"login"`
	Avatar       *string   `json:"avatar"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the client-facing view of a user.
type Profile struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Login  string  `json:"login"`
	Avatar *string `json:"avatar"`
}

// ToProfile converts a User to its client-facing Profile. An account
// without a display name falls back to the local part of the email.
func (u *User) ToProfile() Profile {
	login := u.Login
	if login == "" {
		login = strings.SplitN(u.Email, "@", 2)[0]
	}
	return Profile{
		ID:     u.ID,
		Email:  u.Email,
		Login:  login,
		Avatar: u.Avatar,
	}
}

// RegisterRequest carries the registration form fields. The avatar file
// travels alongside as a separate multipart part.
type RegisterRequest struct {
	Email    string `form:"email" json:"email"`
	Login    string `form:"login" json:"login"`
	Password string `form:"password" json:"password"`
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by successful register/login calls and replaces the
// whole auth snapshot on the client.
type Session struct {
	Profile   Profile `json:"profile"`
	Token     string  `json:"token"`
	ExpiresAt int64   `json:"expires_at"`
}
