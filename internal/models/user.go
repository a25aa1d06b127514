package models

import "time"

// ID is the normalized identifier handed to handlers and views. The relational
// backend renders its numeric keys in decimal; the document backend uses
// generated UUID strings.
type ID = string

const (
	RolePhotographer = "photographer"
	RoleClient       = "client"
)

// DefaultHourlyRate is applied to photographer profiles created at signup.
const DefaultHourlyRate = 100.0

// User is an account in the identity store.
type User struct {
	ID             ID        `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // bcrypt hash, never serialize
	IsPhotographer bool      `json:"is_photographer"`
	CreatedAt      time.Time `json:"created_at"`
}

// Role returns the role flag as a role name.
func (u *User) Role() string {
	if u.IsPhotographer {
		return RolePhotographer
	}
	return RoleClient
}

// SignupRequest is the form body for POST /signup.
type SignupRequest struct {
	Username string `form:"username" validate:"required,min=3,max=80"`
	Email    string `form:"email" validate:"required,email,max=120"`
	Password string `form:"password" validate:"required,min=6"`
	UserType string `form:"user_type" validate:"omitempty,oneof=photographer client"`
}

// LoginRequest is the form body for POST /login.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}
