package models

import "time"

// User is an account that can own projects and be assigned tasks.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionInfo is returned on successful login or registration.
type SessionInfo struct {
	Token string `json:"token"`
}
