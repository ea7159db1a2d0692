package models

import "time"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserView  `json:"user"`
}

type CreateUserRequest struct {
	Email    string   `json:"email" validate:"required,email,max=255"`
	Name     string   `json:"name" validate:"required,min=1,max=100"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Role     UserRole `json:"role" validate:"required,oneof=admin staff-member viewer"`
}

// UpdateUserRequest carries optional changes. The email is the login
// identity and cannot be changed.
type UpdateUserRequest struct {
	Name     *string   `json:"name" validate:"omitempty,min=1,max=100"`
	Password *string   `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *UserRole `json:"role" validate:"omitempty,oneof=admin staff-member viewer"`
}

type ReorderRequest struct {
	Reorder bool   `json:"reorder"`
	IDs     []uint `json:"ids"`
}
