package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleViewer UserRole = "viewer"
	RoleStaff  UserRole = "staff-member"
	RoleAdmin  UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleViewer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Name      string         `json:"name" gorm:"not null"`
	Password  string         `json:"-" gorm:"not null"`
	Role      UserRole       `json:"role" gorm:"not null;default:'viewer';index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserView is the redacted form of a user returned to API callers.
type UserView struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
