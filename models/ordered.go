package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Payload is a decoded JSON object as received from a client. Keys are the
// JSON field names of the target record.
type Payload map[string]json.RawMessage

// Ordered holds the columns shared by every record kept in a gap-free
// display order. Position is owned by the repository.
type Ordered struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Position  int            `json:"position" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (o *Ordered) Base() *Ordered { return o }

type Client struct {
	Ordered
	Name        string `json:"name" gorm:"not null" validate:"required,max=255"`
	LogoURL     string `json:"logo_url" validate:"omitempty,url,max=2048"`
	WebsiteURL  string `json:"website_url" validate:"omitempty,url,max=2048"`
	Description string `json:"description" gorm:"type:text" validate:"max=5000"`
}

func (Client) EditableFields() []string {
	return []string{"name", "logo_url", "website_url", "description"}
}

type TeamMember struct {
	Ordered
	Name        string `json:"name" gorm:"not null" validate:"required,max=255"`
	Role        string `json:"role" gorm:"not null" validate:"required,max=255"`
	Bio         string `json:"bio" gorm:"type:text" validate:"max=5000"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,url,max=2048"`
	Email       string `json:"email" validate:"omitempty,email"`
	LinkedInURL string `json:"linkedin_url" gorm:"column:linkedin_url" validate:"omitempty,url,max=2048"`
}

func (TeamMember) EditableFields() []string {
	return []string{"name", "role", "bio", "photo_url", "email", "linkedin_url"}
}

type Testimonial struct {
	Ordered
	Author      string `json:"author" gorm:"not null" validate:"required,max=255"`
	Quote       string `json:"quote" gorm:"type:text;not null" validate:"required,max=5000"`
	Company     string `json:"company" validate:"max=255"`
	AuthorTitle string `json:"author_title" validate:"max=255"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,url,max=2048"`
	Rating      int    `json:"rating" validate:"min=0,max=5"`
}

func (Testimonial) EditableFields() []string {
	return []string{"author", "quote", "company", "author_title", "photo_url", "rating"}
}

// CollectionLock has one row per ordered collection. Position-changing
// writes lock the row for the length of their transaction.
type CollectionLock struct {
	Name string `gorm:"primaryKey;size:64"`
}
