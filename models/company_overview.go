package models

import "time"

// CompanyOverview is a single-row resource: the site has exactly one.
type CompanyOverview struct {
	ID                uint      `json:"id" gorm:"primarykey"`
	Headline          string    `json:"headline" gorm:"not null" validate:"required,max=255"`
	Summary           string    `json:"summary" gorm:"type:text;not null" validate:"required,max=10000"`
	Mission           string    `json:"mission" gorm:"type:text" validate:"max=5000"`
	Vision            string    `json:"vision" gorm:"type:text" validate:"max=5000"`
	History           string    `json:"history" gorm:"type:text" validate:"max=10000"`
	Values            string    `json:"values" gorm:"column:core_values;type:text" validate:"max=5000"`
	YearsExperience   int       `json:"years_experience" validate:"min=0"`
	ProjectsCompleted int       `json:"projects_completed" validate:"min=0"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (CompanyOverview) EditableFields() []string {
	return []string{"headline", "summary", "mission", "vision", "history", "values", "years_experience", "projects_completed"}
}

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Client{},
		&TeamMember{},
		&Testimonial{},
		&CompanyOverview{},
		&CollectionLock{},
	}
}
