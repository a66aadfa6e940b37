package models

import (
	"time"

	"gorm.io/gorm"
)

// ProjectMember records a user's membership in a project. Membership is
// keyed by username rather than user ID: legacy project records reference
// usernames that may predate the users table.
type ProjectMember struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProjectRef uint           `gorm:"column:project_ref;uniqueIndex:idx_project_username;not null" json:"-"`
	Username   string         `gorm:"uniqueIndex:idx_project_username;size:100;not null" json:"username"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProjectMember) TableName() string { return "project_members" }
