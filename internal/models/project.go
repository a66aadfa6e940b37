package models

import (
	"time"

	"gorm.io/gorm"
)

// Project represents a collaboration unit that checks hardware in and out.
// ProjectID is the external identifier chosen by (or generated for) the
// creator; ID is the internal surrogate key the usage tables reference.
type Project struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	ProjectID   string          `gorm:"uniqueIndex;size:100;not null" json:"project_id"`
	ProjectName string          `gorm:"size:200;not null" json:"project_name"`
	Owner       string          `gorm:"size:100;not null" json:"owner"` // username of the creator
	Members     []ProjectMember `gorm:"foreignKey:ProjectRef" json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
