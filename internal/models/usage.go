package models

import "time"

// ProjectUsage is the per-project, per-hardware-set checkout counter.
// Invariant: 0 <= Used <= the set's capacity, enforced by conditional
// updates in the hardware service.
type ProjectUsage struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	ProjectRef   uint      `gorm:"column:project_ref;uniqueIndex:idx_usage_project_hw;not null" json:"-"`
	HardwareName string    `gorm:"uniqueIndex:idx_usage_project_hw;size:100;not null" json:"hardware_name"`
	Used         int64     `gorm:"not null;default:0" json:"used"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (ProjectUsage) TableName() string { return "project_usages" }

// UserUsage attributes a slice of a project's checkout counter to the
// member who drew it. For every project and set, the sum of UserUsage.Used
// across members equals the matching ProjectUsage.Used.
type UserUsage struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	ProjectRef   uint      `gorm:"column:project_ref;uniqueIndex:idx_usage_project_user_hw;not null" json:"-"`
	Username     string    `gorm:"uniqueIndex:idx_usage_project_user_hw;size:100;not null" json:"username"`
	HardwareName string    `gorm:"uniqueIndex:idx_usage_project_user_hw;size:100;not null" json:"hardware_name"`
	Used         int64     `gorm:"not null;default:0" json:"used"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (UserUsage) TableName() string { return "user_usages" }
