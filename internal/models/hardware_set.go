package models

import "time"

// HardwareSet is a named, capacity-bounded hardware pool. Capacity is fixed
// at provisioning time and never overwritten by a re-seed.
//
// Available is a legacy stored counter kept for callers that query
// availability without a project context. It is not decremented by the
// per-project accounting path, so it can disagree with the derived
// per-project figure. NULL means the column was never written; readers
// fall back to Capacity.
type HardwareSet struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Capacity  int64     `gorm:"not null" json:"capacity"`
	Available *int64    `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (HardwareSet) TableName() string { return "hardware_sets" }
