package models

import "time"

// SystemLog is a persisted audit record for inventory and auth activity.
// Rows are written by the system log service and pruned on a retention
// schedule, so the table only carries indexes needed by the admin UI filters.
type SystemLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:20;index" json:"level"` // info, warning, error
	Module    string    `gorm:"size:100;index:idx_logs_module_time" json:"module"`
	Action    string    `gorm:"size:200;index" json:"action"`
	Message   string    `gorm:"type:text" json:"message"`
	UserID    *uint     `json:"user_id"`
	IP        string    `gorm:"size:50" json:"ip"`
	UserAgent string    `gorm:"size:500" json:"user_agent"`
	Extra     string    `gorm:"type:text" json:"extra"` // JSON extra data
	CreatedAt time.Time `gorm:"index:idx_logs_module_time" json:"created_at"`
}

func (SystemLog) TableName() string { return "system_logs" }
