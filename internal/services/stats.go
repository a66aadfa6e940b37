package services

import (
	"github.com/haaslab/hwtracker/backend/internal/models"
	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// DashboardStats is an operational summary of the whole deployment.
type DashboardStats struct {
	Users            int64 `json:"users"`
	Projects         int64 `json:"projects"`
	HardwareSets     int64 `json:"hardware_sets"`
	UnitsCheckedOut  int64 `json:"units_checked_out"`
	TotalCapacity    int64 `json:"total_capacity"`
	ProjectsWithLoan int64 `json:"projects_with_checkouts"`
}

func (s *StatsService) GetStats() (*DashboardStats, error) {
	if s.db == nil {
		return nil, models.ErrNotReady
	}

	stats := &DashboardStats{}

	if err := s.db.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Project{}).Count(&stats.Projects).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.HardwareSet{}).Count(&stats.HardwareSets).Error; err != nil {
		return nil, err
	}

	var totals struct {
		Capacity int64
		Used     int64
	}
	if err := s.db.Model(&models.HardwareSet{}).
		Select("COALESCE(SUM(capacity), 0) AS capacity").
		Scan(&totals.Capacity).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.ProjectUsage{}).
		Select("COALESCE(SUM(used), 0) AS used").
		Scan(&totals.Used).Error; err != nil {
		return nil, err
	}
	stats.TotalCapacity = totals.Capacity
	stats.UnitsCheckedOut = totals.Used

	if err := s.db.Model(&models.ProjectUsage{}).
		Where("used > 0").
		Distinct("project_ref").
		Count(&stats.ProjectsWithLoan).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
