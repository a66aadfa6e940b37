package services

import (
	"testing"

	"github.com/haaslab/hwtracker/backend/internal/models"
)

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	hardware := NewHardwareService(db)
	projects := NewProjectService(db)
	svc := NewStatsService(db)

	if err := hardware.Provision("HWSet1", 100); err != nil {
		t.Fatalf("provision: %v", err)
	}
	if err := hardware.Provision("HWSet2", 50); err != nil {
		t.Fatalf("provision: %v", err)
	}

	db.Create(&models.User{Username: "alice", Password: "x", Role: "user", IsActive: true})

	if _, err := projects.Create(&CreateProjectRequest{Username: "alice", ProjectID: "p1", ProjectName: "Demo"}); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := projects.Create(&CreateProjectRequest{Username: "alice", ProjectID: "p2", ProjectName: "Idle"}); err != nil {
		t.Fatalf("create project: %v", err)
	}

	if _, err := hardware.Checkout(&CheckoutRequest{Name: "HWSet1", Amount: 30, ProjectID: "p1", Username: "alice"}); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	stats, err := svc.GetStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.Users != 1 {
		t.Errorf("Users = %d, expected 1", stats.Users)
	}
	if stats.Projects != 2 {
		t.Errorf("Projects = %d, expected 2", stats.Projects)
	}
	if stats.HardwareSets != 2 {
		t.Errorf("HardwareSets = %d, expected 2", stats.HardwareSets)
	}
	if stats.TotalCapacity != 150 {
		t.Errorf("TotalCapacity = %d, expected 150", stats.TotalCapacity)
	}
	if stats.UnitsCheckedOut != 30 {
		t.Errorf("UnitsCheckedOut = %d, expected 30", stats.UnitsCheckedOut)
	}
	if stats.ProjectsWithLoan != 1 {
		t.Errorf("ProjectsWithLoan = %d, expected 1", stats.ProjectsWithLoan)
	}
}
