package services

import (
	"testing"
	"time"

	"github.com/haaslab/hwtracker/backend/internal/models"
)

func TestSystemLogWriteAndList(t *testing.T) {
	db := newTestDB(t)
	InitSystemLogger(db)
	defer InitSystemLogger(nil)

	LogInfo("hardware", "checkout", "Checked out 5 from HWSet1", nil, "127.0.0.1", "test-agent", nil)
	LogWarning("auth", "login", "bad password", nil, "127.0.0.1", "test-agent", nil)

	svc := NewSystemLogService(db)
	resp, err := svc.List(&SystemLogListRequest{Module: "hardware"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("Total = %d, expected 1", resp.Total)
	}
	if resp.Items[0].Action != "checkout" {
		t.Errorf("Action = %q, expected %q", resp.Items[0].Action, "checkout")
	}

	modules, err := svc.GetModules()
	if err != nil {
		t.Fatalf("modules: %v", err)
	}
	if len(modules) != 2 {
		t.Errorf("modules = %v, expected 2 entries", modules)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	db := newTestDB(t)
	svc := NewSystemLogService(db)

	old := models.SystemLog{
		Level: "info", Module: "hardware", Action: "checkout",
		Message:   "stale entry",
		CreatedAt: time.Now().AddDate(0, 0, -60),
	}
	fresh := models.SystemLog{
		Level: "info", Module: "hardware", Action: "checkin",
		Message:   "recent entry",
		CreatedAt: time.Now(),
	}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("insert old: %v", err)
	}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatalf("insert fresh: %v", err)
	}

	deleted, err := svc.CleanupOldLogs(30)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, expected 1", deleted)
	}

	var remaining int64
	db.Model(&models.SystemLog{}).Count(&remaining)
	if remaining != 1 {
		t.Errorf("remaining = %d, expected 1", remaining)
	}
}

func TestCleanupDisabledRetention(t *testing.T) {
	db := newTestDB(t)
	svc := NewSystemLogService(db)

	deleted, err := svc.CleanupOldLogs(0)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, expected 0 when retention disabled", deleted)
	}
}
