package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/haaslab/hwtracker/backend/internal/models"
	"github.com/haaslab/hwtracker/backend/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupHardwareRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.HardwareSet{},
		&models.ProjectUsage{},
		&models.UserUsage{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	h := NewHardwareHandler(db)
	router := gin.New()
	router.GET("/hardware", h.List)
	router.POST("/hardware/checkout", h.Checkout)
	router.POST("/hardware/checkin", h.Checkin)
	return router, db
}

func seedHardwareProject(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := services.NewHardwareService(db).Provision("HWSet1", 100); err != nil {
		t.Fatalf("provision: %v", err)
	}
	_, err := services.NewProjectService(db).Create(&services.CreateProjectRequest{
		Username: "alice", ProjectID: "p1", ProjectName: "Demo",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestListHardwareReturnsArray(t *testing.T) {
	router, db := setupHardwareRouter(t)
	seedHardwareProject(t, db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/hardware", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", w.Code)
	}

	var views []services.HardwareView
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("body is not a JSON array: %v", err)
	}
	if len(views) != 1 || views[0].Name != "HWSet1" {
		t.Errorf("views = %+v, expected the seeded set", views)
	}
}

func TestCheckoutSuccessEnvelope(t *testing.T) {
	router, db := setupHardwareRouter(t)
	seedHardwareProject(t, db)

	w := postJSON(router, "/hardware/checkout", gin.H{
		"name": "HWSet1", "amount": 60, "project_id": "p1", "username": "alice",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success  bool                  `json:"success"`
		Message  string                `json:"message"`
		Hardware services.HardwareView `json:"hardware"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Error("success should be true")
	}
	if resp.Hardware.Available != 40 {
		t.Errorf("available = %d, expected 40", resp.Hardware.Available)
	}
}

func TestCheckoutStatusCodes(t *testing.T) {
	router, db := setupHardwareRouter(t)
	seedHardwareProject(t, db)

	// Occupy most of the set so the capacity case can trigger.
	w := postJSON(router, "/hardware/checkout", gin.H{
		"name": "HWSet1", "amount": 60, "project_id": "p1", "username": "alice",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("setup checkout: status = %d", w.Code)
	}

	cases := []struct {
		name string
		body gin.H
		want int
	}{
		{"zero amount", gin.H{"name": "HWSet1", "amount": 0, "project_id": "p1", "username": "alice"}, http.StatusBadRequest},
		{"unknown hardware", gin.H{"name": "Nope", "amount": 5, "project_id": "p1", "username": "alice"}, http.StatusNotFound},
		{"unknown project", gin.H{"name": "HWSet1", "amount": 5, "project_id": "ghost", "username": "alice"}, http.StatusNotFound},
		{"non-member", gin.H{"name": "HWSet1", "amount": 5, "project_id": "p1", "username": "mallory"}, http.StatusForbidden},
		{"over capacity", gin.H{"name": "HWSet1", "amount": 50, "project_id": "p1", "username": "alice"}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(router, "/hardware/checkout", tc.body)
			if w.Code != tc.want {
				t.Errorf("status = %d, expected %d (body %s)", w.Code, tc.want, w.Body.String())
			}

			var resp struct {
				Success bool `json:"success"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err == nil && resp.Success {
				t.Error("success should be false on error")
			}
		})
	}
}

func TestCheckinStatusCodes(t *testing.T) {
	router, db := setupHardwareRouter(t)
	seedHardwareProject(t, db)

	// Nothing checked out yet.
	w := postJSON(router, "/hardware/checkin", gin.H{
		"name": "HWSet1", "amount": 5, "project_id": "p1", "username": "alice",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400 for excess checkin", w.Code)
	}

	w = postJSON(router, "/hardware/checkout", gin.H{
		"name": "HWSet1", "amount": 10, "project_id": "p1", "username": "alice",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("checkout: status = %d", w.Code)
	}

	w = postJSON(router, "/hardware/checkin", gin.H{
		"name": "HWSet1", "amount": 10, "project_id": "p1", "username": "alice",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("checkin: status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Hardware services.HardwareView `json:"hardware"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Hardware.Available != 100 {
		t.Errorf("available = %d, expected 100 after full return", resp.Hardware.Available)
	}
}

func TestHardwareDegradedMode(t *testing.T) {
	h := NewHardwareHandler(nil)
	router := gin.New()
	router.GET("/hardware", h.List)
	router.POST("/hardware/checkout", h.Checkout)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/hardware", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("list status = %d, expected 503", w.Code)
	}

	w = postJSON(router, "/hardware/checkout", gin.H{
		"name": "HWSet1", "amount": 5, "project_id": "p1", "username": "alice",
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("checkout status = %d, expected 503", w.Code)
	}
}
