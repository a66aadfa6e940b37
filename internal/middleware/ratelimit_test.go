package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedRouter(rps float64, burst int) *gin.Engine {
	rl := NewRateLimiter(rps, burst)
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/hardware", func(c *gin.Context) {
		c.JSON(200, []gin.H{})
	})
	return router
}

func TestRateLimit_AllowsNormalRequests(t *testing.T) {
	router := newLimitedRouter(10, 10)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/hardware", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRateLimit_BlocksExcessiveRequests(t *testing.T) {
	router := newLimitedRouter(1, 2)

	// Send more requests than the burst allows, last one should be blocked
	var last *httptest.ResponseRecorder
	for i := 0; i < 5; i++ {
		last = httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/hardware", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		router.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d after burst exceeded, got %d", http.StatusTooManyRequests, last.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(last.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse rejection body: %v", err)
	}
	if body.Success {
		t.Error("rejection body should have success=false")
	}
	if body.Message == "" {
		t.Error("rejection body should carry a message")
	}
}

func TestRateLimit_IndependentPerIP(t *testing.T) {
	router := newLimitedRouter(1, 1)

	// First IP uses its burst
	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/hardware", nil)
	req1.RemoteAddr = "10.0.0.1:12345"
	router.ServeHTTP(w1, req1)

	if w1.Code != http.StatusOK {
		t.Errorf("IP1 first request: expected %d, got %d", http.StatusOK, w1.Code)
	}

	// Second IP should still have its own burst
	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/hardware", nil)
	req2.RemoteAddr = "10.0.0.2:12345"
	router.ServeHTTP(w2, req2)

	if w2.Code != http.StatusOK {
		t.Errorf("IP2 first request: expected %d, got %d", http.StatusOK, w2.Code)
	}
}
