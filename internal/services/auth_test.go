package services

import (
	"errors"
	"testing"

	"github.com/haaslab/hwtracker/backend/internal/config"
	"github.com/haaslab/hwtracker/backend/internal/utils"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	return NewAuthService(newTestDB(t), &config.JWTConfig{Secret: "test-secret", ExpireHour: 1})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(&RegisterRequest{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "s3cret" {
		t.Error("stored password must be hashed")
	}

	resp, err := svc.Login(&LoginRequest{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Error("login should return a token")
	}

	claims, err := utils.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("token username = %q, expected %q", claims.Username, "alice")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "alice", Password: "x"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Register(&RegisterRequest{Username: "alice", Password: "y"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("got %v, expected ErrUsernameTaken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "alice", Password: "right"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(&LoginRequest{Username: "alice", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, expected ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(&LoginRequest{Username: "ghost", Password: "x"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, expected ErrInvalidCredentials", err)
	}
}

func TestCreateAdminIfNotExists(t *testing.T) {
	svc := newAuthService(t)

	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	// A second call is a no-op.
	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("create admin again: %v", err)
	}

	resp, err := svc.Login(&LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if resp.User.Role != "admin" {
		t.Errorf("Role = %q, expected %q", resp.User.Role, "admin")
	}
}
