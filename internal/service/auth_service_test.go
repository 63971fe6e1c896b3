package service

import (
	"errors"
	"testing"
	"time"

	"quizleader_backend/internal/config"
	"quizleader_backend/internal/model"
	"quizleader_backend/internal/repository"
	"quizleader_backend/internal/util"

	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key-for-unit-tests-only-0000"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, token, err := svc.Register(RegisterRequest{
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatalf("register must issue a token")
	}
	if user.Role != model.Player {
		t.Fatalf("new accounts must be players, got %q", user.Role)
	}
	if user.Password == "password123" {
		t.Fatalf("password stored in plaintext")
	}
	if user.LastLogin.IsZero() {
		t.Fatalf("last_login not set on registration")
	}

	logged, token, err := svc.Login("alice", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || logged.ID != user.ID {
		t.Fatalf("login returned wrong identity")
	}

	claims, err := util.ParseJWT(token, "test-secret-key-for-unit-tests-only-0000")
	if err != nil {
		t.Fatalf("issued token must parse: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "alice" {
		t.Fatalf("token claims mismatch: %+v", claims)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	req := RegisterRequest{Username: "alice", Password: "password123", ConfirmPassword: "password123"}
	if _, _, err := svc.Register(req); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Register(req); !errors.Is(err, util.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, _, err := svc.Register(RegisterRequest{
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password456",
	})
	var vErr *util.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	if _, _, err := svc.Register(RegisterRequest{
		Username: "alice", Password: "password123", ConfirmPassword: "password123",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login("alice", "wrongpassword"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := svc.Login("nobody", "password123"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}
