package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func newAuthTestEnv() (*AuthService, *fakeUserRepo, *fakeRoomRepo) {
	users := newFakeUserRepo()
	rooms := newFakeRoomRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            bcrypt.MinCost,
		},
	}
	svc := NewAuthService(cfg, users, NewRoomService(rooms, users), zap.NewNop())
	return svc, users, rooms
}

func TestRegisterUser(t *testing.T) {
	t.Parallel()

	svc, _, _ := newAuthTestEnv()

	user, err := svc.RegisterUser(context.Background(), RegisterInput{
		FirstName: "Sam",
		LastName:  "User",
		Email:     "  Sam@Example.COM ",
		Password:  "hunter22pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "sam@example.com" {
		t.Errorf("email = %s, want normalized lowercase", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("role = %s, want user", user.Role)
	}
	if !user.NotificationSettings.Email.TicketStatusUpdates || !user.NotificationSettings.Email.NewResponses {
		t.Error("new account not opted into notifications by default")
	}
	if user.PasswordHash == "hunter22pass" {
		t.Error("password stored unhashed")
	}
}

func TestRegisterUserValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newAuthTestEnv()

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing first name", RegisterInput{LastName: "User", Email: "a@b.com", Password: "hunter22pass"}},
		{"missing email", RegisterInput{FirstName: "Sam", LastName: "User", Password: "hunter22pass"}},
		{"short password", RegisterInput{FirstName: "Sam", LastName: "User", Email: "a@b.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterUser(context.Background(), tt.input)
			var domainErr *apperrors.DomainError
			if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
				t.Fatalf("got %v, want VALIDATION_FAILED", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc, users, rooms := newAuthTestEnv()
	if _, err := svc.RegisterUser(context.Background(), RegisterInput{
		FirstName: "Sam",
		LastName:  "User",
		Email:     "sam@example.com",
		Password:  "hunter22pass",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), "sam@example.com", "wrong-password"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "hunter22pass"); err == nil {
		t.Error("unknown account accepted")
	}

	result, err := svc.Login(context.Background(), "Sam@Example.com", "hunter22pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Error("empty token")
	}
	claims, err := svc.TokenManager().ParseToken(result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Errorf("token subject = %s, want %s", claims.UserID, result.User.ID)
	}

	stored, _ := users.GetByID(context.Background(), result.User.ID)
	if stored.LastLogin == nil {
		t.Error("lastLogin not stamped")
	}
	// Plain users do not trigger the agents-room.
	if len(rooms.rooms) != 0 {
		t.Errorf("rooms created on user login = %d, want 0", len(rooms.rooms))
	}
}

func TestAgentLoginEnsuresAgentsRoom(t *testing.T) {
	t.Parallel()

	svc, users, rooms := newAuthTestEnv()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	agent := &domain.User{
		FirstName:    "Ada",
		LastName:     "Agent",
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleAgent,
	}
	if err := users.Create(context.Background(), agent); err != nil {
		t.Fatalf("seed agent: %v", err)
	}

	if _, err := svc.Login(context.Background(), "ada@example.com", "hunter22pass"); err != nil {
		t.Fatalf("agent login: %v", err)
	}
	if _, err := rooms.GetByName(context.Background(), domain.AgentsRoomName); err != nil {
		t.Errorf("agents-room missing after agent login: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	svc, users, _ := newAuthTestEnv()
	user, err := svc.RegisterUser(context.Background(), RegisterInput{
		FirstName: "Sam",
		LastName:  "User",
		Email:     "sam@example.com",
		Password:  "hunter22pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user, "wrong", "anotherlongpass"); err == nil {
		t.Error("wrong old password accepted")
	}
	if err := svc.ChangePassword(context.Background(), user, "hunter22pass", "short"); err == nil {
		t.Error("short new password accepted")
	}
	if err := svc.ChangePassword(context.Background(), user, "hunter22pass", "anotherlongpass"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	stored, _ := users.GetByID(context.Background(), user.ID)
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("anotherlongpass")); err != nil {
		t.Errorf("new password not stored: %v", err)
	}
}
