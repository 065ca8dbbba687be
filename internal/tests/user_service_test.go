package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/adapter/repository/memory"
	"github.com/api-sage/deposit-ledger/internal/usecase/services"
)

func newUserService() *services.UserService {
	return services.NewUserService(memory.NewUserRepository())
}

func TestUserServiceCreateUserValidationError(t *testing.T) {
	svc := newUserService()

	_, err := svc.CreateUser(context.Background(), models.CreateUserRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty create user request")
	}
}

func TestUserServiceCreateUserRejectsUnknownRole(t *testing.T) {
	svc := newUserService()

	_, err := svc.CreateUser(context.Background(), models.CreateUserRequest{
		Username: "casper",
		Password: "secret123",
		Role:     "SUPERVISOR",
	})
	if err == nil {
		t.Fatal("expected validation error for unknown role")
	}
}

func TestUserServiceAuthenticate(t *testing.T) {
	svc := newUserService()

	created, err := svc.CreateUser(context.Background(), models.CreateUserRequest{
		Username: "operator1",
		Password: "secret123",
		FullName: "Desk Operator",
		Role:     "OPERATOR",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.Data.Role != "OPERATOR" {
		t.Fatalf("expected OPERATOR role, got %s", created.Data.Role)
	}
	if !created.Data.Active {
		t.Fatal("expected new user to be active")
	}

	ok, err := svc.Authenticate(context.Background(), models.LoginRequest{
		Username: "operator1",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if ok.Data.Username != "operator1" {
		t.Fatalf("unexpected username %s", ok.Data.Username)
	}

	if _, err := svc.Authenticate(context.Background(), models.LoginRequest{
		Username: "operator1",
		Password: "wrongpass",
	}); err == nil {
		t.Fatal("expected authentication failure for wrong password")
	}

	if _, err := svc.Authenticate(context.Background(), models.LoginRequest{
		Username: "nobody",
		Password: "secret123",
	}); err == nil {
		t.Fatal("expected authentication failure for unknown user")
	}
}

func TestUserServiceCreateUserDuplicateUsername(t *testing.T) {
	svc := newUserService()

	if _, err := svc.CreateUser(context.Background(), models.CreateUserRequest{
		Username: "manager1",
		Password: "secret123",
		Role:     "MANAGER",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := svc.CreateUser(context.Background(), models.CreateUserRequest{
		Username: "manager1",
		Password: "othersecret",
		Role:     "MANAGER",
	}); err == nil {
		t.Fatal("expected error for duplicate username")
	}
}
