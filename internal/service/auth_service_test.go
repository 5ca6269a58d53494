package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petcarehq/petcare/internal/domain"
	"github.com/petcarehq/petcare/internal/repository/memory"
)

func newAuthService(repo *memory.UserRepo) *AuthService {
	return NewAuthService(repo, "test-secret", "petcare-api", "petcare-clients", 30)
}

func TestRegisterOwner(t *testing.T) {
	repo := memory.NewUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	user, err := svc.RegisterOwner(ctx, RegisterOwnerInput{
		FullName: "Jane Doe",
		Email:    "Jane@Example.com",
		Password: "Passw0rd!",
	})
	if err != nil {
		t.Fatalf("RegisterOwner: %v", err)
	}

	if user.Email != "jane@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if !user.HasRole(domain.RoleOwner) {
		t.Errorf("roles = %v, want Owner", user.Roles)
	}
	if user.AccountStatus != domain.StatusActive {
		t.Errorf("status = %q, want Active", user.AccountStatus)
	}
	if user.PasswordHash == "" || user.PasswordHash == "Passw0rd!" {
		t.Error("password must be stored hashed")
	}
}

func TestRegisterOwnerDuplicateEmailIsCaseInsensitive(t *testing.T) {
	repo := memory.NewUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	if _, err := svc.RegisterOwner(ctx, RegisterOwnerInput{FullName: "Jane", Email: "jane@example.com", Password: "Passw0rd!"}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.RegisterOwner(ctx, RegisterOwnerInput{FullName: "Other Jane", Email: "JANE@EXAMPLE.COM", Password: "Passw0rd!"})
	if !errors.Is(err, ErrEmailInUse) {
		t.Errorf("err = %v, want ErrEmailInUse", err)
	}
}

func TestLogin(t *testing.T) {
	repo := memory.NewUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	if _, err := svc.RegisterOwner(ctx, RegisterOwnerInput{FullName: "Jane", Email: "jane@example.com", Password: "Passw0rd!"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "Passw0rd!"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("expected an access token")
	}
	if result.User.Role != "Owner" {
		t.Errorf("role = %q, want Owner", result.User.Role)
	}

	// Login tokens carry a fixed 2-hour expiry.
	if remaining := time.Until(result.ExpiresAt); remaining < 119*time.Minute || remaining > 2*time.Hour {
		t.Errorf("expiry %v not about two hours out", result.ExpiresAt)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := memory.NewUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	if _, err := svc.RegisterOwner(ctx, RegisterOwnerInput{FullName: "Jane", Email: "jane@example.com", Password: "Passw0rd!"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(memory.NewUserRepo())

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

// An inactive account must read as inactive even with the correct password,
// and also with a wrong one: the status check runs first.
func TestLoginInactiveAccount(t *testing.T) {
	repo := memory.NewUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	user, err := svc.RegisterOwner(ctx, RegisterOwnerInput{FullName: "Jane", Email: "jane@example.com", Password: "Passw0rd!"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	user.AccountStatus = domain.StatusInactive
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	for _, password := range []string{"Passw0rd!", "wrong"} {
		_, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: password})
		if !errors.Is(err, ErrAccountInactive) {
			t.Errorf("password %q: err = %v, want ErrAccountInactive", password, err)
		}
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := hashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}

	if !verifyPassword("Passw0rd!", hash) {
		t.Error("correct password rejected")
	}
	if verifyPassword("Passw0rd", hash) {
		t.Error("wrong password accepted")
	}
	if verifyPassword("Passw0rd!", "not-a-valid-hash") {
		t.Error("malformed hash accepted")
	}
}
