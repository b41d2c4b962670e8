package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func superAdminClaims() domain.Claims {
	return domain.Claims{UserID: "sa-1", Username: "root", Role: domain.RoleSuperAdmin, Email: "root@example.com"}
}

func adminClaims() domain.Claims {
	return domain.Claims{UserID: "adm-1", Username: "admin1", Role: domain.RoleAdmin, Email: "admin1@example.com"}
}

func TestAuthService_Register_SuperAdminCreatesAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	user, err := svc.Register(context.Background(), superAdminClaims(), ports.RegisterInput{
		Username: "admin2",
		Email:    "admin2@example.com",
		FullName: "Admin Two",
		Password: "pass123",
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.CreatedBy != "sa-1" {
		t.Fatalf("unexpected created_by: %q", user.CreatedBy)
	}
	if user.AssignedAdminID != "" {
		t.Fatalf("admins must not carry assigned_admin_id, got %q", user.AssignedAdminID)
	}
	if !user.ActiveStatus {
		t.Fatalf("expected new user to be active")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_AdminCreatesKaryakarta(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	user, err := svc.Register(context.Background(), adminClaims(), ports.RegisterInput{
		Username: "field1",
		Email:    "field1@example.com",
		Password: "pass123",
		Role:     domain.RoleKaryakarta,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.AssignedAdminID != "adm-1" {
		t.Fatalf("expected assigned_admin_id adm-1, got %q", user.AssignedAdminID)
	}
}

func TestAuthService_Register_RoleMatrix(t *testing.T) {
	karyakarta := domain.Claims{UserID: "k-1", Username: "field1", Role: domain.RoleKaryakarta}

	cases := []struct {
		name    string
		creator domain.Claims
		target  domain.Role
		wantErr error
	}{
		{"super admin cannot create super admin", superAdminClaims(), domain.RoleSuperAdmin, domain.ErrForbidden},
		{"super admin cannot create karyakarta", superAdminClaims(), domain.RoleKaryakarta, domain.ErrForbidden},
		{"admin cannot create admin", adminClaims(), domain.RoleAdmin, domain.ErrForbidden},
		{"karyakarta cannot create anyone", karyakarta, domain.RoleKaryakarta, domain.ErrForbidden},
		{"unknown role rejected", superAdminClaims(), domain.Role("manager"), domain.ErrValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAuthService(newStubUserRepo(), "secret", time.Hour, zerolog.Nop())
			_, err := svc.Register(context.Background(), tc.creator, ports.RegisterInput{
				Username: "newuser",
				Email:    "new@example.com",
				Password: "pass123",
				Role:     tc.target,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour, zerolog.Nop())

	_, err := svc.Register(context.Background(), superAdminClaims(), ports.RegisterInput{
		Username: "admin2",
		Role:     domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{
		ID:           "adm-1",
		Username:     "admin1",
		Email:        "admin1@example.com",
		PasswordHash: mustHash(t, "pass123"),
		Role:         domain.RoleAdmin,
		ActiveStatus: true,
	})
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	token, user, err := svc.Login(context.Background(), "admin1", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.Username != "admin1" {
		t.Fatalf("unexpected user: %s", user.Username)
	}
	if len(repo.lastLoginIDs) != 1 || repo.lastLoginIDs[0] != "adm-1" {
		t.Fatalf("expected last login stamp for adm-1, got %v", repo.lastLoginIDs)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if claims["sub"] != "adm-1" {
		t.Fatalf("unexpected sub claim: %v", claims["sub"])
	}
	if claims["username"] != "admin1" {
		t.Fatalf("unexpected username claim: %v", claims["username"])
	}
	if claims["role"] != "admin" {
		t.Fatalf("unexpected role claim: %v", claims["role"])
	}
	if claims["email"] != "admin1@example.com" {
		t.Fatalf("unexpected email claim: %v", claims["email"])
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{
		ID:           "adm-1",
		Username:     "admin1",
		PasswordHash: mustHash(t, "pass123"),
		Role:         domain.RoleAdmin,
		ActiveStatus: true,
	})
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "admin1", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "ghost", "pass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{
		ID:           "adm-1",
		Username:     "admin1",
		PasswordHash: mustHash(t, "pass123"),
		Role:         domain.RoleAdmin,
		ActiveStatus: false,
	})
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "admin1", "pass123"); !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthService_ListUsers_AdminSeesOwnTeamOnly(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{ID: "k-1", Username: "mine", Role: domain.RoleKaryakarta, AssignedAdminID: "adm-1"})
	repo.add(&domain.User{ID: "k-2", Username: "theirs", Role: domain.RoleKaryakarta, AssignedAdminID: "adm-2"})
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	users, err := svc.ListUsers(context.Background(), adminClaims(), "")
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 1 || users[0].Username != "mine" {
		t.Fatalf("expected only own karyakarta, got %d users", len(users))
	}
}

func TestAuthService_Deactivate_AdminForeignTeam(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{ID: "k-2", Username: "theirs", Role: domain.RoleKaryakarta, AssignedAdminID: "adm-2", ActiveStatus: true})
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	if err := svc.Deactivate(context.Background(), adminClaims(), "k-2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := svc.Deactivate(context.Background(), superAdminClaims(), "k-2"); err != nil {
		t.Fatalf("super admin deactivate returned error: %v", err)
	}
	if repo.users["k-2"].ActiveStatus {
		t.Fatalf("expected user to be inactive")
	}
}

func TestAuthService_BootstrapSuperAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	user, err := svc.BootstrapSuperAdmin(context.Background(), ports.BootstrapInput{
		Username: "root",
		Password: "pass123",
		Email:    "root@example.com",
	})
	if err != nil {
		t.Fatalf("BootstrapSuperAdmin returned error: %v", err)
	}
	if user.Role != domain.RoleSuperAdmin {
		t.Fatalf("unexpected role: %s", user.Role)
	}

	_, err = svc.BootstrapSuperAdmin(context.Background(), ports.BootstrapInput{
		Username: "root2",
		Password: "pass123",
		Email:    "root2@example.com",
	})
	if !errors.Is(err, domain.ErrSuperAdminExists) {
		t.Fatalf("expected ErrSuperAdminExists, got %v", err)
	}
}
