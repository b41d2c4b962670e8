package ports

import (
	"context"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

// RegisterInput carries a new user registration.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Phone    string
	Password string
	Role     domain.Role
}

// BootstrapInput carries the initial super-admin creation parameters.
type BootstrapInput struct {
	Username string
	Password string
	Email    string
	FullName string
}

// AuthService defines identity and account operations.
type AuthService interface {
	// Register creates a user on behalf of creator, enforcing the
	// role-creation rules: super_admin→admin, admin→karyakarta.
	Register(ctx context.Context, creator domain.Claims, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	// ListUsers returns users visible to the requester; admins see only their
	// own karyakartas.
	ListUsers(ctx context.Context, requester domain.Claims, role domain.Role) ([]*domain.User, error)
	Deactivate(ctx context.Context, requester domain.Claims, userID string) error
	// BootstrapSuperAdmin creates the initial super admin; refused once one exists.
	BootstrapSuperAdmin(ctx context.Context, in BootstrapInput) (*domain.User, error)
}
