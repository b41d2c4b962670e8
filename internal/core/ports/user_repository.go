package ports

import (
	"context"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

// UserListFilter narrows the users listing. AssignedAdminID is enforced by the
// service layer when the requester is an admin.
type UserListFilter struct {
	Role            domain.Role
	AssignedAdminID string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// ExistsByRole reports whether any user with the given role exists.
	ExistsByRole(ctx context.Context, role domain.Role) (bool, error)
	List(ctx context.Context, filter UserListFilter) ([]*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	StampLastLogin(ctx context.Context, id string) error
	// IncrementStat atomically increments one activity_stats counter.
	IncrementStat(ctx context.Context, id, stat string, delta int) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}
