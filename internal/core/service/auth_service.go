package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/votegrid/voter-platform/internal/api/metrics"
	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// bcrypt rejects passwords longer than 72 bytes; longer input is truncated
// rather than refused.
const maxPasswordBytes = 72

// AuthService implements registration, login, and account management.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Register creates a user on behalf of creator. Super admins may create only
// admins; admins may create only karyakartas, and the new karyakarta's
// assigned_admin_id is set to the creator.
func (s *AuthService) Register(ctx context.Context, creator domain.Claims, in ports.RegisterInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, in.Role)
	}
	if !creator.Role.CanCreate(in.Role) {
		return nil, fmt.Errorf("%w: %s cannot create %s users", domain.ErrForbidden, creator.Role, in.Role)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedBy:    creator.UserID,
		ActiveStatus: true,
		CreatedAt:    time.Now().UTC(),
	}
	if in.Role == domain.RoleKaryakarta {
		user.AssignedAdminID = creator.UserID
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("username", created.Username).
		Str("role", string(created.Role)).
		Str("created_by", creator.Username).
		Msg("user registered")

	return created, nil
}

// Login verifies credentials and returns a signed token. Inactive accounts
// are refused. Last login is stamped on success.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(truncatePassword(password))) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.ActiveStatus {
		metrics.LoginAttemptsTotal.WithLabelValues("inactive").Inc()
		return "", nil, domain.ErrUserInactive
	}

	if err := s.repo.StampLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to stamp last login")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("username", username).Msg("user logged in")
	return token, user, nil
}

// Me returns the authenticated user's record.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// ListUsers returns users visible to the requester. Admins see only their own
// karyakartas; super admins see everyone, optionally narrowed by role.
func (s *AuthService) ListUsers(ctx context.Context, requester domain.Claims, role domain.Role) ([]*domain.User, error) {
	filter := ports.UserListFilter{Role: role}
	if requester.Role == domain.RoleAdmin {
		filter.AssignedAdminID = requester.UserID
	}
	return s.repo.List(ctx, filter)
}

// Deactivate flips a user's account inactive. Admins may deactivate only
// karyakartas on their own team.
func (s *AuthService) Deactivate(ctx context.Context, requester domain.Claims, userID string) error {
	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if requester.Role == domain.RoleAdmin && target.AssignedAdminID != requester.UserID {
		return fmt.Errorf("%w: user is not on your team", domain.ErrForbidden)
	}
	if err := s.repo.SetActive(ctx, userID, false); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("by", requester.Username).Msg("user deactivated")
	return nil
}

// BootstrapSuperAdmin creates the initial super admin account. It is refused
// once any super admin exists.
func (s *AuthService) BootstrapSuperAdmin(ctx context.Context, in ports.BootstrapInput) (*domain.User, error) {
	exists, err := s.repo.ExistsByRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrSuperAdminExists
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		ActiveStatus: true,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", created.Username).Msg("super admin bootstrapped")
	return created, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"email":    user.Email,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(truncatePassword(password)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func truncatePassword(password string) string {
	if len(password) > maxPasswordBytes {
		return password[:maxPasswordBytes]
	}
	return password
}
