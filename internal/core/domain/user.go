package domain

import "time"

// Role is the closed set of user tiers.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleKaryakarta Role = "karyakarta"
)

// creatableRoles defines the role-creation state machine: who may create whom.
var creatableRoles = map[Role][]Role{
	RoleSuperAdmin: {RoleAdmin},
	RoleAdmin:      {RoleKaryakarta},
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleAdmin || r == RoleKaryakarta
}

// CanCreate reports whether a user with role r may create a user with role target.
func (r Role) CanCreate(target Role) bool {
	for _, allowed := range creatableRoles[r] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ActivityStats tracks per-user fieldwork counters.
type ActivityStats struct {
	SurveysCompleted   int     `json:"surveys_completed" bson:"surveys_completed"`
	VotersVisited      int     `json:"voters_visited" bson:"voters_visited"`
	CoveragePercentage float64 `json:"coverage_percentage" bson:"coverage_percentage"`
}

// User models an authenticated actor in the system.
type User struct {
	ID              string        `json:"id"`
	Username        string        `json:"username"`
	Email           string        `json:"email"`
	FullName        string        `json:"full_name"`
	Phone           string        `json:"phone,omitempty"`
	PasswordHash    string        `json:"-"`
	Role            Role          `json:"role"`
	CreatedBy       string        `json:"created_by,omitempty"`
	AssignedAdminID string        `json:"assigned_admin_id,omitempty"`
	LastLogin       *time.Time    `json:"last_login,omitempty"`
	ActiveStatus    bool          `json:"active_status"`
	ActivityStats   ActivityStats `json:"activity_stats"`
	CreatedAt       time.Time     `json:"created_at"`
}

// Claims is the identity extracted from a validated bearer token.
type Claims struct {
	UserID   string
	Username string
	Role     Role
	Email    string
}
