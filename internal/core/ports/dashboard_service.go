package ports

import (
	"context"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

// KaryakartaDashboard is the field worker's daily view.
type KaryakartaDashboard struct {
	AssignedVoters     int64   `json:"assigned_voters"`
	VisitedVoters      int64   `json:"visited_voters"`
	VotedVoters        int64   `json:"voted_voters"`
	CoveragePercentage float64 `json:"coverage_percentage"`
	TotalSurveys       int64   `json:"total_surveys"`
	PendingTasks       int64   `json:"pending_tasks"`
}

// KaryakartaPerformance is one row in the admin's team overview.
type KaryakartaPerformance struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	AssignedVoters   int64   `json:"assigned_voters"`
	VisitedVoters    int64   `json:"visited_voters"`
	SurveysCompleted int64   `json:"surveys_completed"`
	Coverage         float64 `json:"coverage"`
}

// AdminDashboard is the tenant-scoped team view.
type AdminDashboard struct {
	TotalVoters      int64                   `json:"total_voters"`
	AssignedVoters   int64                   `json:"assigned_voters"`
	VisitedVoters    int64                   `json:"visited_voters"`
	VotedVoters      int64                   `json:"voted_voters"`
	TotalKaryakartas int                     `json:"total_karyakartas"`
	TotalSurveys     int64                   `json:"total_surveys"`
	Performance      []KaryakartaPerformance `json:"karyakarta_performance"`
}

// BoothPerformance is one booth bucket of the super-admin view.
type BoothPerformance struct {
	BoothNumber string `json:"booth_number"`
	Total       int64  `json:"total"`
	Visited     int64  `json:"visited"`
	Voted       int64  `json:"voted"`
}

// FavorBucket is one favor-score bucket (boundaries 0,20,40,60,80,100).
type FavorBucket struct {
	Boundary string `json:"boundary"`
	Count    int64  `json:"count"`
}

// SuperAdminDashboard is the unrestricted aggregate view.
type SuperAdminDashboard struct {
	TotalVoters       int64              `json:"total_voters"`
	VisitedVoters     int64              `json:"visited_voters"`
	VotedVoters       int64              `json:"voted_voters"`
	VisitPercentage   float64            `json:"visit_percentage"`
	TurnoutPercentage float64            `json:"turnout_percentage"`
	TotalSurveys      int64              `json:"total_surveys"`
	TotalAdmins       int64              `json:"total_admins"`
	TotalKaryakartas  int64              `json:"total_karyakartas"`
	BoothPerformance  []BoothPerformance `json:"booth_performance"`
	FavorDistribution []FavorBucket      `json:"favor_score_distribution"`
}

// DashboardRepository covers the aggregate reads not served by the entity
// repositories.
type DashboardRepository interface {
	BoothPerformance(ctx context.Context) ([]BoothPerformance, error)
	FavorDistribution(ctx context.Context) ([]FavorBucket, error)
}

// DashboardService assembles role-specific aggregate views. Scoping follows
// the same visibility rules as the voter directory.
type DashboardService interface {
	Karyakarta(ctx context.Context, requester domain.Claims) (*KaryakartaDashboard, error)
	Admin(ctx context.Context, requester domain.Claims) (*AdminDashboard, error)
	SuperAdmin(ctx context.Context, requester domain.Claims) (*SuperAdminDashboard, error)
}
