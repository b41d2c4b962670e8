package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

// DashboardService assembles role-specific aggregate views. The same
// visibility scoping used for voter reads applies to every count here.
type DashboardService struct {
	voters    ports.VoterRepository
	users     ports.UserRepository
	surveys   ports.SurveyRepository
	tasks     ports.TaskRepository
	dashboard ports.DashboardRepository
	logger    zerolog.Logger
}

func NewDashboardService(
	voters ports.VoterRepository,
	users ports.UserRepository,
	surveys ports.SurveyRepository,
	tasks ports.TaskRepository,
	dashboard ports.DashboardRepository,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		voters:    voters,
		users:     users,
		surveys:   surveys,
		tasks:     tasks,
		dashboard: dashboard,
		logger:    logger,
	}
}

// Karyakarta returns the field worker's own coverage view.
func (s *DashboardService) Karyakarta(ctx context.Context, requester domain.Claims) (*ports.KaryakartaDashboard, error) {
	scope := domain.Scope{AssignedTo: requester.UserID}

	total, err := s.voters.Count(ctx, domain.VoterFilter{Scope: scope})
	if err != nil {
		return nil, err
	}
	visited, err := s.voters.Count(ctx, domain.VoterFilter{Scope: scope, Visited: boolPtr(true)})
	if err != nil {
		return nil, err
	}
	voted, err := s.voters.Count(ctx, domain.VoterFilter{Scope: scope, Voted: boolPtr(true)})
	if err != nil {
		return nil, err
	}
	surveys, err := s.surveys.CountBySubmitter(ctx, requester.UserID)
	if err != nil {
		return nil, err
	}
	pendingTasks, err := s.tasks.CountByAssignee(ctx, requester.UserID, domain.TaskPending)
	if err != nil {
		return nil, err
	}

	return &ports.KaryakartaDashboard{
		AssignedVoters:     total,
		VisitedVoters:      visited,
		VotedVoters:        voted,
		CoveragePercentage: percentage(visited, total),
		TotalSurveys:       surveys,
		PendingTasks:       pendingTasks,
	}, nil
}

// Admin returns the tenant-scoped team view with per-karyakarta performance.
func (s *DashboardService) Admin(ctx context.Context, requester domain.Claims) (*ports.AdminDashboard, error) {
	scope := domain.Scope{AdminID: requester.UserID}

	karyakartas, err := s.users.List(ctx, ports.UserListFilter{
		Role:            domain.RoleKaryakarta,
		AssignedAdminID: requester.UserID,
	})
	if err != nil {
		return nil, err
	}

	total, err := s.voters.Count(ctx, domain.VoterFilter{Scope: scope})
	if err != nil {
		return nil, err
	}
	visited, err := s.voters.Count(ctx, domain.VoterFilter{Scope: scope, Visited: boolPtr(true)})
	if err != nil {
		return nil, err
	}
	voted, err := s.voters.Count(ctx, domain.VoterFilter{Scope: scope, Voted: boolPtr(true)})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(karyakartas))
	performance := make([]ports.KaryakartaPerformance, 0, len(karyakartas))
	var assigned int64
	for _, k := range karyakartas {
		ids = append(ids, k.ID)

		kScope := domain.Scope{AdminID: requester.UserID, AssignedTo: k.ID}
		kAssigned, err := s.voters.Count(ctx, domain.VoterFilter{Scope: kScope})
		if err != nil {
			return nil, err
		}
		kVisited, err := s.voters.Count(ctx, domain.VoterFilter{Scope: kScope, Visited: boolPtr(true)})
		if err != nil {
			return nil, err
		}
		kSurveys, err := s.surveys.CountBySubmitter(ctx, k.ID)
		if err != nil {
			return nil, err
		}

		assigned += kAssigned
		performance = append(performance, ports.KaryakartaPerformance{
			ID:               k.ID,
			Name:             k.FullName,
			AssignedVoters:   kAssigned,
			VisitedVoters:    kVisited,
			SurveysCompleted: kSurveys,
			Coverage:         percentage(kVisited, kAssigned),
		})
	}

	surveys, err := s.surveys.CountBySubmitters(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &ports.AdminDashboard{
		TotalVoters:      total,
		AssignedVoters:   assigned,
		VisitedVoters:    visited,
		VotedVoters:      voted,
		TotalKaryakartas: len(karyakartas),
		TotalSurveys:     surveys,
		Performance:      performance,
	}, nil
}

// SuperAdmin returns the unrestricted aggregate view.
func (s *DashboardService) SuperAdmin(ctx context.Context, requester domain.Claims) (*ports.SuperAdminDashboard, error) {
	total, err := s.voters.Count(ctx, domain.VoterFilter{})
	if err != nil {
		return nil, err
	}
	visited, err := s.voters.Count(ctx, domain.VoterFilter{Visited: boolPtr(true)})
	if err != nil {
		return nil, err
	}
	voted, err := s.voters.Count(ctx, domain.VoterFilter{Voted: boolPtr(true)})
	if err != nil {
		return nil, err
	}
	surveys, err := s.surveys.Count(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	karyakartas, err := s.users.CountByRole(ctx, domain.RoleKaryakarta)
	if err != nil {
		return nil, err
	}
	booths, err := s.dashboard.BoothPerformance(ctx)
	if err != nil {
		return nil, err
	}
	favor, err := s.dashboard.FavorDistribution(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.SuperAdminDashboard{
		TotalVoters:       total,
		VisitedVoters:     visited,
		VotedVoters:       voted,
		VisitPercentage:   percentage(visited, total),
		TurnoutPercentage: percentage(voted, total),
		TotalSurveys:      surveys,
		TotalAdmins:       admins,
		TotalKaryakartas:  karyakartas,
		BoothPerformance:  booths,
		FavorDistribution: favor,
	}, nil
}

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func boolPtr(b bool) *bool {
	return &b
}
