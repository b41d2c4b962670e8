package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

type stubDashboardRepo struct {
	booths []ports.BoothPerformance
	favor  []ports.FavorBucket
}

func (r *stubDashboardRepo) BoothPerformance(_ context.Context) ([]ports.BoothPerformance, error) {
	return r.booths, nil
}

func (r *stubDashboardRepo) FavorDistribution(_ context.Context) ([]ports.FavorBucket, error) {
	return r.favor, nil
}

type dashboardFixture struct {
	voters    *stubVoterRepo
	users     *stubUserRepo
	surveys   *stubSurveyRepo
	tasks     *stubTaskRepo
	dashboard *stubDashboardRepo
	svc       *DashboardService
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		voters:    newStubVoterRepo(),
		users:     newStubUserRepo(),
		surveys:   newStubSurveyRepo(),
		tasks:     newStubTaskRepo(),
		dashboard: &stubDashboardRepo{},
	}
	f.svc = NewDashboardService(f.voters, f.users, f.surveys, f.tasks, f.dashboard, zerolog.Nop())
	return f
}

func TestDashboardService_Karyakarta(t *testing.T) {
	f := newDashboardFixture()
	f.voters.add(&domain.Voter{ID: "v-1", AssignedTo: "k-1", VisitedStatus: true, VotedStatus: true})
	f.voters.add(&domain.Voter{ID: "v-2", AssignedTo: "k-1", VisitedStatus: true})
	f.voters.add(&domain.Voter{ID: "v-3", AssignedTo: "k-1"})
	f.voters.add(&domain.Voter{ID: "v-4", AssignedTo: "k-2", VisitedStatus: true})
	f.surveys.surveys = append(f.surveys.surveys, &domain.Survey{ID: "s-1", KaryakartaID: "k-1"})
	f.tasks.add(&domain.Task{ID: "task-1", AssignedTo: "k-1", Status: domain.TaskPending})
	f.tasks.add(&domain.Task{ID: "task-2", AssignedTo: "k-1", Status: domain.TaskCompleted})

	view, err := f.svc.Karyakarta(context.Background(), karyakartaClaims())
	if err != nil {
		t.Fatalf("Karyakarta returned error: %v", err)
	}
	if view.AssignedVoters != 3 || view.VisitedVoters != 2 || view.VotedVoters != 1 {
		t.Fatalf("unexpected counts: %+v", view)
	}
	if view.CoveragePercentage < 66.6 || view.CoveragePercentage > 66.7 {
		t.Fatalf("unexpected coverage: %v", view.CoveragePercentage)
	}
	if view.TotalSurveys != 1 || view.PendingTasks != 1 {
		t.Fatalf("unexpected activity counts: %+v", view)
	}
}

func TestDashboardService_Admin(t *testing.T) {
	f := newDashboardFixture()
	f.users.add(&domain.User{ID: "k-1", Username: "field1", FullName: "Field One", Role: domain.RoleKaryakarta, AssignedAdminID: "adm-1"})
	f.users.add(&domain.User{ID: "k-9", Username: "foreign", Role: domain.RoleKaryakarta, AssignedAdminID: "adm-2"})
	f.voters.add(&domain.Voter{ID: "v-1", AdminID: "adm-1", AssignedTo: "k-1", VisitedStatus: true})
	f.voters.add(&domain.Voter{ID: "v-2", AdminID: "adm-1", AssignedTo: "k-1"})
	f.voters.add(&domain.Voter{ID: "v-3", AdminID: "adm-1"})
	f.voters.add(&domain.Voter{ID: "v-4", AdminID: "adm-2", AssignedTo: "k-9"})
	f.surveys.surveys = append(f.surveys.surveys, &domain.Survey{ID: "s-1", KaryakartaID: "k-1"})

	view, err := f.svc.Admin(context.Background(), adminClaims())
	if err != nil {
		t.Fatalf("Admin returned error: %v", err)
	}
	if view.TotalVoters != 3 || view.AssignedVoters != 2 || view.VisitedVoters != 1 {
		t.Fatalf("unexpected counts: %+v", view)
	}
	if view.TotalKaryakartas != 1 {
		t.Fatalf("expected only own team counted, got %d", view.TotalKaryakartas)
	}
	if len(view.Performance) != 1 {
		t.Fatalf("expected 1 performance row, got %d", len(view.Performance))
	}
	row := view.Performance[0]
	if row.ID != "k-1" || row.AssignedVoters != 2 || row.VisitedVoters != 1 || row.SurveysCompleted != 1 {
		t.Fatalf("unexpected performance row: %+v", row)
	}
	if row.Coverage != 50.0 {
		t.Fatalf("unexpected coverage: %v", row.Coverage)
	}
}

func TestDashboardService_SuperAdmin(t *testing.T) {
	f := newDashboardFixture()
	f.users.add(&domain.User{ID: "adm-1", Username: "admin1", Role: domain.RoleAdmin})
	f.users.add(&domain.User{ID: "k-1", Username: "field1", Role: domain.RoleKaryakarta})
	f.voters.add(&domain.Voter{ID: "v-1", AdminID: "adm-1", VisitedStatus: true, VotedStatus: true})
	f.voters.add(&domain.Voter{ID: "v-2", AdminID: "adm-2"})
	f.dashboard.booths = []ports.BoothPerformance{{BoothNumber: "12", Total: 2, Visited: 1, Voted: 1}}
	f.dashboard.favor = []ports.FavorBucket{{Boundary: "40", Count: 2}}

	view, err := f.svc.SuperAdmin(context.Background(), superAdminClaims())
	if err != nil {
		t.Fatalf("SuperAdmin returned error: %v", err)
	}
	if view.TotalVoters != 2 || view.VisitedVoters != 1 || view.VotedVoters != 1 {
		t.Fatalf("unexpected counts: %+v", view)
	}
	if view.VisitPercentage != 50.0 || view.TurnoutPercentage != 50.0 {
		t.Fatalf("unexpected percentages: %+v", view)
	}
	if view.TotalAdmins != 1 || view.TotalKaryakartas != 1 {
		t.Fatalf("unexpected role counts: %+v", view)
	}
	if len(view.BoothPerformance) != 1 || len(view.FavorDistribution) != 1 {
		t.Fatalf("aggregates not passed through: %+v", view)
	}
}

func TestPercentage_ZeroTotal(t *testing.T) {
	if got := percentage(5, 0); got != 0 {
		t.Fatalf("expected 0 for empty population, got %v", got)
	}
}
