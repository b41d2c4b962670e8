package ports

import (
	"context"
	"time"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

// GenderCount is one bucket of the gender aggregation.
type GenderCount struct {
	Gender domain.Gender
	Count  int64
}

// AgeBucket is one bucket of the age aggregation ($bucket boundaries
// 18,25,35,45,55,65,100).
type AgeBucket struct {
	Boundary string
	Count    int64
}

// VoterStats aggregates the scoped voter population.
type VoterStats struct {
	Total              int64
	Visited            int64
	Voted              int64
	GenderDistribution []GenderCount
	AgeDistribution    []AgeBucket
}

// VoterRepository defines persistence operations for voters.
type VoterRepository interface {
	Insert(ctx context.Context, v *domain.Voter) (*domain.Voter, error)
	FindByID(ctx context.Context, id string) (*domain.Voter, error)
	// Update applies a partial field set and stamps updated_at. admin_id is
	// never part of fields: the tenant owner is immutable.
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Voter, error)
	Delete(ctx context.Context, id string) error
	// List returns one page matching filter (scope included) plus the total count.
	List(ctx context.Context, filter domain.VoterFilter, page, limit int) ([]*domain.Voter, int64, error)
	// FindAll returns every voter matching filter up to limit (export path).
	FindAll(ctx context.Context, filter domain.VoterFilter, limit int) ([]*domain.Voter, error)
	// Assign stamps assigned_to/assigned_by/assigned_date on all matched ids,
	// returning the modified count.
	Assign(ctx context.Context, voterIDs []string, karyakartaID, assignedBy string, at time.Time) (int64, error)
	// UpdateMany applies fields to all matched ids plus updated_at.
	UpdateMany(ctx context.Context, voterIDs []string, fields map[string]any) (int64, error)
	// MarkVisited sets visited fields and atomically increments visit_count.
	MarkVisited(ctx context.Context, id, visitedBy string, at time.Time) error
	// MarkVoted flips voted_status true with a timestamp; one-way.
	MarkVoted(ctx context.Context, id string, at time.Time) error
	// AppendSurvey pushes a survey reference onto the voter's survey_history.
	AppendSurvey(ctx context.Context, voterID, surveyID string) error
	Stats(ctx context.Context, scope domain.Scope) (*VoterStats, error)
	Count(ctx context.Context, filter domain.VoterFilter) (int64, error)
}
