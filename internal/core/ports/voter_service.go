package ports

import (
	"context"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

// CreateVoterInput carries caller-supplied voter fields; server-assigned
// fields (id, timestamps, score defaults) are stamped by the service.
type CreateVoterInput struct {
	VoterID     string
	Name        string
	Surname     string
	FullName    string
	Gender      domain.Gender
	Age         int
	DateOfBirth string
	Caste       string
	Religion    string
	Area        string
	Ward        string
	BoothNumber string
	BoothName   string
	Address     string
	Pincode     string
	Phone       string
	Email       string
	FamilyID    string
}

// UpdateVoterInput carries a partial voter update. Nil fields were not
// supplied by the caller and must leave the stored value untouched.
type UpdateVoterInput struct {
	VoterID     *string
	Name        *string
	Surname     *string
	FullName    *string
	Gender      *domain.Gender
	Age         *int
	DateOfBirth *string
	Caste       *string
	Religion    *string
	Area        *string
	Ward        *string
	BoothNumber *string
	BoothName   *string
	Address     *string
	Pincode     *string
	Phone       *string
	Email       *string
	FamilyID    *string
}

// ListVotersInput carries the list query.
type ListVotersInput struct {
	Filter domain.VoterFilter
	Page   int
	Limit  int
}

// ListVotersResult is one page of voters.
type ListVotersResult struct {
	Items []*domain.Voter
	Total int64
	Page  int
	Limit int
	Pages int
}

// AssignResult reports a batch assignment.
type AssignResult struct {
	ModifiedCount int64
}

// VoterService defines use-case operations for the voter directory. Every
// read applies the requester's visibility scope before any caller filter.
type VoterService interface {
	Create(ctx context.Context, requester domain.Claims, in CreateVoterInput) (*domain.Voter, error)
	Get(ctx context.Context, requester domain.Claims, id string) (*domain.Voter, error)
	// Update applies the supplied fields only; unset fields keep their
	// stored values.
	Update(ctx context.Context, requester domain.Claims, id string, in UpdateVoterInput) (*domain.Voter, error)
	Delete(ctx context.Context, requester domain.Claims, id string) error
	List(ctx context.Context, requester domain.Claims, in ListVotersInput) (*ListVotersResult, error)
	Assign(ctx context.Context, requester domain.Claims, voterIDs []string, karyakartaID string) (*AssignResult, error)
	// BulkUpdate applies a partial field-set to all matched ids. Fields outside
	// the allow-list are rejected with ErrValidation.
	BulkUpdate(ctx context.Context, requester domain.Claims, voterIDs []string, updates map[string]any) (int64, error)
	MarkVisited(ctx context.Context, requester domain.Claims, voterID string) error
	MarkVoted(ctx context.Context, requester domain.Claims, voterID string) error
	Stats(ctx context.Context, requester domain.Claims) (*VoterStats, error)
	// Export returns the scoped, filtered voters up to the export ceiling.
	Export(ctx context.Context, requester domain.Claims, filter domain.VoterFilter) ([]*domain.Voter, error)
}
