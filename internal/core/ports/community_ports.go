package ports

import (
	"context"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

// FamilyRepository defines persistence for household groupings.
type FamilyRepository interface {
	FindByFamilyID(ctx context.Context, familyID string) (*domain.Family, error)
	List(ctx context.Context, area string, limit int) ([]*domain.Family, error)
}

// InfluencerRepository defines persistence for influencer records.
type InfluencerRepository interface {
	Insert(ctx context.Context, inf *domain.Influencer) (*domain.Influencer, error)
	List(ctx context.Context, area string, limit int) ([]*domain.Influencer, error)
}

// IssueRepository defines persistence for voter-linked issues.
type IssueRepository interface {
	Insert(ctx context.Context, issue *domain.Issue) (*domain.Issue, error)
	FindByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, status domain.IssueStatus, limit int) ([]*domain.Issue, error)
	Resolve(ctx context.Context, id string) (*domain.Issue, error)
}

// CreateInfluencerInput carries a new influencer record.
type CreateInfluencerInput struct {
	Name           string
	VoterID        string
	Area           string
	NetworkSize    int
	InfluenceLevel int
	LinkedVoters   []string
	Notes          string
	ContactInfo    string
}

// CreateIssueInput carries a new issue report.
type CreateIssueInput struct {
	VoterID     string
	IssueType   string
	Description string
	Priority    int
}

// CommunityService covers families, influencers, and issues. Creation paths
// verify the referenced voter exists.
type CommunityService interface {
	GetFamily(ctx context.Context, familyID string) (*domain.Family, error)
	ListFamilies(ctx context.Context, area string) ([]*domain.Family, error)
	CreateInfluencer(ctx context.Context, requester domain.Claims, in CreateInfluencerInput) (*domain.Influencer, error)
	ListInfluencers(ctx context.Context, area string) ([]*domain.Influencer, error)
	CreateIssue(ctx context.Context, requester domain.Claims, in CreateIssueInput) (*domain.Issue, error)
	ListIssues(ctx context.Context, status domain.IssueStatus) ([]*domain.Issue, error)
	ResolveIssue(ctx context.Context, requester domain.Claims, id string) (*domain.Issue, error)
}
