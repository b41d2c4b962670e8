package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

const communityListCap = 200

// CommunityService covers families, influencers, and issues.
type CommunityService struct {
	families    ports.FamilyRepository
	influencers ports.InfluencerRepository
	issues      ports.IssueRepository
	voters      ports.VoterRepository
	logger      zerolog.Logger
}

func NewCommunityService(
	families ports.FamilyRepository,
	influencers ports.InfluencerRepository,
	issues ports.IssueRepository,
	voters ports.VoterRepository,
	logger zerolog.Logger,
) *CommunityService {
	return &CommunityService{
		families:    families,
		influencers: influencers,
		issues:      issues,
		voters:      voters,
		logger:      logger,
	}
}

func (s *CommunityService) GetFamily(ctx context.Context, familyID string) (*domain.Family, error) {
	return s.families.FindByFamilyID(ctx, familyID)
}

func (s *CommunityService) ListFamilies(ctx context.Context, area string) ([]*domain.Family, error) {
	return s.families.List(ctx, area, communityListCap)
}

// CreateInfluencer stores a new influencer; a linked voter, when given, must exist.
func (s *CommunityService) CreateInfluencer(ctx context.Context, requester domain.Claims, in ports.CreateInfluencerInput) (*domain.Influencer, error) {
	if in.Name == "" || in.Area == "" {
		return nil, fmt.Errorf("%w: name and area are required", domain.ErrValidation)
	}
	if in.VoterID != "" {
		if _, err := s.voters.FindByID(ctx, in.VoterID); err != nil {
			return nil, err
		}
	}
	level := in.InfluenceLevel
	if level < 1 || level > 5 {
		level = 1
	}

	inf := &domain.Influencer{
		Name:           in.Name,
		VoterID:        in.VoterID,
		Area:           in.Area,
		NetworkSize:    in.NetworkSize,
		InfluenceLevel: level,
		LinkedVoters:   in.LinkedVoters,
		Notes:          in.Notes,
		ContactInfo:    in.ContactInfo,
		CreatedAt:      time.Now().UTC(),
	}
	if inf.LinkedVoters == nil {
		inf.LinkedVoters = []string{}
	}
	return s.influencers.Insert(ctx, inf)
}

func (s *CommunityService) ListInfluencers(ctx context.Context, area string) ([]*domain.Influencer, error) {
	return s.influencers.List(ctx, area, communityListCap)
}

// CreateIssue reports a new issue; the referenced voter must exist.
func (s *CommunityService) CreateIssue(ctx context.Context, requester domain.Claims, in ports.CreateIssueInput) (*domain.Issue, error) {
	if in.IssueType == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: issue type and description are required", domain.ErrValidation)
	}
	if _, err := s.voters.FindByID(ctx, in.VoterID); err != nil {
		return nil, err
	}
	priority := in.Priority
	if priority < 1 || priority > 5 {
		priority = 1
	}

	issue := &domain.Issue{
		VoterID:     in.VoterID,
		IssueType:   in.IssueType,
		Description: in.Description,
		Priority:    priority,
		ReportedBy:  requester.UserID,
		Status:      domain.IssueOpen,
		CreatedAt:   time.Now().UTC(),
	}
	created, err := s.issues.Insert(ctx, issue)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("issue_id", created.ID).Str("voter_id", in.VoterID).Msg("issue reported")
	return created, nil
}

func (s *CommunityService) ListIssues(ctx context.Context, status domain.IssueStatus) ([]*domain.Issue, error) {
	return s.issues.List(ctx, status, communityListCap)
}

// ResolveIssue closes an issue; only the reporter or an admin/super admin may.
func (s *CommunityService) ResolveIssue(ctx context.Context, requester domain.Claims, id string) (*domain.Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	isPrivileged := requester.Role == domain.RoleAdmin || requester.Role == domain.RoleSuperAdmin
	if issue.ReportedBy != requester.UserID && !isPrivileged {
		return nil, fmt.Errorf("%w: only the reporter or an admin may resolve this issue", domain.ErrForbidden)
	}
	return s.issues.Resolve(ctx, id)
}
