package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/votegrid/voter-platform/internal/api/metrics"
	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
	exportCeiling    = 10000
)

// bulkUpdatableFields is the allow-list for the bulk-update escape hatch.
// Tenant ownership (admin_id) and server-managed counters stay out.
var bulkUpdatableFields = map[string]struct{}{
	"favor_score":    {},
	"favor_category": {},
	"area":           {},
	"ward":           {},
	"booth_number":   {},
	"booth_name":     {},
	"caste":          {},
	"religion":       {},
	"tags":           {},
	"phone":          {},
	"address":        {},
	"family_id":      {},
}

// VoterService implements the voter directory use cases. Every read path
// intersects the requester's visibility scope with the supplied filters.
type VoterService struct {
	voters ports.VoterRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewVoterService(voters ports.VoterRepository, users ports.UserRepository, logger zerolog.Logger) *VoterService {
	return &VoterService{voters: voters, users: users, logger: logger}
}

// Create inserts a new voter owned by the requester's tenant. A super admin's
// voters carry no admin_id until imported for a specific admin.
func (s *VoterService) Create(ctx context.Context, requester domain.Claims, in ports.CreateVoterInput) (*domain.Voter, error) {
	now := time.Now().UTC()
	voter := voterFromInput(in)
	if requester.Role == domain.RoleAdmin {
		voter.AdminID = requester.UserID
	}
	voter.ApplyDefaults(now)

	if err := voter.Validate(); err != nil {
		return nil, err
	}

	created, err := s.voters.Insert(ctx, voter)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("voter_id", created.ID).Str("by", requester.Username).Msg("voter created")
	return created, nil
}

// Get fetches a single voter, enforcing the requester's visibility scope.
func (s *VoterService) Get(ctx context.Context, requester domain.Claims, id string) (*domain.Voter, error) {
	voter, err := s.voters.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkScope(requester, voter); err != nil {
		return nil, err
	}
	return voter, nil
}

// Update applies only the caller-supplied fields to a voter; unset fields
// keep their stored values. admin_id is immutable and never written here.
func (s *VoterService) Update(ctx context.Context, requester domain.Claims, id string, in ports.UpdateVoterInput) (*domain.Voter, error) {
	voter, err := s.voters.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkScope(requester, voter); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	setString := func(key string, in *string, dst *string) {
		if in == nil {
			return
		}
		*dst = *in
		fields[key] = *in
	}

	setString("voter_id", in.VoterID, &voter.VoterID)
	setString("name", in.Name, &voter.Name)
	setString("surname", in.Surname, &voter.Surname)
	setString("date_of_birth", in.DateOfBirth, &voter.DateOfBirth)
	setString("caste", in.Caste, &voter.Caste)
	setString("religion", in.Religion, &voter.Religion)
	setString("area", in.Area, &voter.Area)
	setString("ward", in.Ward, &voter.Ward)
	setString("booth_number", in.BoothNumber, &voter.BoothNumber)
	setString("booth_name", in.BoothName, &voter.BoothName)
	setString("address", in.Address, &voter.Address)
	setString("pincode", in.Pincode, &voter.Pincode)
	setString("phone", in.Phone, &voter.Phone)
	setString("email", in.Email, &voter.Email)
	setString("family_id", in.FamilyID, &voter.FamilyID)
	if in.Gender != nil {
		voter.Gender = *in.Gender
		fields["gender"] = *in.Gender
	}
	if in.Age != nil {
		voter.Age = *in.Age
		fields["age"] = *in.Age
	}

	// full_name follows an explicit value, otherwise it is recomputed from
	// the merged name parts whenever either changed.
	switch {
	case in.FullName != nil && *in.FullName != "":
		voter.FullName = *in.FullName
		fields["full_name"] = *in.FullName
	case in.Name != nil || in.Surname != nil:
		voter.FullName = voter.Name
		if voter.Surname != "" {
			voter.FullName = voter.Name + " " + voter.Surname
		}
		fields["full_name"] = voter.FullName
	}

	if len(fields) == 0 {
		return voter, nil
	}
	if err := voter.Validate(); err != nil {
		return nil, err
	}
	return s.voters.Update(ctx, id, fields)
}

// Delete removes a voter record.
func (s *VoterService) Delete(ctx context.Context, requester domain.Claims, id string) error {
	voter, err := s.voters.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkScope(requester, voter); err != nil {
		return err
	}
	return s.voters.Delete(ctx, id)
}

// List returns one scoped, filtered page of voters.
func (s *VoterService) List(ctx context.Context, requester domain.Claims, in ports.ListVotersInput) (*ports.ListVotersResult, error) {
	filter := in.Filter
	filter.Scope = domain.VisibilityScope(requester)
	// Karyakartas cannot re-target the assignment filter to someone else.
	if requester.Role == domain.RoleKaryakarta {
		filter.AssignedTo = ""
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.voters.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListVotersResult{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}, nil
}

// Assign stamps a batch of voters onto a karyakarta. The target must exist
// and hold the karyakarta role.
func (s *VoterService) Assign(ctx context.Context, requester domain.Claims, voterIDs []string, karyakartaID string) (*ports.AssignResult, error) {
	if len(voterIDs) == 0 {
		return nil, fmt.Errorf("%w: no voter ids supplied", domain.ErrValidation)
	}

	target, err := s.users.FindByID(ctx, karyakartaID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, fmt.Errorf("%w: karyakarta does not exist", domain.ErrValidation)
		}
		return nil, err
	}
	if target.Role != domain.RoleKaryakarta {
		return nil, fmt.Errorf("%w: user %s is not a karyakarta", domain.ErrValidation, target.Username)
	}

	modified, err := s.voters.Assign(ctx, voterIDs, karyakartaID, requester.UserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	metrics.VotersAssignedTotal.Add(float64(modified))
	s.logger.Info().
		Int64("modified", modified).
		Str("karyakarta", target.Username).
		Str("by", requester.Username).
		Msg("voters assigned")

	return &ports.AssignResult{ModifiedCount: modified}, nil
}

// BulkUpdate applies a partial field set to all matched ids. Fields outside
// the allow-list are rejected before any write.
func (s *VoterService) BulkUpdate(ctx context.Context, requester domain.Claims, voterIDs []string, updates map[string]any) (int64, error) {
	if len(voterIDs) == 0 || len(updates) == 0 {
		return 0, fmt.Errorf("%w: voter ids and updates are required", domain.ErrValidation)
	}
	for field := range updates {
		if _, ok := bulkUpdatableFields[field]; !ok {
			return 0, fmt.Errorf("%w: field %q is not bulk-updatable", domain.ErrValidation, field)
		}
	}
	return s.voters.UpdateMany(ctx, voterIDs, updates)
}

// MarkVisited records a field visit: visited flags and actor are stamped and
// visit_count increments on every call (repeat visits are counted). The
// visitor's own counter increments as a separate, non-transactional write.
func (s *VoterService) MarkVisited(ctx context.Context, requester domain.Claims, voterID string) error {
	if err := s.voters.MarkVisited(ctx, voterID, requester.UserID, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.users.IncrementStat(ctx, requester.UserID, "voters_visited", 1); err != nil {
		s.logger.Warn().Err(err).Str("user_id", requester.UserID).Msg("failed to bump visit counter")
	}
	return nil
}

// MarkVoted flips the voted flag. Repeat calls re-stamp the timestamp and do
// not error: there is no un-vote operation.
func (s *VoterService) MarkVoted(ctx context.Context, requester domain.Claims, voterID string) error {
	return s.voters.MarkVoted(ctx, voterID, time.Now().UTC())
}

// Stats aggregates the requester's visible voter population.
func (s *VoterService) Stats(ctx context.Context, requester domain.Claims) (*ports.VoterStats, error) {
	return s.voters.Stats(ctx, domain.VisibilityScope(requester))
}

// Export returns the scoped, filtered voters up to the export ceiling.
func (s *VoterService) Export(ctx context.Context, requester domain.Claims, filter domain.VoterFilter) ([]*domain.Voter, error) {
	filter.Scope = domain.VisibilityScope(requester)
	if requester.Role == domain.RoleKaryakarta {
		filter.AssignedTo = ""
	}
	return s.voters.FindAll(ctx, filter, exportCeiling)
}

// checkScope enforces per-record visibility on point reads and writes.
func (s *VoterService) checkScope(requester domain.Claims, voter *domain.Voter) error {
	switch requester.Role {
	case domain.RoleKaryakarta:
		if voter.AssignedTo != requester.UserID {
			return fmt.Errorf("%w: voter is not assigned to you", domain.ErrForbidden)
		}
	case domain.RoleAdmin:
		if voter.AdminID != requester.UserID {
			return fmt.Errorf("%w: voter belongs to another admin", domain.ErrForbidden)
		}
	}
	return nil
}

func voterFromInput(in ports.CreateVoterInput) *domain.Voter {
	return &domain.Voter{
		VoterID:     in.VoterID,
		Name:        in.Name,
		Surname:     in.Surname,
		FullName:    in.FullName,
		Gender:      in.Gender,
		Age:         in.Age,
		DateOfBirth: in.DateOfBirth,
		Caste:       in.Caste,
		Religion:    in.Religion,
		Area:        in.Area,
		Ward:        in.Ward,
		BoothNumber: in.BoothNumber,
		BoothName:   in.BoothName,
		Address:     in.Address,
		Pincode:     in.Pincode,
		Phone:       in.Phone,
		Email:       in.Email,
		FamilyID:    in.FamilyID,
	}
}
