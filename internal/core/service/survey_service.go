package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

const surveyListCap = 100

// SurveyService implements questionnaire templates and submissions.
type SurveyService struct {
	surveys ports.SurveyRepository
	voters  ports.VoterRepository
	users   ports.UserRepository
	logger  zerolog.Logger
}

func NewSurveyService(surveys ports.SurveyRepository, voters ports.VoterRepository, users ports.UserRepository, logger zerolog.Logger) *SurveyService {
	return &SurveyService{surveys: surveys, voters: voters, users: users, logger: logger}
}

// CreateTemplate stores a new questionnaire owned by the requester.
func (s *SurveyService) CreateTemplate(ctx context.Context, requester domain.Claims, in ports.CreateTemplateInput) (*domain.SurveyTemplate, error) {
	if in.TemplateName == "" || len(in.Questions) == 0 {
		return nil, fmt.Errorf("%w: template name and questions are required", domain.ErrValidation)
	}

	template := &domain.SurveyTemplate{
		TemplateName:    in.TemplateName,
		Questions:       in.Questions,
		ConsentQuestion: in.ConsentQuestion,
		IsDefault:       in.IsDefault,
		CreatedBy:       requester.UserID,
		ActiveStatus:    true,
		CreatedAt:       time.Now().UTC(),
	}
	created, err := s.surveys.InsertTemplate(ctx, template)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("template", created.TemplateName).Str("by", requester.Username).Msg("survey template created")
	return created, nil
}

// GetTemplate fetches one template by id.
func (s *SurveyService) GetTemplate(ctx context.Context, id string) (*domain.SurveyTemplate, error) {
	return s.surveys.FindTemplateByID(ctx, id)
}

// ListTemplates returns the templates visible to the requester.
func (s *SurveyService) ListTemplates(ctx context.Context, requester domain.Claims) ([]*domain.SurveyTemplate, error) {
	return s.surveys.ListTemplates(ctx, requester)
}

// Submit records a completed survey. The voter and template must both exist.
// The survey insert, the voter history append, and the submitter counter bump
// are three separate store calls; a crash between them leaves an orphan
// survey, which is accepted here.
func (s *SurveyService) Submit(ctx context.Context, requester domain.Claims, in ports.SubmitSurveyInput) (*domain.Survey, error) {
	voter, err := s.voters.FindByID(ctx, in.VoterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.surveys.FindTemplateByID(ctx, in.TemplateID); err != nil {
		return nil, err
	}

	survey := &domain.Survey{
		VoterID:      in.VoterID,
		TemplateID:   in.TemplateID,
		KaryakartaID: requester.UserID,
		Responses:    in.Responses,
		GPSLocation:  in.GPSLocation,
		DeviceID:     in.DeviceID,
		Timestamp:    time.Now().UTC(),
	}
	created, err := s.surveys.Insert(ctx, survey)
	if err != nil {
		return nil, err
	}

	if err := s.voters.AppendSurvey(ctx, in.VoterID, created.ID); err != nil {
		s.logger.Warn().Err(err).Str("survey_id", created.ID).Msg("failed to append survey to voter history")
	}
	if err := s.users.IncrementStat(ctx, requester.UserID, "surveys_completed", 1); err != nil {
		s.logger.Warn().Err(err).Str("user_id", requester.UserID).Msg("failed to bump survey counter")
	}

	s.logger.Info().
		Str("survey_id", created.ID).
		Str("voter", voter.FullName).
		Str("by", requester.Username).
		Msg("survey submitted")

	return created, nil
}

// VoterSurveys lists all surveys recorded for one voter, newest first.
func (s *SurveyService) VoterSurveys(ctx context.Context, voterID string) ([]*domain.Survey, error) {
	return s.surveys.ListByVoter(ctx, voterID, surveyListCap)
}

// MySurveys lists the requester's own submissions, newest first.
func (s *SurveyService) MySurveys(ctx context.Context, requester domain.Claims) ([]*domain.Survey, error) {
	return s.surveys.ListBySubmitter(ctx, requester.UserID, surveyListCap)
}

// Statistics aggregates survey activity; karyakartas see only their own.
func (s *SurveyService) Statistics(ctx context.Context, requester domain.Claims) (*ports.SurveyStatistics, error) {
	submitterID := ""
	if requester.Role == domain.RoleKaryakarta {
		submitterID = requester.UserID
	}
	return s.surveys.Statistics(ctx, submitterID)
}
