package ports

import (
	"context"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

// TemplateCount is one bucket of the surveys-by-template aggregation.
type TemplateCount struct {
	TemplateID string
	Count      int64
}

// SurveyStatistics aggregates the scoped survey activity.
type SurveyStatistics struct {
	TotalSurveys int64
	ByTemplate   []TemplateCount
	Recent       []*domain.Survey
}

// SurveyRepository defines persistence for templates and submissions.
type SurveyRepository interface {
	InsertTemplate(ctx context.Context, t *domain.SurveyTemplate) (*domain.SurveyTemplate, error)
	FindTemplateByID(ctx context.Context, id string) (*domain.SurveyTemplate, error)
	// ListTemplates returns active templates visible to the requester: admins
	// see default plus their own, karyakartas see defaults only.
	ListTemplates(ctx context.Context, requester domain.Claims) ([]*domain.SurveyTemplate, error)
	Insert(ctx context.Context, s *domain.Survey) (*domain.Survey, error)
	ListByVoter(ctx context.Context, voterID string, limit int) ([]*domain.Survey, error)
	ListBySubmitter(ctx context.Context, userID string, limit int) ([]*domain.Survey, error)
	CountBySubmitter(ctx context.Context, userID string) (int64, error)
	CountBySubmitters(ctx context.Context, userIDs []string) (int64, error)
	Count(ctx context.Context) (int64, error)
	Statistics(ctx context.Context, submitterID string) (*SurveyStatistics, error)
}

// CreateTemplateInput carries a new questionnaire.
type CreateTemplateInput struct {
	TemplateName    string
	Questions       []domain.SurveyQuestion
	ConsentQuestion string
	IsDefault       bool
}

// SubmitSurveyInput carries a completed questionnaire.
type SubmitSurveyInput struct {
	VoterID     string
	TemplateID  string
	Responses   []domain.SurveyAnswer
	GPSLocation *domain.GPSCoordinates
	DeviceID    string
}

// SurveyService defines survey use cases.
type SurveyService interface {
	CreateTemplate(ctx context.Context, requester domain.Claims, in CreateTemplateInput) (*domain.SurveyTemplate, error)
	GetTemplate(ctx context.Context, id string) (*domain.SurveyTemplate, error)
	ListTemplates(ctx context.Context, requester domain.Claims) ([]*domain.SurveyTemplate, error)
	// Submit inserts the survey, appends it to the voter's history, and
	// increments the submitter's surveys_completed counter.
	Submit(ctx context.Context, requester domain.Claims, in SubmitSurveyInput) (*domain.Survey, error)
	VoterSurveys(ctx context.Context, voterID string) ([]*domain.Survey, error)
	MySurveys(ctx context.Context, requester domain.Claims) ([]*domain.Survey, error)
	Statistics(ctx context.Context, requester domain.Claims) (*SurveyStatistics, error)
}
