package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

const (
	collectionSurveyTemplates = "survey_templates"
	collectionSurveys         = "surveys"

	recentSurveysLimit = 10
)

type SurveyRepository struct {
	templates *mongo.Collection
	surveys   *mongo.Collection
}

func NewSurveyRepository(db *mongo.Database) *SurveyRepository {
	return &SurveyRepository{
		templates: db.Collection(collectionSurveyTemplates),
		surveys:   db.Collection(collectionSurveys),
	}
}

type mongoSurveyTemplate struct {
	ID              primitive.ObjectID      `bson:"_id,omitempty"`
	TemplateName    string                  `bson:"template_name"`
	Questions       []domain.SurveyQuestion `bson:"questions"`
	ConsentQuestion string                  `bson:"consent_question,omitempty"`
	IsDefault       bool                    `bson:"is_default"`
	CreatedBy       string                  `bson:"created_by"`
	ActiveStatus    bool                    `bson:"active_status"`
	CreatedAt       time.Time               `bson:"created_at"`
}

type mongoSurvey struct {
	ID               primitive.ObjectID     `bson:"_id,omitempty"`
	VoterID          string                 `bson:"voter_id"`
	TemplateID       string                 `bson:"template_id"`
	KaryakartaID     string                 `bson:"karyakarta_id"`
	Responses        []domain.SurveyAnswer  `bson:"responses"`
	GPSLocation      *domain.GPSCoordinates `bson:"gps_location,omitempty"`
	DeviceID         string                 `bson:"device_id,omitempty"`
	Timestamp        time.Time              `bson:"timestamp"`
	FavorScoreImpact float64                `bson:"favor_score_impact"`
}

func (r *SurveyRepository) InsertTemplate(ctx context.Context, t *domain.SurveyTemplate) (*domain.SurveyTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSurveyTemplate{
		TemplateName:    t.TemplateName,
		Questions:       t.Questions,
		ConsentQuestion: t.ConsentQuestion,
		IsDefault:       t.IsDefault,
		CreatedBy:       t.CreatedBy,
		ActiveStatus:    t.ActiveStatus,
		CreatedAt:       t.CreatedAt,
	}

	res, err := r.templates.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert survey template: %w", err)
	}

	created := *t
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *SurveyRepository) FindTemplateByID(ctx context.Context, id string) (*domain.SurveyTemplate, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTemplateNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoSurveyTemplate
	if err := r.templates.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("find survey template: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *SurveyRepository) ListTemplates(ctx context.Context, requester domain.Claims) ([]*domain.SurveyTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"active_status": true}
	switch requester.Role {
	case domain.RoleSuperAdmin:
		// unrestricted
	case domain.RoleAdmin:
		query["$or"] = bson.A{
			bson.M{"is_default": true},
			bson.M{"created_by": requester.UserID},
		}
	default:
		query["is_default"] = true
	}

	cur, err := r.templates.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list survey templates: %w", err)
	}
	defer cur.Close(ctx)

	templates := make([]*domain.SurveyTemplate, 0)
	for cur.Next(ctx) {
		var mt mongoSurveyTemplate
		if err := cur.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode survey template: %w", err)
		}
		templates = append(templates, mt.toDomain())
	}
	return templates, cur.Err()
}

func (r *SurveyRepository) Insert(ctx context.Context, s *domain.Survey) (*domain.Survey, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSurvey{
		VoterID:          s.VoterID,
		TemplateID:       s.TemplateID,
		KaryakartaID:     s.KaryakartaID,
		Responses:        s.Responses,
		GPSLocation:      s.GPSLocation,
		DeviceID:         s.DeviceID,
		Timestamp:        s.Timestamp,
		FavorScoreImpact: s.FavorScoreImpact,
	}

	res, err := r.surveys.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert survey: %w", err)
	}

	created := *s
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *SurveyRepository) ListByVoter(ctx context.Context, voterID string, limit int) ([]*domain.Survey, error) {
	return r.list(ctx, bson.M{"voter_id": voterID}, limit)
}

func (r *SurveyRepository) ListBySubmitter(ctx context.Context, userID string, limit int) ([]*domain.Survey, error) {
	return r.list(ctx, bson.M{"karyakarta_id": userID}, limit)
}

func (r *SurveyRepository) CountBySubmitter(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, bson.M{"karyakarta_id": userID})
}

func (r *SurveyRepository) CountBySubmitters(ctx context.Context, userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	return r.count(ctx, bson.M{"karyakarta_id": bson.M{"$in": userIDs}})
}

func (r *SurveyRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{})
}

func (r *SurveyRepository) Statistics(ctx context.Context, submitterID string) (*ports.SurveyStatistics, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if submitterID != "" {
		match["karyakarta_id"] = submitterID
	}

	total, err := r.count(ctx, match)
	if err != nil {
		return nil, err
	}

	stats := &ports.SurveyStatistics{TotalSurveys: total}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$template_id", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cur, err := r.surveys.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("surveys by template: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode template bucket: %w", err)
		}
		stats.ByTemplate = append(stats.ByTemplate, ports.TemplateCount{TemplateID: row.ID, Count: row.Count})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	recent, err := r.list(ctx, match, recentSurveysLimit)
	if err != nil {
		return nil, err
	}
	stats.Recent = recent
	return stats, nil
}

func (r *SurveyRepository) list(ctx context.Context, query bson.M, limit int) ([]*domain.Survey, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cur, err := r.surveys.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer cur.Close(ctx)

	surveys := make([]*domain.Survey, 0)
	for cur.Next(ctx) {
		var ms mongoSurvey
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode survey: %w", err)
		}
		surveys = append(surveys, ms.toDomain())
	}
	return surveys, cur.Err()
}

func (r *SurveyRepository) count(ctx context.Context, query bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.surveys.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count surveys: %w", err)
	}
	return n, nil
}

func (mt *mongoSurveyTemplate) toDomain() *domain.SurveyTemplate {
	return &domain.SurveyTemplate{
		ID:              mt.ID.Hex(),
		TemplateName:    mt.TemplateName,
		Questions:       mt.Questions,
		ConsentQuestion: mt.ConsentQuestion,
		IsDefault:       mt.IsDefault,
		CreatedBy:       mt.CreatedBy,
		ActiveStatus:    mt.ActiveStatus,
		CreatedAt:       mt.CreatedAt,
	}
}

func (ms *mongoSurvey) toDomain() *domain.Survey {
	return &domain.Survey{
		ID:               ms.ID.Hex(),
		VoterID:          ms.VoterID,
		TemplateID:       ms.TemplateID,
		KaryakartaID:     ms.KaryakartaID,
		Responses:        ms.Responses,
		GPSLocation:      ms.GPSLocation,
		DeviceID:         ms.DeviceID,
		Timestamp:        ms.Timestamp,
		FavorScoreImpact: ms.FavorScoreImpact,
	}
}
