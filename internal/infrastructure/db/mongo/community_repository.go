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
)

const (
	collectionFamilies    = "families"
	collectionInfluencers = "influencers"
	collectionIssues      = "issues"
)

type FamilyRepository struct {
	coll *mongo.Collection
}

func NewFamilyRepository(db *mongo.Database) *FamilyRepository {
	return &FamilyRepository{coll: db.Collection(collectionFamilies)}
}

type mongoFamily struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	FamilyID          string             `bson:"family_id"`
	FamilyHeadName    string             `bson:"family_head_name"`
	FamilyHeadVoterID string             `bson:"family_head_voter_id,omitempty"`
	Members           []string           `bson:"members"`
	TotalMembers      int                `bson:"total_members"`
	FamilyFavorScore  float64            `bson:"family_favor_score"`
	Area              string             `bson:"area,omitempty"`
	BoothNumber       string             `bson:"booth_number,omitempty"`
	AllVisited        bool               `bson:"all_visited"`
	AllVoted          bool               `bson:"all_voted"`
}

func (r *FamilyRepository) FindByFamilyID(ctx context.Context, familyID string) (*domain.Family, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mf mongoFamily
	if err := r.coll.FindOne(ctx, bson.M{"family_id": familyID}).Decode(&mf); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrFamilyNotFound
		}
		return nil, fmt.Errorf("find family: %w", err)
	}
	return mf.toDomain(), nil
}

func (r *FamilyRepository) List(ctx context.Context, area string, limit int) ([]*domain.Family, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if area != "" {
		query["area"] = area
	}

	cur, err := r.coll.Find(ctx, query, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	defer cur.Close(ctx)

	families := make([]*domain.Family, 0)
	for cur.Next(ctx) {
		var mf mongoFamily
		if err := cur.Decode(&mf); err != nil {
			return nil, fmt.Errorf("decode family: %w", err)
		}
		families = append(families, mf.toDomain())
	}
	return families, cur.Err()
}

func (mf *mongoFamily) toDomain() *domain.Family {
	return &domain.Family{
		ID:                mf.ID.Hex(),
		FamilyID:          mf.FamilyID,
		FamilyHeadName:    mf.FamilyHeadName,
		FamilyHeadVoterID: mf.FamilyHeadVoterID,
		Members:           mf.Members,
		TotalMembers:      mf.TotalMembers,
		FamilyFavorScore:  mf.FamilyFavorScore,
		Area:              mf.Area,
		BoothNumber:       mf.BoothNumber,
		AllVisited:        mf.AllVisited,
		AllVoted:          mf.AllVoted,
	}
}

type InfluencerRepository struct {
	coll *mongo.Collection
}

func NewInfluencerRepository(db *mongo.Database) *InfluencerRepository {
	return &InfluencerRepository{coll: db.Collection(collectionInfluencers)}
}

type mongoInfluencer struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	VoterID        string             `bson:"voter_id,omitempty"`
	Area           string             `bson:"area"`
	NetworkSize    int                `bson:"network_size"`
	InfluenceLevel int                `bson:"influence_level"`
	LinkedVoters   []string           `bson:"linked_voters"`
	Notes          string             `bson:"notes,omitempty"`
	ContactInfo    string             `bson:"contact_info,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (r *InfluencerRepository) Insert(ctx context.Context, inf *domain.Influencer) (*domain.Influencer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoInfluencer{
		Name:           inf.Name,
		VoterID:        inf.VoterID,
		Area:           inf.Area,
		NetworkSize:    inf.NetworkSize,
		InfluenceLevel: inf.InfluenceLevel,
		LinkedVoters:   inf.LinkedVoters,
		Notes:          inf.Notes,
		ContactInfo:    inf.ContactInfo,
		CreatedAt:      inf.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert influencer: %w", err)
	}

	created := *inf
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *InfluencerRepository) List(ctx context.Context, area string, limit int) ([]*domain.Influencer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if area != "" {
		query["area"] = area
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "influence_level", Value: -1}})

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list influencers: %w", err)
	}
	defer cur.Close(ctx)

	influencers := make([]*domain.Influencer, 0)
	for cur.Next(ctx) {
		var mi mongoInfluencer
		if err := cur.Decode(&mi); err != nil {
			return nil, fmt.Errorf("decode influencer: %w", err)
		}
		influencers = append(influencers, mi.toDomain())
	}
	return influencers, cur.Err()
}

func (mi *mongoInfluencer) toDomain() *domain.Influencer {
	return &domain.Influencer{
		ID:             mi.ID.Hex(),
		Name:           mi.Name,
		VoterID:        mi.VoterID,
		Area:           mi.Area,
		NetworkSize:    mi.NetworkSize,
		InfluenceLevel: mi.InfluenceLevel,
		LinkedVoters:   mi.LinkedVoters,
		Notes:          mi.Notes,
		ContactInfo:    mi.ContactInfo,
		CreatedAt:      mi.CreatedAt,
	}
}

type IssueRepository struct {
	coll *mongo.Collection
}

func NewIssueRepository(db *mongo.Database) *IssueRepository {
	return &IssueRepository{coll: db.Collection(collectionIssues)}
}

type mongoIssue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	VoterID     string             `bson:"voter_id"`
	IssueType   string             `bson:"issue_type"`
	Description string             `bson:"description"`
	Priority    int                `bson:"priority"`
	ReportedBy  string             `bson:"reported_by"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	ResolvedAt  *time.Time         `bson:"resolved_at,omitempty"`
}

func (r *IssueRepository) Insert(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoIssue{
		VoterID:     issue.VoterID,
		IssueType:   issue.IssueType,
		Description: issue.Description,
		Priority:    issue.Priority,
		ReportedBy:  issue.ReportedBy,
		Status:      string(issue.Status),
		CreatedAt:   issue.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}

	created := *issue
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *IssueRepository) FindByID(ctx context.Context, id string) (*domain.Issue, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIssueNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mi mongoIssue
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIssueNotFound
		}
		return nil, fmt.Errorf("find issue: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *IssueRepository) List(ctx context.Context, status domain.IssueStatus, limit int) ([]*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if status != "" {
		query["status"] = string(status)
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "created_at", Value: -1}})

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer cur.Close(ctx)

	issues := make([]*domain.Issue, 0)
	for cur.Next(ctx) {
		var mi mongoIssue
		if err := cur.Decode(&mi); err != nil {
			return nil, fmt.Errorf("decode issue: %w", err)
		}
		issues = append(issues, mi.toDomain())
	}
	return issues, cur.Err()
}

func (r *IssueRepository) Resolve(ctx context.Context, id string) (*domain.Issue, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIssueNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var mi mongoIssue
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":      string(domain.IssueResolved),
		"resolved_at": time.Now().UTC(),
	}}, opts).Decode(&mi)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIssueNotFound
		}
		return nil, fmt.Errorf("resolve issue: %w", err)
	}
	return mi.toDomain(), nil
}

func (mi *mongoIssue) toDomain() *domain.Issue {
	return &domain.Issue{
		ID:          mi.ID.Hex(),
		VoterID:     mi.VoterID,
		IssueType:   mi.IssueType,
		Description: mi.Description,
		Priority:    mi.Priority,
		ReportedBy:  mi.ReportedBy,
		Status:      domain.IssueStatus(mi.Status),
		CreatedAt:   mi.CreatedAt,
		ResolvedAt:  mi.ResolvedAt,
	}
}
