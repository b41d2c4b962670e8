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

const collectionVoters = "voters"

// ageBucketBoundaries mirror the statistics endpoint's $bucket stage.
var ageBucketBoundaries = []int{18, 25, 35, 45, 55, 65, 100}

type VoterRepository struct {
	coll *mongo.Collection
}

func NewVoterRepository(db *mongo.Database) *VoterRepository {
	return &VoterRepository{coll: db.Collection(collectionVoters)}
}

type mongoVoter struct {
	ID             primitive.ObjectID     `bson:"_id,omitempty"`
	VoterID        string                 `bson:"voter_id,omitempty"`
	Name           string                 `bson:"name"`
	Surname        string                 `bson:"surname,omitempty"`
	FullName       string                 `bson:"full_name"`
	Gender         string                 `bson:"gender"`
	Age            int                    `bson:"age"`
	DateOfBirth    string                 `bson:"date_of_birth,omitempty"`
	Caste          string                 `bson:"caste,omitempty"`
	Religion       string                 `bson:"religion,omitempty"`
	Area           string                 `bson:"area"`
	Ward           string                 `bson:"ward,omitempty"`
	BoothNumber    string                 `bson:"booth_number"`
	BoothName      string                 `bson:"booth_name,omitempty"`
	Address        string                 `bson:"address,omitempty"`
	Pincode        string                 `bson:"pincode,omitempty"`
	Phone          string                 `bson:"phone,omitempty"`
	Email          string                 `bson:"email,omitempty"`
	FamilyID       string                 `bson:"family_id,omitempty"`
	AdminID        string                 `bson:"admin_id,omitempty"`
	FavorScore     float64                `bson:"favor_score"`
	FavorCategory  string                 `bson:"favor_category"`
	VisitedStatus  bool                   `bson:"visited_status"`
	VisitedBy      string                 `bson:"visited_by,omitempty"`
	VisitedDate    *time.Time             `bson:"visited_date,omitempty"`
	VisitCount     int                    `bson:"visit_count"`
	VotedStatus    bool                   `bson:"voted_status"`
	VotedTimestamp *time.Time             `bson:"voted_timestamp,omitempty"`
	AssignedTo     string                 `bson:"assigned_to,omitempty"`
	AssignedBy     string                 `bson:"assigned_by,omitempty"`
	AssignedDate   *time.Time             `bson:"assigned_date,omitempty"`
	GPSCoordinates *domain.GPSCoordinates `bson:"gps_coordinates,omitempty"`
	Tags           []string               `bson:"tags"`
	Notes          []domain.VoterNote     `bson:"notes"`
	SurveyHistory  []string               `bson:"survey_history"`
	CreatedAt      time.Time              `bson:"created_at"`
	UpdatedAt      time.Time              `bson:"updated_at"`
	ImportedAt     *time.Time             `bson:"imported_at,omitempty"`
}

func (r *VoterRepository) Insert(ctx context.Context, v *domain.Voter) (*domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoVoter(v)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert voter: %w", err)
	}

	created := *v
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *VoterRepository) FindByID(ctx context.Context, id string) (*domain.Voter, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrVoterNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mv mongoVoter
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrVoterNotFound
		}
		return nil, fmt.Errorf("find voter: %w", err)
	}
	return mv.toDomain(), nil
}

func (r *VoterRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Voter, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrVoterNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var mv mongoVoter
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrVoterNotFound
		}
		return nil, fmt.Errorf("update voter: %w", err)
	}
	return mv.toDomain(), nil
}

func (r *VoterRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrVoterNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete voter: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVoterNotFound
	}
	return nil
}

func (r *VoterRepository) List(ctx context.Context, filter domain.VoterFilter, page, limit int) ([]*domain.Voter, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildVoterQuery(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count voters: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	voters, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return voters, total, nil
}

func (r *VoterRepository) FindAll(ctx context.Context, filter domain.VoterFilter, limit int) ([]*domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, buildVoterQuery(filter), opts)
}

func (r *VoterRepository) Assign(ctx context.Context, voterIDs []string, karyakartaID, assignedBy string, at time.Time) (int64, error) {
	oids, err := toObjectIDs(voterIDs)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": oids}}, bson.M{"$set": bson.M{
		"assigned_to":   karyakartaID,
		"assigned_by":   assignedBy,
		"assigned_date": at,
		"updated_at":    at,
	}})
	if err != nil {
		return 0, fmt.Errorf("assign voters: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *VoterRepository) UpdateMany(ctx context.Context, voterIDs []string, fields map[string]any) (int64, error) {
	oids, err := toObjectIDs(voterIDs)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	res, err := r.coll.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": oids}}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("bulk update voters: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *VoterRepository) MarkVisited(ctx context.Context, id, visitedBy string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrVoterNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"visited_status": true,
			"visited_by":     visitedBy,
			"visited_date":   at,
			"updated_at":     at,
		},
		"$inc": bson.M{"visit_count": 1},
	})
	if err != nil {
		return fmt.Errorf("mark visited: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVoterNotFound
	}
	return nil
}

func (r *VoterRepository) MarkVoted(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrVoterNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"voted_status":    true,
		"voted_timestamp": at,
		"updated_at":      at,
	}})
	if err != nil {
		return fmt.Errorf("mark voted: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVoterNotFound
	}
	return nil
}

func (r *VoterRepository) AppendSurvey(ctx context.Context, voterID, surveyID string) error {
	oid, err := primitive.ObjectIDFromHex(voterID)
	if err != nil {
		return domain.ErrVoterNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$push": bson.M{"survey_history": surveyID}})
	if err != nil {
		return fmt.Errorf("append survey: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVoterNotFound
	}
	return nil
}

func (r *VoterRepository) Stats(ctx context.Context, scope domain.Scope) (*ports.VoterStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := scopeQuery(scope)

	stats := &ports.VoterStats{}

	total, err := r.coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("count total: %w", err)
	}
	stats.Total = total

	visited, err := r.coll.CountDocuments(ctx, withField(match, "visited_status", true))
	if err != nil {
		return nil, fmt.Errorf("count visited: %w", err)
	}
	stats.Visited = visited

	voted, err := r.coll.CountDocuments(ctx, withField(match, "voted_status", true))
	if err != nil {
		return nil, fmt.Errorf("count voted: %w", err)
	}
	stats.Voted = voted

	if err := r.genderDistribution(ctx, match, stats); err != nil {
		return nil, err
	}
	if err := r.ageDistribution(ctx, match, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *VoterRepository) Count(ctx context.Context, filter domain.VoterFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, buildVoterQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("count voters: %w", err)
	}
	return n, nil
}

func (r *VoterRepository) genderDistribution(ctx context.Context, match bson.M, stats *ports.VoterStats) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$gender", "count": bson.M{"$sum": 1}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("gender distribution: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return fmt.Errorf("decode gender bucket: %w", err)
		}
		stats.GenderDistribution = append(stats.GenderDistribution, ports.GenderCount{
			Gender: domain.Gender(row.ID),
			Count:  row.Count,
		})
	}
	return cur.Err()
}

func (r *VoterRepository) ageDistribution(ctx context.Context, match bson.M, stats *ports.VoterStats) error {
	boundaries := make(bson.A, len(ageBucketBoundaries))
	for i, b := range ageBucketBoundaries {
		boundaries[i] = b
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$bucket", Value: bson.M{
			"groupBy":    "$age",
			"boundaries": boundaries,
			"default":    "other",
			"output":     bson.M{"count": bson.M{"$sum": 1}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("age distribution: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID    any   `bson:"_id"`
			Count int64 `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return fmt.Errorf("decode age bucket: %w", err)
		}
		stats.AgeDistribution = append(stats.AgeDistribution, ports.AgeBucket{
			Boundary: bucketLabel(row.ID),
			Count:    row.Count,
		})
	}
	return cur.Err()
}

// bucketLabel renders a $bucket lower boundary as "<lower>+".
func bucketLabel(id any) string {
	switch v := id.(type) {
	case int32:
		return fmt.Sprintf("%d+", v)
	case int64:
		return fmt.Sprintf("%d+", v)
	case float64:
		return fmt.Sprintf("%d+", int(v))
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (r *VoterRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.Voter, error) {
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find voters: %w", err)
	}
	defer cur.Close(ctx)

	voters := make([]*domain.Voter, 0)
	for cur.Next(ctx) {
		var mv mongoVoter
		if err := cur.Decode(&mv); err != nil {
			return nil, fmt.Errorf("decode voter: %w", err)
		}
		voters = append(voters, mv.toDomain())
	}
	return voters, cur.Err()
}

func scopeQuery(scope domain.Scope) bson.M {
	query := bson.M{}
	if scope.AdminID != "" {
		query["admin_id"] = scope.AdminID
	}
	if scope.AssignedTo != "" {
		query["assigned_to"] = scope.AssignedTo
	}
	return query
}

// buildVoterQuery ANDs the visibility scope with every set predicate.
func buildVoterQuery(filter domain.VoterFilter) bson.M {
	query := scopeQuery(filter.Scope)

	if filter.Gender != "" {
		query["gender"] = string(filter.Gender)
	}
	if filter.AgeMin != nil || filter.AgeMax != nil {
		age := bson.M{}
		if filter.AgeMin != nil {
			age["$gte"] = *filter.AgeMin
		}
		if filter.AgeMax != nil {
			age["$lte"] = *filter.AgeMax
		}
		query["age"] = age
	}
	if filter.Area != "" {
		query["area"] = filter.Area
	}
	if filter.Ward != "" {
		query["ward"] = filter.Ward
	}
	if filter.BoothNumber != "" {
		query["booth_number"] = filter.BoothNumber
	}
	if filter.Caste != "" {
		query["caste"] = filter.Caste
	}
	if filter.FamilyID != "" {
		query["family_id"] = filter.FamilyID
	}
	if filter.FavorScoreMin != nil || filter.FavorScoreMax != nil {
		score := bson.M{}
		if filter.FavorScoreMin != nil {
			score["$gte"] = *filter.FavorScoreMin
		}
		if filter.FavorScoreMax != nil {
			score["$lte"] = *filter.FavorScoreMax
		}
		query["favor_score"] = score
	}
	if filter.Visited != nil {
		query["visited_status"] = *filter.Visited
	}
	if filter.Voted != nil {
		query["voted_status"] = *filter.Voted
	}
	if filter.AssignedTo != "" {
		query["assigned_to"] = filter.AssignedTo
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}
	return query
}

func withField(base bson.M, key string, value any) bson.M {
	out := bson.M{key: value}
	for k, v := range base {
		out[k] = v
	}
	return out
}

func toObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid voter id %q", domain.ErrValidation, id)
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

func toMongoVoter(v *domain.Voter) mongoVoter {
	return mongoVoter{
		VoterID:        v.VoterID,
		Name:           v.Name,
		Surname:        v.Surname,
		FullName:       v.FullName,
		Gender:         string(v.Gender),
		Age:            v.Age,
		DateOfBirth:    v.DateOfBirth,
		Caste:          v.Caste,
		Religion:       v.Religion,
		Area:           v.Area,
		Ward:           v.Ward,
		BoothNumber:    v.BoothNumber,
		BoothName:      v.BoothName,
		Address:        v.Address,
		Pincode:        v.Pincode,
		Phone:          v.Phone,
		Email:          v.Email,
		FamilyID:       v.FamilyID,
		AdminID:        v.AdminID,
		FavorScore:     v.FavorScore,
		FavorCategory:  string(v.FavorCategory),
		VisitedStatus:  v.VisitedStatus,
		VisitedBy:      v.VisitedBy,
		VisitedDate:    v.VisitedDate,
		VisitCount:     v.VisitCount,
		VotedStatus:    v.VotedStatus,
		VotedTimestamp: v.VotedTimestamp,
		AssignedTo:     v.AssignedTo,
		AssignedBy:     v.AssignedBy,
		AssignedDate:   v.AssignedDate,
		GPSCoordinates: v.GPSCoordinates,
		Tags:           v.Tags,
		Notes:          v.Notes,
		SurveyHistory:  v.SurveyHistory,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
		ImportedAt:     v.ImportedAt,
	}
}

func (mv *mongoVoter) toDomain() *domain.Voter {
	return &domain.Voter{
		ID:             mv.ID.Hex(),
		VoterID:        mv.VoterID,
		Name:           mv.Name,
		Surname:        mv.Surname,
		FullName:       mv.FullName,
		Gender:         domain.Gender(mv.Gender),
		Age:            mv.Age,
		DateOfBirth:    mv.DateOfBirth,
		Caste:          mv.Caste,
		Religion:       mv.Religion,
		Area:           mv.Area,
		Ward:           mv.Ward,
		BoothNumber:    mv.BoothNumber,
		BoothName:      mv.BoothName,
		Address:        mv.Address,
		Pincode:        mv.Pincode,
		Phone:          mv.Phone,
		Email:          mv.Email,
		FamilyID:       mv.FamilyID,
		AdminID:        mv.AdminID,
		FavorScore:     mv.FavorScore,
		FavorCategory:  domain.FavorCategory(mv.FavorCategory),
		VisitedStatus:  mv.VisitedStatus,
		VisitedBy:      mv.VisitedBy,
		VisitedDate:    mv.VisitedDate,
		VisitCount:     mv.VisitCount,
		VotedStatus:    mv.VotedStatus,
		VotedTimestamp: mv.VotedTimestamp,
		AssignedTo:     mv.AssignedTo,
		AssignedBy:     mv.AssignedBy,
		AssignedDate:   mv.AssignedDate,
		GPSCoordinates: mv.GPSCoordinates,
		Tags:           mv.Tags,
		Notes:          mv.Notes,
		SurveyHistory:  mv.SurveyHistory,
		CreatedAt:      mv.CreatedAt,
		UpdatedAt:      mv.UpdatedAt,
		ImportedAt:     mv.ImportedAt,
	}
}
