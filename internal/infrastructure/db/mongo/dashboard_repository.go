package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/votegrid/voter-platform/internal/core/ports"
)

// favorBucketBoundaries mirror the favor-score distribution's $bucket stage.
var favorBucketBoundaries = []int{0, 20, 40, 60, 80, 100}

// DashboardRepository serves the aggregate reads that span the whole voters
// collection rather than one scoped slice of it.
type DashboardRepository struct {
	voters *mongo.Collection
}

func NewDashboardRepository(db *mongo.Database) *DashboardRepository {
	return &DashboardRepository{voters: db.Collection(collectionVoters)}
}

func (r *DashboardRepository) BoothPerformance(ctx context.Context) ([]ports.BoothPerformance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     "$booth_number",
			"total":   bson.M{"$sum": 1},
			"visited": bson.M{"$sum": bson.M{"$cond": bson.A{"$visited_status", 1, 0}}},
			"voted":   bson.M{"$sum": bson.M{"$cond": bson.A{"$voted_status", 1, 0}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cur, err := r.voters.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("booth performance: %w", err)
	}
	defer cur.Close(ctx)

	booths := make([]ports.BoothPerformance, 0)
	for cur.Next(ctx) {
		var row struct {
			ID      string `bson:"_id"`
			Total   int64  `bson:"total"`
			Visited int64  `bson:"visited"`
			Voted   int64  `bson:"voted"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode booth bucket: %w", err)
		}
		booths = append(booths, ports.BoothPerformance{
			BoothNumber: row.ID,
			Total:       row.Total,
			Visited:     row.Visited,
			Voted:       row.Voted,
		})
	}
	return booths, cur.Err()
}

func (r *DashboardRepository) FavorDistribution(ctx context.Context) ([]ports.FavorBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	boundaries := make(bson.A, len(favorBucketBoundaries))
	for i, b := range favorBucketBoundaries {
		boundaries[i] = b
	}

	pipeline := mongo.Pipeline{
		{{Key: "$bucket", Value: bson.M{
			"groupBy":    "$favor_score",
			"boundaries": boundaries,
			"default":    "other",
			"output":     bson.M{"count": bson.M{"$sum": 1}},
		}}},
	}

	cur, err := r.voters.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("favor distribution: %w", err)
	}
	defer cur.Close(ctx)

	buckets := make([]ports.FavorBucket, 0)
	for cur.Next(ctx) {
		var row struct {
			ID    any   `bson:"_id"`
			Count int64 `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode favor bucket: %w", err)
		}
		buckets = append(buckets, ports.FavorBucket{
			Boundary: bucketLabel(row.ID),
			Count:    row.Count,
		})
	}
	return buckets, cur.Err()
}
