package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes every collection relies on. Safe to call
// on every startup; CreateMany is a no-op for indexes that already exist.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	plans := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "role", Value: 1}}},
			{Keys: bson.D{{Key: "assigned_admin_id", Value: 1}}},
		},
		collectionVoters: {
			{Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "surname", Value: "text"},
				{Key: "full_name", Value: "text"},
				{Key: "address", Value: "text"},
			}},
			{Keys: bson.D{{Key: "admin_id", Value: 1}}},
			{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
			{Keys: bson.D{{Key: "booth_number", Value: 1}}},
			{Keys: bson.D{{Key: "area", Value: 1}}},
			{Keys: bson.D{{Key: "family_id", Value: 1}}},
			{Keys: bson.D{{Key: "favor_score", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collectionSurveys: {
			{Keys: bson.D{{Key: "voter_id", Value: 1}}},
			{Keys: bson.D{{Key: "karyakarta_id", Value: 1}}},
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		},
		collectionTasks: {
			{Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "status", Value: 1}}},
		},
		collectionImportSessions: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collectionFamilies: {
			{Keys: bson.D{{Key: "family_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "area", Value: 1}}},
		},
		collectionInfluencers: {
			{Keys: bson.D{{Key: "area", Value: 1}}},
		},
		collectionIssues: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "voter_id", Value: 1}}},
		},
	}

	for coll, indexes := range plans {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes for %s: %w", coll, err)
		}
	}
	return nil
}
