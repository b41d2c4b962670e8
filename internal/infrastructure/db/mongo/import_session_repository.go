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

const collectionImportSessions = "import_sessions"

type ImportSessionRepository struct {
	coll *mongo.Collection
}

func NewImportSessionRepository(db *mongo.Database) *ImportSessionRepository {
	return &ImportSessionRepository{coll: db.Collection(collectionImportSessions)}
}

type mongoImportSession struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UploadedBy    string             `bson:"uploaded_by"`
	Filename      string             `bson:"filename"`
	TotalRows     int                `bson:"total_rows"`
	Columns       []string           `bson:"columns"`
	Preview       []domain.ImportRow `bson:"preview"`
	Status        string             `bson:"status"`
	AdminID       string             `bson:"admin_id,omitempty"`
	ImportedCount int                `bson:"imported_count"`
	ErrorCount    int                `bson:"error_count"`
	Errors        []domain.RowError  `bson:"errors,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	CompletedAt   *time.Time         `bson:"completed_at,omitempty"`
}

func (r *ImportSessionRepository) Create(ctx context.Context, s *domain.ImportSession) (*domain.ImportSession, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoImportSession{
		UploadedBy: s.UploadedBy,
		Filename:   s.Filename,
		TotalRows:  s.TotalRows,
		Columns:    s.Columns,
		Preview:    s.Preview,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert import session: %w", err)
	}

	created := *s
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ImportSessionRepository) FindByID(ctx context.Context, id string) (*domain.ImportSession, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoImportSession
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find import session: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *ImportSessionRepository) Complete(ctx context.Context, id, adminID string, imported, failed int, errs []domain.RowError, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrSessionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":         string(domain.ImportCompleted),
		"admin_id":       adminID,
		"imported_count": imported,
		"error_count":    failed,
		"errors":         errs,
		"completed_at":   at,
	}})
	if err != nil {
		return fmt.Errorf("complete import session: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *ImportSessionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.ImportSession, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list import sessions: %w", err)
	}
	defer cur.Close(ctx)

	sessions := make([]*domain.ImportSession, 0)
	for cur.Next(ctx) {
		var ms mongoImportSession
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode import session: %w", err)
		}
		sessions = append(sessions, ms.toDomain())
	}
	return sessions, cur.Err()
}

func (ms *mongoImportSession) toDomain() *domain.ImportSession {
	return &domain.ImportSession{
		ID:            ms.ID.Hex(),
		UploadedBy:    ms.UploadedBy,
		Filename:      ms.Filename,
		TotalRows:     ms.TotalRows,
		Columns:       ms.Columns,
		Preview:       ms.Preview,
		Status:        domain.ImportStatus(ms.Status),
		AdminID:       ms.AdminID,
		ImportedCount: ms.ImportedCount,
		ErrorCount:    ms.ErrorCount,
		Errors:        ms.Errors,
		CreatedAt:     ms.CreatedAt,
		CompletedAt:   ms.CompletedAt,
	}
}
