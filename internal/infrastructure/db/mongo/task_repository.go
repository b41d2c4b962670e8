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

const collectionTasks = "tasks"

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(collectionTasks)}
}

type mongoTask struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	AssignedTo           string             `bson:"assigned_to"`
	AssignedBy           string             `bson:"assigned_by"`
	TaskType             string             `bson:"task_type"`
	Description          string             `bson:"description"`
	TargetVoters         []string           `bson:"target_voters"`
	TargetArea           string             `bson:"target_area,omitempty"`
	TargetBooth          string             `bson:"target_booth,omitempty"`
	DueDate              *time.Time         `bson:"due_date,omitempty"`
	Status               string             `bson:"status"`
	CompletionPercentage float64            `bson:"completion_percentage"`
	CreatedAt            time.Time          `bson:"created_at"`
	CompletedAt          *time.Time         `bson:"completed_at,omitempty"`
}

func (r *TaskRepository) Insert(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoTask{
		AssignedTo:           t.AssignedTo,
		AssignedBy:           t.AssignedBy,
		TaskType:             t.TaskType,
		Description:          t.Description,
		TargetVoters:         t.TargetVoters,
		TargetArea:           t.TargetArea,
		TargetBooth:          t.TargetBooth,
		DueDate:              t.DueDate,
		Status:               string(t.Status),
		CompletionPercentage: t.CompletionPercentage,
		CreatedAt:            t.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	created := *t
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTask
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TaskRepository) ListByAssignee(ctx context.Context, userID string, status domain.TaskStatus, limit int) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"assigned_to": userID}
	if status != "" {
		query["status"] = string(status)
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cur.Close(ctx)

	tasks := make([]*domain.Task, 0)
	for cur.Next(ctx) {
		var mt mongoTask
		if err := cur.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, mt.toDomain())
	}
	return tasks, cur.Err()
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, fields map[string]any) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var mt mongoTask
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task status: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TaskRepository) CountByAssignee(ctx context.Context, userID string, status domain.TaskStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"assigned_to": userID}
	if status != "" {
		query["status"] = string(status)
	}

	n, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (mt *mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:                   mt.ID.Hex(),
		AssignedTo:           mt.AssignedTo,
		AssignedBy:           mt.AssignedBy,
		TaskType:             mt.TaskType,
		Description:          mt.Description,
		TargetVoters:         mt.TargetVoters,
		TargetArea:           mt.TargetArea,
		TargetBooth:          mt.TargetBooth,
		DueDate:              mt.DueDate,
		Status:               domain.TaskStatus(mt.Status),
		CompletionPercentage: mt.CompletionPercentage,
		CreatedAt:            mt.CreatedAt,
		CompletedAt:          mt.CompletedAt,
	}
}
