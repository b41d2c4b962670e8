package ports

import (
	"context"
	"time"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Insert(ctx context.Context, t *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	ListByAssignee(ctx context.Context, userID string, status domain.TaskStatus, limit int) ([]*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, fields map[string]any) (*domain.Task, error)
	CountByAssignee(ctx context.Context, userID string, status domain.TaskStatus) (int64, error)
}

// CreateTaskInput carries a new task.
type CreateTaskInput struct {
	AssignedTo   string
	TaskType     string
	Description  string
	TargetVoters []string
	TargetArea   string
	TargetBooth  string
	DueDate      *time.Time
}

// UpdateTaskStatusInput carries a status transition request.
type UpdateTaskStatusInput struct {
	TaskID               string
	Status               domain.TaskStatus
	CompletionPercentage *float64
}

// TaskService defines task use cases.
type TaskService interface {
	Create(ctx context.Context, requester domain.Claims, in CreateTaskInput) (*domain.Task, error)
	MyTasks(ctx context.Context, requester domain.Claims, status domain.TaskStatus) ([]*domain.Task, error)
	// UpdateStatus transitions a task; only the assignee or an admin/super
	// admin may do so. Completing forces completion_percentage to 100.
	UpdateStatus(ctx context.Context, requester domain.Claims, in UpdateTaskStatusInput) (*domain.Task, error)
}
