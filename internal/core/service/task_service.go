package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

const taskListCap = 100

// TaskService implements task creation and workflow transitions.
type TaskService struct {
	tasks  ports.TaskRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, logger: logger}
}

// Create assigns a new task; the assignee must exist.
func (s *TaskService) Create(ctx context.Context, requester domain.Claims, in ports.CreateTaskInput) (*domain.Task, error) {
	assignee, err := s.users.FindByID(ctx, in.AssignedTo)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		AssignedTo:   in.AssignedTo,
		AssignedBy:   requester.UserID,
		TaskType:     in.TaskType,
		Description:  in.Description,
		TargetVoters: in.TargetVoters,
		TargetArea:   in.TargetArea,
		TargetBooth:  in.TargetBooth,
		DueDate:      in.DueDate,
		Status:       domain.TaskPending,
		CreatedAt:    time.Now().UTC(),
	}
	if task.TargetVoters == nil {
		task.TargetVoters = []string{}
	}

	created, err := s.tasks.Insert(ctx, task)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("task_id", created.ID).Str("assignee", assignee.Username).Msg("task created")
	return created, nil
}

// MyTasks lists tasks assigned to the requester, optionally by status.
func (s *TaskService) MyTasks(ctx context.Context, requester domain.Claims, status domain.TaskStatus) ([]*domain.Task, error) {
	return s.tasks.ListByAssignee(ctx, requester.UserID, status, taskListCap)
}

// UpdateStatus transitions a task. Only the assignee or an admin/super admin
// may transition; completing forces completion_percentage to 100 and stamps
// the completion time.
func (s *TaskService) UpdateStatus(ctx context.Context, requester domain.Claims, in ports.UpdateTaskStatusInput) (*domain.Task, error) {
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", domain.ErrValidation, in.Status)
	}

	task, err := s.tasks.FindByID(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}

	isPrivileged := requester.Role == domain.RoleAdmin || requester.Role == domain.RoleSuperAdmin
	if task.AssignedTo != requester.UserID && !isPrivileged {
		return nil, fmt.Errorf("%w: only the assignee or an admin may update this task", domain.ErrForbidden)
	}

	// Re-submitting the current status is a progress update, not a
	// transition; anything else must follow the workflow.
	if task.Status != in.Status && !task.Status.CanTransitionTo(in.Status) {
		return nil, fmt.Errorf("%w: task cannot move from %s to %s", domain.ErrValidation, task.Status, in.Status)
	}

	fields := map[string]any{"status": in.Status}
	if in.CompletionPercentage != nil {
		fields["completion_percentage"] = *in.CompletionPercentage
	}
	if in.Status == domain.TaskCompleted {
		fields["completion_percentage"] = 100.0
		fields["completed_at"] = time.Now().UTC()
	}

	updated, err := s.tasks.UpdateStatus(ctx, in.TaskID, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("task_id", in.TaskID).Str("status", string(in.Status)).Msg("task status updated")
	return updated, nil
}
