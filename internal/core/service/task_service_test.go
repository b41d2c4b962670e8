package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

func newTaskFixture() (*TaskService, *stubTaskRepo, *stubUserRepo) {
	tasks := newStubTaskRepo()
	users := newStubUserRepo()
	users.add(&domain.User{ID: "k-1", Username: "field1", Role: domain.RoleKaryakarta, AssignedAdminID: "adm-1"})
	return NewTaskService(tasks, users, zerolog.Nop()), tasks, users
}

func TestTaskService_Create(t *testing.T) {
	svc, _, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), adminClaims(), ports.CreateTaskInput{
		AssignedTo:  "k-1",
		TaskType:    "voter_visit",
		Description: "Cover booth 12",
		TargetBooth: "12",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if task.Status != domain.TaskPending {
		t.Fatalf("expected pending status, got %s", task.Status)
	}
	if task.AssignedBy != "adm-1" {
		t.Fatalf("unexpected assigned_by: %q", task.AssignedBy)
	}
	if task.TargetVoters == nil {
		t.Fatalf("expected target_voters initialized")
	}
}

func TestTaskService_Create_UnknownAssignee(t *testing.T) {
	svc, _, _ := newTaskFixture()

	_, err := svc.Create(context.Background(), adminClaims(), ports.CreateTaskInput{
		AssignedTo: "ghost",
		TaskType:   "voter_visit",
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTaskService_UpdateStatus_AssigneeCompletes(t *testing.T) {
	svc, tasks, _ := newTaskFixture()
	tasks.add(&domain.Task{ID: "task-1", AssignedTo: "k-1", Status: domain.TaskInProgress, CompletionPercentage: 60})

	updated, err := svc.UpdateStatus(context.Background(), karyakartaClaims(), ports.UpdateTaskStatusInput{
		TaskID: "task-1",
		Status: domain.TaskCompleted,
	})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != domain.TaskCompleted {
		t.Fatalf("unexpected status: %s", updated.Status)
	}
	// Completing always forces the percentage, regardless of input.
	if updated.CompletionPercentage != 100.0 {
		t.Fatalf("expected completion forced to 100, got %v", updated.CompletionPercentage)
	}
	if updated.CompletedAt == nil {
		t.Fatalf("expected completed_at stamped")
	}
}

func TestTaskService_UpdateStatus_PartialProgress(t *testing.T) {
	svc, tasks, _ := newTaskFixture()
	tasks.add(&domain.Task{ID: "task-1", AssignedTo: "k-1", Status: domain.TaskPending})

	pct := 40.0
	updated, err := svc.UpdateStatus(context.Background(), karyakartaClaims(), ports.UpdateTaskStatusInput{
		TaskID:               "task-1",
		Status:               domain.TaskInProgress,
		CompletionPercentage: &pct,
	})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.CompletionPercentage != 40.0 {
		t.Fatalf("expected 40%%, got %v", updated.CompletionPercentage)
	}
	if updated.CompletedAt != nil {
		t.Fatalf("in_progress must not stamp completed_at")
	}
}

func TestTaskService_UpdateStatus_Authorization(t *testing.T) {
	svc, tasks, _ := newTaskFixture()
	tasks.add(&domain.Task{ID: "task-1", AssignedTo: "k-1", Status: domain.TaskPending})

	other := domain.Claims{UserID: "k-2", Username: "field2", Role: domain.RoleKaryakarta}
	_, err := svc.UpdateStatus(context.Background(), other, ports.UpdateTaskStatusInput{
		TaskID: "task-1",
		Status: domain.TaskInProgress,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-assignee, got %v", err)
	}

	// Admins may update any task.
	if _, err := svc.UpdateStatus(context.Background(), adminClaims(), ports.UpdateTaskStatusInput{
		TaskID: "task-1",
		Status: domain.TaskInProgress,
	}); err != nil {
		t.Fatalf("admin update returned error: %v", err)
	}
}

func TestTaskService_UpdateStatus_NoBackwardTransition(t *testing.T) {
	svc, tasks, _ := newTaskFixture()
	tasks.add(&domain.Task{ID: "task-1", AssignedTo: "k-1", Status: domain.TaskCompleted, CompletionPercentage: 100})
	tasks.add(&domain.Task{ID: "task-2", AssignedTo: "k-1", Status: domain.TaskInProgress})

	for _, next := range []domain.TaskStatus{domain.TaskPending, domain.TaskInProgress} {
		_, err := svc.UpdateStatus(context.Background(), karyakartaClaims(), ports.UpdateTaskStatusInput{
			TaskID: "task-1",
			Status: next,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation reopening completed task as %s, got %v", next, err)
		}
	}

	if _, err := svc.UpdateStatus(context.Background(), karyakartaClaims(), ports.UpdateTaskStatusInput{
		TaskID: "task-2",
		Status: domain.TaskPending,
	}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for in_progress→pending, got %v", err)
	}
}

func TestTaskService_UpdateStatus_SameStatusUpdatesProgress(t *testing.T) {
	svc, tasks, _ := newTaskFixture()
	tasks.add(&domain.Task{ID: "task-1", AssignedTo: "k-1", Status: domain.TaskInProgress, CompletionPercentage: 40})

	pct := 70.0
	updated, err := svc.UpdateStatus(context.Background(), karyakartaClaims(), ports.UpdateTaskStatusInput{
		TaskID:               "task-1",
		Status:               domain.TaskInProgress,
		CompletionPercentage: &pct,
	})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.CompletionPercentage != 70.0 {
		t.Fatalf("expected progress bumped to 70, got %v", updated.CompletionPercentage)
	}
}

func TestTaskService_UpdateStatus_InvalidStatus(t *testing.T) {
	svc, tasks, _ := newTaskFixture()
	tasks.add(&domain.Task{ID: "task-1", AssignedTo: "k-1", Status: domain.TaskPending})

	_, err := svc.UpdateStatus(context.Background(), karyakartaClaims(), ports.UpdateTaskStatusInput{
		TaskID: "task-1",
		Status: domain.TaskStatus("archived"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTaskService_MyTasks(t *testing.T) {
	svc, tasks, _ := newTaskFixture()
	tasks.add(&domain.Task{ID: "task-1", AssignedTo: "k-1", Status: domain.TaskPending})
	tasks.add(&domain.Task{ID: "task-2", AssignedTo: "k-1", Status: domain.TaskCompleted})
	tasks.add(&domain.Task{ID: "task-3", AssignedTo: "k-2", Status: domain.TaskPending})

	all, err := svc.MyTasks(context.Background(), karyakartaClaims(), "")
	if err != nil {
		t.Fatalf("MyTasks returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}

	pending, err := svc.MyTasks(context.Background(), karyakartaClaims(), domain.TaskPending)
	if err != nil {
		t.Fatalf("MyTasks returned error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "task-1" {
		t.Fatalf("expected only task-1 pending, got %d tasks", len(pending))
	}
}
