package domain

import "time"

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// validTaskTransitions defines the allowed workflow transitions.
var validTaskTransitions = map[TaskStatus][]TaskStatus{
	TaskPending:    {TaskInProgress, TaskCompleted},
	TaskInProgress: {TaskCompleted},
}

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	return s == TaskPending || s == TaskInProgress || s == TaskCompleted
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range validTaskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Task is a unit of field work assigned to a user.
type Task struct {
	ID                   string     `json:"id"`
	AssignedTo           string     `json:"assigned_to"`
	AssignedBy           string     `json:"assigned_by"`
	TaskType             string     `json:"task_type"`
	Description          string     `json:"description"`
	TargetVoters         []string   `json:"target_voters"`
	TargetArea           string     `json:"target_area,omitempty"`
	TargetBooth          string     `json:"target_booth,omitempty"`
	DueDate              *time.Time `json:"due_date,omitempty"`
	Status               TaskStatus `json:"status"`
	CompletionPercentage float64    `json:"completion_percentage"`
	CreatedAt            time.Time  `json:"created_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}
