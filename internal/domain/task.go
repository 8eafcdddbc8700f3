package domain

import (
	"context"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusInReview   TaskStatus = "IN_REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
)

// Valid accepts any declared status; there is deliberately no transition graph,
// DONE back to TODO is allowed.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task belongs to exactly one project; ProjectID never changes after creation.
type Task struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"size:2048" json:"description,omitempty"`
	Status      TaskStatus   `gorm:"size:16;not null;default:TODO" json:"status"`
	Priority    TaskPriority `gorm:"size:16;not null;default:MEDIUM" json:"priority"`
	ProjectID   string       `gorm:"size:36;not null;index" json:"projectId"`
	AssigneeID  *string      `gorm:"size:36;index" json:"assigneeId,omitempty"`
	CreatedByID *string      `gorm:"size:36" json:"createdById,omitempty"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Active      bool         `gorm:"not null;default:true" json:"-"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }

// TaskPatch carries optional field updates; nil means leave unchanged.
// Assignee distinguishes "absent" from "set to null" via the inner pointer.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	Assignee    **string
	DueDate     *time.Time
}

type TaskFilter struct {
	Status     *TaskStatus
	Priority   *TaskPriority
	AssigneeID string
	ProjectID  string
	Page       int
	Limit      int
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	// FindByID returns (nil, nil) when the task is missing or inactive.
	FindByID(ctx context.Context, id string) (*Task, error)
	// ListForUser returns active tasks where userID is assignee or creator, newest first.
	ListForUser(ctx context.Context, userID string, f TaskFilter) ([]Task, int64, error)
	ListByProject(ctx context.Context, projectID string) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	SoftDelete(ctx context.Context, id string) error
}
