package model

import "time"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "BACKLOG"
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusInReview   TaskStatus = "IN_REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusBacklog, TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work inside a project. TaskCode is a short
// human-facing identifier ("task-<id>") distinct from the primary key.
// AssignedTo is empty when the task is unassigned; when set it must refer
// to a member of the task's workspace.
type Task struct {
	ID          string       `json:"id"          db:"id"`
	TaskCode    string       `json:"taskCode"    db:"task_code"`
	ProjectID   string       `json:"projectId"   db:"project_id"`
	WorkspaceID string       `json:"workspaceId" db:"workspace_id"`
	Title       string       `json:"title"       db:"title"`
	Description string       `json:"description" db:"description"`
	Status      TaskStatus   `json:"status"      db:"status"`
	Priority    TaskPriority `json:"priority"    db:"priority"`
	AssignedTo  string       `json:"assignedTo"  db:"assigned_to"`
	CreatedBy   string       `json:"createdBy"   db:"created_by"`
	CreatedAt   time.Time    `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt"   db:"updated_at"`
}
