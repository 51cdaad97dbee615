package domain

import "time"

// TaskStatus enumerates the allowed task workflow states.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusCancelled  TaskStatus = "Cancelled"
)

// ValidTaskStatus reports whether the provided value is a known workflow state.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskPriority enumerates supported task priorities.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// ValidTaskPriority reports whether the provided value is a known priority.
func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task mirrors the persisted representation in the tasks table.
type Task struct {
	ID           string
	ProjectID    *string
	Title        string
	Description  string
	Status       TaskStatus
	Priority     TaskPriority
	AssignedToID *string
	CreatedByID  string
	DueDate      *time.Time
	CreatedAt    time.Time
	IsDeleted    bool
}
