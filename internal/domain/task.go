package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the lifecycle state of a tracked task.
type TaskStatus string

// Possible task status values, matching the check constraint on tasks.status.
const (
	TaskStatusNotStarted       TaskStatus = "Not Started"
	TaskStatusInProgress       TaskStatus = "In Progress"
	TaskStatusOnHold           TaskStatus = "On Hold"
	TaskStatusCompleted        TaskStatus = "Completed"
	TaskStatusReviewedApproved TaskStatus = "Reviewed & Approved"
)

// Priority is the coarse importance of a task.
type Priority string

// Possible priority values, matching the check constraint on tasks.priority.
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Task is a unit of tracked work. The reminder job only reads Title, Deadline
// and the assignee; the remaining fields are maintained by whoever manages
// the task list.
type Task struct {
	ID                 int64      `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Category           string     `json:"category,omitempty"`
	Priority           Priority   `json:"priority,omitempty"`
	ExpectedOutcome    string     `json:"expected_outcome,omitempty"`
	Deadline           time.Time  `json:"deadline"`
	AssignedTo         int64      `json:"assigned_to"`
	Dependencies       string     `json:"dependencies,omitempty"`
	RequiredResources  string     `json:"required_resources,omitempty"`
	EstimatedTime      string     `json:"estimated_time"`
	Instructions       string     `json:"instructions,omitempty"`
	ReviewProcess      string     `json:"review_process,omitempty"`
	PerformanceMetrics string     `json:"performance_metrics,omitempty"`
	SupportContact     *int64     `json:"support_contact,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	Status             TaskStatus `json:"status"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// Validate checks the fields the tasks table constrains.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(t.Title) > 255 {
		return fmt.Errorf("%w: title must be at most 255 characters", ErrValidation)
	}
	if t.Deadline.IsZero() {
		return fmt.Errorf("%w: deadline is required", ErrInvalidDeadline)
	}
	if t.AssignedTo <= 0 {
		return fmt.Errorf("%w: assignee is required", ErrValidation)
	}
	if strings.TrimSpace(t.EstimatedTime) == "" {
		return fmt.Errorf("%w: estimated time is required", ErrValidation)
	}
	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}
	if t.Priority != "" && !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// IsValid reports whether s is one of the known task statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusOnHold,
		TaskStatusCompleted, TaskStatusReviewedApproved:
		return true
	}
	return false
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
