package models

// Priority represents how urgent a task is.
type Priority string

const (
	// PriorityLow indicates the task can wait.
	PriorityLow Priority = "low"
	// PriorityMedium is the default urgency.
	PriorityMedium Priority = "medium"
	// PriorityHigh indicates the task should be handled soon.
	PriorityHigh Priority = "high"
	// PriorityCritical indicates the task blocks other work.
	PriorityCritical Priority = "critical"
)

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Task represents a work item handed to the team for processing.
// Tasks are created by the caller and are read-only to every engine.
type Task struct {
	// TaskID is the unique identifier for this task.
	TaskID string `json:"task_id"`
	// Title is the short description of the task.
	Title string `json:"title"`
	// Description provides detailed information about the task.
	Description string `json:"description,omitempty"`
	// Priority is the urgency of the task.
	Priority Priority `json:"priority"`
	// Status is an optional caller-supplied workflow state.
	Status string `json:"status,omitempty"`
	// ContextFiles lists related file paths. Opaque to the engines.
	ContextFiles []string `json:"context_files,omitempty"`
}
