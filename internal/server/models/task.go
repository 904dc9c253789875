package models

import "time"

// Task priorities. Anything else is rejected at the service boundary.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a work item owned by exactly one user. Visibility and mutation are
// always scoped to UserID. Description and Due are nullable.
type Task struct {
	ID          string
	UserID      int64
	Title       string
	Description *string
	Due         *time.Time
	Priority    string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
