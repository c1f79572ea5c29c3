package appointment

import "time"

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

// Draft is a normalized appointment ready to persist. An empty Description
// or Tag means the field is absent; End and ReminderMinutes use nil for
// absence so zero values never sneak into storage.
type Draft struct {
	Title           string
	Description     string
	Tag             string
	Start           time.Time
	End             *time.Time
	Priority        Priority
	Status          Status
	Location        string
	ReminderMinutes *int
}
