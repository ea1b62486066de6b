package domain

import "time"

type GoalStatus string

const (
	StatusToDo       GoalStatus = "to_do"
	StatusInProgress GoalStatus = "in_progress"
	StatusDone       GoalStatus = "done"
	StatusArchived   GoalStatus = "archived" // terminal, reached by deletion
)

func (s GoalStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone, StatusArchived:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// DateLayout is the wire and storage format of a due date.
const DateLayout = "2006-01-02"

type Goal struct {
	ID          string
	CategoryID  string
	User        Author // creator
	Title       string
	Description string
	DueDate     *string // YYYY-MM-DD
	Status      GoalStatus
	Priority    Priority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (g Goal) IsArchived() bool { return g.Status == StatusArchived }
