package model

import "time"

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Status is the lane a live task sits in. Values outside the four constants
// can still arrive from the store and must be reported, not dropped.
type Status string

const (
	StatusTask       Status = "Task"
	StatusInProgress Status = "In Progress"
	StatusReview     Status = "Review"
	StatusDone       Status = "Done"
)

// Statuses in board order.
var Statuses = []Status{StatusTask, StatusInProgress, StatusReview, StatusDone}

func (s Status) Valid() bool {
	switch s {
	case StatusTask, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// DateLayout is the wire and storage format of Task.Date.
const DateLayout = "2006-01-02"

type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Priority    Priority  `json:"priority"`
	Date        string    `json:"date"`
	Status      Status    `json:"status"`
	Description *string   `json:"description"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask carries the fields the store needs to insert a task. Status and
// IsDeleted are not settable: new tasks always start in the Task lane.
type NewTask struct {
	ProjectID string   `json:"-"`
	UserID    string   `json:"-"`
	Title     string   `json:"title"`
	Priority  Priority `json:"priority"`
	Date      string   `json:"date"`
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title            *string
	Priority         *Priority
	Date             *string
	Status           *Status
	Description      *string
	ClearDescription bool
	IsDeleted        *bool
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Priority == nil && p.Date == nil && p.Status == nil &&
		p.Description == nil && !p.ClearDescription && p.IsDeleted == nil
}

// Apply returns t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Description != nil {
		d := *p.Description
		t.Description = &d
	}
	if p.ClearDescription {
		t.Description = nil
	}
	if p.IsDeleted != nil {
		t.IsDeleted = *p.IsDeleted
	}
	return t
}
