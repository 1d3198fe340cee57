package models

import (
	"encoding/json"
	"strings"
	"time"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// NormalizePriority lowercases and trims a priority token. It does not
// check that the result is one of the permitted values.
func NormalizePriority(s string) TaskPriority {
	return TaskPriority(strings.ToLower(strings.TrimSpace(s)))
}

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// UnmarshalJSON accepts any casing ("High", "HIGH") and stores the canonical
// lowercase token.
func (p *TaskPriority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = NormalizePriority(s)
	return nil
}

type Task struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description *string       `gorm:"type:text" json:"description"`
	Completed   bool          `gorm:"not null;default:false" json:"completed"`
	ProjectID   *uint64       `json:"projectId"`
	DueDate     *time.Time    `json:"dueDate"`
	Priority    *TaskPriority `gorm:"type:varchar(10)" json:"priority"`
	Starred     bool          `gorm:"not null;default:false" json:"starred"`
	AssignedTo  *uint64       `json:"assignedTo"`
	AssignedBy  *uint64       `json:"assignedBy"`
	UserID      uint64        `gorm:"not null" json:"userId"`
	TeamID      *uint64       `json:"teamId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// AssignTo delegates the task to assignee on behalf of by. Both assignment
// fields always change together.
func (t *Task) AssignTo(assignee, by uint64) {
	t.AssignedTo = &assignee
	t.AssignedBy = &by
}

// Unassign clears both assignment fields.
func (t *Task) Unassign() {
	t.AssignedTo = nil
	t.AssignedBy = nil
}

// InvolvesUser reports whether userID created, received or delegated the task.
func (t Task) InvolvesUser(userID uint64) bool {
	return t.UserID == userID || equalID(t.AssignedTo, userID) || equalID(t.AssignedBy, userID)
}

// TaskSummary is a derived count over a task set; Pending is always
// Total - Completed.
type TaskSummary struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

// NewTaskSummary builds a summary from the total and completed counts.
func NewTaskSummary(total, completed int64) TaskSummary {
	return TaskSummary{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
	}
}

func equalID(p *uint64, id uint64) bool {
	return p != nil && *p == id
}
