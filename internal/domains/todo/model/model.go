package model

import (
	"time"

	"todoapp/shared/model"
)

const (
	TableName  = "todos"
	EntityName = "todo"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldCompleted   = "completed"
	FieldDueDate     = "due_date"
	FieldCompletedAt = "completed_at"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

type Todo struct {
	ID          int64      `db:"id" generated:"true"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	Priority    Priority   `db:"priority"`
	Completed   bool       `db:"completed"`
	DueDate     *time.Time `db:"due_date"`
	CompletedAt *time.Time `db:"completed_at"`
	model.Metadata
}

// SetCompleted flips the completion flag and keeps CompletedAt in step with it.
// Completing an already completed todo keeps its original completion time.
func (t *Todo) SetCompleted(completed bool, now time.Time) {
	switch {
	case !completed:
		t.CompletedAt = nil
	case !t.Completed || t.CompletedAt == nil:
		t.CompletedAt = &now
	}

	t.Completed = completed
}

// IsOverdue reports whether a pending todo is due before today.
func (t *Todo) IsOverdue(today time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(today)
}

// Status is the textual form of Completed.
func (t *Todo) Status() string {
	if t.Completed {
		return StatusCompleted
	}

	return StatusPending
}

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)
