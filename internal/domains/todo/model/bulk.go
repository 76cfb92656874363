package model

type BulkOperation string

const (
	BulkDelete       BulkOperation = "delete"
	BulkMarkComplete BulkOperation = "mark_complete"
	BulkMarkPending  BulkOperation = "mark_pending"
)

func (o BulkOperation) Valid() bool {
	switch o {
	case BulkDelete, BulkMarkComplete, BulkMarkPending:
		return true
	default:
		return false
	}
}

// BulkEvent is published once a bulk operation has finished, whatever its outcome.
type BulkEvent struct {
	ProgressID     string        `json:"progress_id,omitempty"`
	Operation      BulkOperation `json:"operation"`
	TodoIDs        []int64       `json:"todo_ids"`
	ProcessedCount int           `json:"processed_count"`
	FailedCount    int           `json:"failed_count"`
	Success        bool          `json:"success"`
	OccurredAt     string        `json:"occurred_at"`
}
