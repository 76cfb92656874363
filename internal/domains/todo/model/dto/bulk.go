package dto

import (
	"todoapp/internal/domains/todo/model"
)

const ErrorBulkRolledBack = "Operation rolled back due to partial failure"

type BulkOptions struct {
	TrackProgress bool `json:"track_progress"`
	AllowPartial  bool `json:"allow_partial"`
}

type BulkOperationRequest struct {
	Operation string      `json:"operation" validate:"required,oneof=delete mark_complete mark_pending"`
	TodoIDs   []int64     `json:"todo_ids" validate:"required,min=1,max=50,unique,dive,gt=0"`
	Options   BulkOptions `json:"options"`
}

func (b *BulkOperationRequest) ToOperation() model.BulkOperation {
	return model.BulkOperation(b.Operation)
}

type BulkResult struct {
	TodoID  int64   `json:"todo_id"`
	Success bool    `json:"success"`
	Error   *string `json:"error,omitempty"`
}

func Succeeded(id int64) BulkResult {
	return BulkResult{TodoID: id, Success: true}
}

func Failed(id int64, reason string) BulkResult {
	return BulkResult{TodoID: id, Error: &reason}
}

type BulkOperationResponse struct {
	Success        bool         `json:"success"`
	Operation      string       `json:"operation"`
	ProcessedCount int          `json:"processed_count"`
	FailedCount    int          `json:"failed_count"`
	Results        []BulkResult `json:"results"`
	ProgressID     *string      `json:"progress_id,omitempty"`
}

// FromResults fills the counters from results. The operation succeeds only when nothing failed.
func (r *BulkOperationResponse) FromResults(operation model.BulkOperation, results []BulkResult) {
	r.Operation = string(operation)
	r.Results = results
	r.ProcessedCount = 0
	r.FailedCount = 0

	for _, result := range results {
		if result.Success {
			r.ProcessedCount++
		} else {
			r.FailedCount++
		}
	}

	r.Success = r.FailedCount == 0
}

// RolledBack rewrites every successful result as failed, keeping the reason of the ones that
// caused the rollback.
func RolledBack(results []BulkResult) []BulkResult {
	rolled := make([]BulkResult, len(results))

	for i, result := range results {
		if result.Success {
			rolled[i] = Failed(result.TodoID, ErrorBulkRolledBack)

			continue
		}

		rolled[i] = result
	}

	return rolled
}

// Event summarises the finished operation for the audit stream.
func (r *BulkOperationResponse) Event(ids []int64, occurredAt string) model.BulkEvent {
	event := model.BulkEvent{
		Operation:      model.BulkOperation(r.Operation),
		TodoIDs:        ids,
		ProcessedCount: r.ProcessedCount,
		FailedCount:    r.FailedCount,
		Success:        r.Success,
		OccurredAt:     occurredAt,
	}

	if r.ProgressID != nil {
		event.ProgressID = *r.ProgressID
	}

	return event
}
