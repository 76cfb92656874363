package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"todoapp/infras/kafka"
	"todoapp/internal/domains/todo/model"
	"todoapp/internal/domains/todo/model/dto"
	"todoapp/internal/domains/todo/repository"
	"todoapp/shared/constant"
	"todoapp/shared/failure"
	"todoapp/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Bulk applies one operation to every id inside a single transaction. Unknown ids fail
// individually; unless partial success is allowed, any failure rolls the whole batch back.
func (s *serviceImpl) Bulk(ctx context.Context, req dto.BulkOperationRequest) (res dto.BulkOperationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Bulk")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	operation := req.ToOperation()
	if !operation.Valid() {
		return res, failure.BadRequestFromString(fmt.Sprintf("unsupported bulk operation %q", req.Operation)) // nolint:wrapcheck
	}

	if req.Options.TrackProgress && len(req.TodoIDs) > constant.BulkProgressThreshold {
		progressID := uuid.NewString()
		res.ProgressID = &progressID

		log.Info().Str("progressID", progressID).Str("operation", req.Operation).Int("items", len(req.TodoIDs)).
			Msg("tracking bulk operation")
	}

	now := timezone.Now()

	var results []dto.BulkResult

	err = s.repo.WithinTx(ctx, func(tx repository.Tx) error {
		results = make([]dto.BulkResult, 0, len(req.TodoIDs))
		failed := 0

		for _, id := range req.TodoIDs {
			applyErr := apply(ctx, tx, operation, id, now)

			switch {
			case applyErr == nil:
				results = append(results, dto.Succeeded(id))
			case failure.GetCode(applyErr) == http.StatusNotFound:
				results = append(results, dto.Failed(id, applyErr.Error()))
				failed++
			default:
				return applyErr
			}
		}

		if failed > 0 && !req.Options.AllowPartial {
			return errBulkRolledBack
		}

		return nil
	})

	switch {
	case errors.Is(err, errBulkRolledBack):
		results = dto.RolledBack(results)
		err = nil
	case err != nil:
		log.Error().Err(err).Str("operation", req.Operation).Msg("failed to run bulk operation")

		return res, fmt.Errorf("failed to run bulk operation: %w", err)
	}

	res.FromResults(operation, results)

	if res.ProcessedCount > 0 {
		s.invalidate(ctx, req.TodoIDs...)
	}

	s.publish(ctx, res.Event(req.TodoIDs, timezone.Format(now, constant.DateFormat)))

	return res, nil
}

func apply(ctx context.Context, tx repository.Tx, operation model.BulkOperation, id int64, now time.Time) error {
	if operation == model.BulkDelete {
		deleted, err := tx.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete todo %d: %w", id, err)
		}

		if !deleted {
			return notFound(id)
		}

		return nil
	}

	todo, err := tx.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get todo %d: %w", id, err)
	}

	if todo.ID == 0 {
		return notFound(id)
	}

	todo.SetCompleted(operation == model.BulkMarkComplete, now)
	todo.Touch(now)

	if _, err := tx.Update(ctx, todo); err != nil {
		return fmt.Errorf("failed to update todo %d: %w", id, err)
	}

	return nil
}

// publish emits the audit event. Delivery problems are logged and never change the outcome.
func (s *serviceImpl) publish(ctx context.Context, event model.BulkEvent) {
	message := kafka.Message{Key: string(event.Operation), Value: event}
	if event.ProgressID != "" {
		message.Key = event.ProgressID
	}

	if err := s.publisher.SendMessages(ctx, s.cfg.Kafka.Topic, message); err != nil {
		log.Warn().Err(err).Str("topic", s.cfg.Kafka.Topic).Msg("failed to publish bulk operation event")
	}
}
