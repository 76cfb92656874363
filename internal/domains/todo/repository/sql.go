package repository

import (
	"context"
	"time"

	"todoapp/infras/database"
	"todoapp/infras/otel"
	"todoapp/internal/domains/todo/model"
	"todoapp/shared"
	gDto "todoapp/shared/dto"
	gRepo "todoapp/shared/repository"

	"github.com/jmoiron/sqlx"
)

const (
	sortPriorityExpression = "CASE todos.priority WHEN 'High' THEN 3 WHEN 'Medium' THEN 2 ELSE 1 END"
	sortTitleExpression    = "LOWER(todos.title)"
)

type repositoryImpl struct {
	gRepo.Repository[model.Todo]
}

func NewSQL(db *database.Connection, otel otel.Otel) Todo {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Todo](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func byID(id int64) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

// toStorage keeps every timestamp in UTC so text backends compare them lexically.
func toStorage(todo model.Todo) model.Todo {
	todo.CreatedAt = todo.CreatedAt.UTC()
	todo.UpdatedAt = todo.UpdatedAt.UTC()

	if todo.CompletedAt != nil {
		completedAt := todo.CompletedAt.UTC()
		todo.CompletedAt = &completedAt
	}

	if todo.DueDate != nil {
		dueDate := todo.DueDate.UTC()
		todo.DueDate = &dueDate
	}

	return todo
}

func updatedColumns(todo model.Todo) map[string]any {
	return map[string]any{
		model.FieldTitle:       todo.Title,
		model.FieldDescription: todo.Description,
		model.FieldPriority:    todo.Priority,
		model.FieldCompleted:   todo.Completed,
		model.FieldDueDate:     todo.DueDate,
		model.FieldCompletedAt: todo.CompletedAt,
		model.FieldUpdatedAt:   todo.UpdatedAt,
	}
}

func filterGroup(filter model.Filter) gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if filter.Completed != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldCompleted,
			Value:    *filter.Completed,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	if filter.Priority != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldPriority,
			Value:    *filter.Priority,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	if filter.Search != "" {
		group.Filters = append(group.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{
					ArgName:  "search_title",
					Field:    model.FieldTitle,
					Value:    filter.Search,
					Operator: gDto.FilterOperatorLike,
					Table:    model.TableName,
				},
				gDto.Filter{
					ArgName:  "search_description",
					Field:    model.FieldDescription,
					Value:    filter.Search,
					Operator: gDto.FilterOperatorLike,
					Table:    model.TableName,
				},
			},
		})
	}

	return group
}

func sortExpression(field string) string {
	switch field {
	case model.SortPriority:
		return sortPriorityExpression
	case model.SortTitle:
		return sortTitleExpression
	case model.SortUpdatedAt:
		return model.TableName + "." + model.FieldUpdatedAt
	default:
		return model.TableName + "." + model.FieldCreatedAt
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, todo model.Todo) (model.Todo, error) {
	id, err := r.Repository.Insert(ctx, toStorage(todo))
	if err != nil {
		return todo, err //nolint:wrapcheck
	}

	todo.ID = id

	return todo, nil
}

func (r *repositoryImpl) Get(ctx context.Context, id int64) (model.Todo, error) {
	return r.Repository.Get(ctx, byID(id)) //nolint:wrapcheck
}

func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Todo, error) {
	params.SortBy = sortExpression(params.SortBy)

	return r.Repository.GetAll(ctx, params, filterGroup(filter)) //nolint:wrapcheck
}

func (r *repositoryImpl) Count(ctx context.Context, filter model.Filter) (int, error) {
	return r.Repository.Count(ctx, filterGroup(filter)) //nolint:wrapcheck
}

func (r *repositoryImpl) Update(ctx context.Context, todo model.Todo) (bool, error) {
	affected, err := r.Repository.Update(ctx, updatedColumns(toStorage(todo)), byID(todo.ID))

	return affected > 0, err //nolint:wrapcheck
}

func (r *repositoryImpl) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := r.Repository.Delete(ctx, byID(id))

	return affected > 0, err //nolint:wrapcheck
}

// Stats aggregates with one COUNT per bucket.
func (r *repositoryImpl) Stats(ctx context.Context, today time.Time) (model.Stats, error) {
	stats := model.Stats{ByPriority: map[model.Priority]int{}}

	var err error

	if stats.Total, err = r.Repository.Count(ctx, gDto.FilterGroup{}); err != nil {
		return stats, err //nolint:wrapcheck
	}

	if stats.Completed, err = r.Count(ctx, model.Filter{Completed: shared.Ptr(true)}); err != nil {
		return stats, err
	}

	overdue := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldCompleted, Value: false, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldDueDate, Value: today.UTC(), Operator: gDto.FilterOperatorLess, Table: model.TableName},
		},
	}

	if stats.Overdue, err = r.Repository.Count(ctx, overdue); err != nil {
		return stats, err //nolint:wrapcheck
	}

	for _, priority := range model.Priorities {
		count, err := r.Count(ctx, model.Filter{Priority: shared.Ptr(priority)})
		if err != nil {
			return stats, err
		}

		stats.ByPriority[priority] = count
	}

	return stats, nil
}

func (r *repositoryImpl) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return r.Repository.WithTx(ctx, func(sqltx *sqlx.Tx) error { //nolint:wrapcheck
		return fn(&sqlTx{repo: r, tx: sqltx})
	})
}

func (r *repositoryImpl) Ping(ctx context.Context) error {
	return r.Repository.Ping(ctx) //nolint:wrapcheck
}

type sqlTx struct {
	repo *repositoryImpl
	tx   *sqlx.Tx
}

func (t *sqlTx) Get(ctx context.Context, id int64) (model.Todo, error) {
	return t.repo.GetTx(ctx, t.tx, byID(id)) //nolint:wrapcheck
}

func (t *sqlTx) Update(ctx context.Context, todo model.Todo) (bool, error) {
	affected, err := t.repo.UpdateTx(ctx, t.tx, updatedColumns(toStorage(todo)), byID(todo.ID))

	return affected > 0, err //nolint:wrapcheck
}

func (t *sqlTx) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := t.repo.DeleteTx(ctx, t.tx, byID(id))

	return affected > 0, err //nolint:wrapcheck
}
