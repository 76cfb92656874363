package dto

import (
	"strings"
	"time"

	"todoapp/internal/domains/todo/model"
	"todoapp/shared/constant"
	gDto "todoapp/shared/dto"
	"todoapp/shared/timezone"
	"todoapp/shared/validator"

	val "github.com/go-playground/validator/v10"
)

const (
	TitleMaxLength       = 200
	DescriptionMaxLength = 1000
)

func init() {
	err := validator.RegisterValidation("priority", func(field val.FieldLevel) bool {
		_, err := model.ParsePriority(field.Field().String())

		return err == nil
	}, "{field} must be one of: High, Medium, Low")
	if err != nil {
		panic(err)
	}
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}

	trim := strings.TrimSpace(*value)

	return &trim
}

// nonEmpty drops values that are empty after trimming.
func nonEmpty(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}

	return value
}

func parseDate(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}

	date, err := timezone.Parse(constant.DateOnlyFormat, *value)
	if err != nil {
		return nil
	}

	stored := timezone.DateOf(date)

	return &stored
}

func formatDate(date *time.Time) *string {
	if date == nil {
		return nil
	}

	formatted := date.UTC().Format(constant.DateOnlyFormat)

	return &formatted
}

func formatTime(at *time.Time) *string {
	if at == nil {
		return nil
	}

	formatted := timezone.Format(*at, constant.DateFormat)

	return &formatted
}

type CreateTodoRequest struct {
	Title       string  `json:"title" validate:"notblank,max=200"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Priority    *string `json:"priority" validate:"omitnil,priority"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02,notpast"`
}

func (c *CreateTodoRequest) Normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = trimmed(c.Description)
	c.Priority = trimmed(c.Priority)
	c.DueDate = trimmed(c.DueDate)
}

// ToModel builds a new record. It expects a request that already passed validation.
func (c *CreateTodoRequest) ToModel(now time.Time) model.Todo {
	todo := model.Todo{
		Title:       c.Title,
		Description: nonEmpty(c.Description),
		Priority:    model.DefaultPriority,
		DueDate:     parseDate(c.DueDate),
	}

	if c.Priority != nil {
		if priority, err := model.ParsePriority(*c.Priority); err == nil {
			todo.Priority = priority
		}
	}

	if c.Completed != nil {
		todo.SetCompleted(*c.Completed, now)
	}

	todo.Stamp(now)

	return todo
}

// UpdateTodoRequest carries a partial update. Absent fields stay untouched; an empty description
// or due_date clears the stored value.
type UpdateTodoRequest struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=200"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Priority    *string `json:"priority" validate:"omitnil,priority"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02,notpast"`
}

func (u *UpdateTodoRequest) Normalize() {
	u.Title = trimmed(u.Title)
	u.Description = trimmed(u.Description)
	u.Priority = trimmed(u.Priority)
	u.DueDate = trimmed(u.DueDate)
}

func (u *UpdateTodoRequest) IsEmpty() bool {
	return *u == (UpdateTodoRequest{})
}

// Apply copies the present fields onto todo and refreshes its update time.
func (u *UpdateTodoRequest) Apply(todo *model.Todo, now time.Time) {
	if u.Title != nil {
		todo.Title = *u.Title
	}

	if u.Description != nil {
		todo.Description = nonEmpty(u.Description)
	}

	if u.Priority != nil {
		if priority, err := model.ParsePriority(*u.Priority); err == nil {
			todo.Priority = priority
		}
	}

	if u.DueDate != nil {
		todo.DueDate = parseDate(u.DueDate)
	}

	if u.Completed != nil {
		todo.SetCompleted(*u.Completed, now)
	}

	todo.Touch(now)
}

type TodoResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	Completed   bool    `json:"completed"`
	DueDate     *string `json:"due_date"`
	CompletedAt *string `json:"completed_at"`
	gDto.Metadata
}

func (r *TodoResponse) FromModel(model model.Todo) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.Priority = model.Priority.String()
	r.Completed = model.Completed
	r.DueDate = formatDate(model.DueDate)
	r.CompletedAt = formatTime(model.CompletedAt)
	r.Metadata.FromModel(model.Metadata)
}

type GetTodosResponse struct {
	Todos      []TodoResponse  `json:"todos"`
	Pagination gDto.Pagination `json:"pagination"`
}

func (r *GetTodosResponse) FromModels(models []model.Todo, params gDto.QueryParams, total int) {
	r.Pagination = gDto.NewPagination(params, total)

	r.Todos = make([]TodoResponse, len(models))
	for i, mod := range models {
		r.Todos[i].FromModel(mod)
	}
}

type PriorityBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type StatsResponse struct {
	TotalCount        int               `json:"total_count"`
	CompletedCount    int               `json:"completed_count"`
	PendingCount      int               `json:"pending_count"`
	OverdueCount      int               `json:"overdue_count"`
	CompletionRate    float64           `json:"completion_rate"`
	PriorityBreakdown PriorityBreakdown `json:"priority_breakdown"`
}

func (r *StatsResponse) FromModel(stats model.Stats) {
	r.TotalCount = stats.Total
	r.CompletedCount = stats.Completed
	r.PendingCount = stats.Pending()
	r.OverdueCount = stats.Overdue
	r.CompletionRate = stats.CompletionRate()
	r.PriorityBreakdown = PriorityBreakdown{
		High:   stats.ByPriority[model.PriorityHigh],
		Medium: stats.ByPriority[model.PriorityMedium],
		Low:    stats.ByPriority[model.PriorityLow],
	}
}

// ListRequest carries the filters a listing accepts on top of paging and sorting.
type ListRequest struct {
	Completed *bool  `json:"completed"`
	Status    string `json:"status" validate:"omitempty,oneof=pending completed"`
	Priority  string `json:"priority" validate:"omitempty,priority"`
	Search    string `json:"search" validate:"omitempty,max=200"`
}

// ToFilter resolves the request into a store filter. status wins over completed when both are set.
func (l *ListRequest) ToFilter() model.Filter {
	filter := model.Filter{
		Completed: l.Completed,
		Search:    strings.TrimSpace(l.Search),
	}

	switch l.Status {
	case model.StatusCompleted:
		completed := true
		filter.Completed = &completed
	case model.StatusPending:
		completed := false
		filter.Completed = &completed
	}

	if l.Priority != "" {
		if priority, err := model.ParsePriority(l.Priority); err == nil {
			filter.Priority = &priority
		}
	}

	return filter
}
