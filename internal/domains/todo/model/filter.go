package model

import (
	"cmp"
	"net/url"
	"strconv"
	"strings"
)

const (
	SortCreatedAt = FieldCreatedAt
	SortUpdatedAt = FieldUpdatedAt
	SortTitle     = FieldTitle
	SortPriority  = FieldPriority
)

var SortableFields = []string{SortCreatedAt, SortUpdatedAt, SortTitle, SortPriority}

// Filter narrows a listing. Nil fields match everything; Search is a case-insensitive substring
// of title or description.
type Filter struct {
	Completed *bool
	Priority  *Priority
	Search    string
}

func (f Filter) Matches(todo Todo) bool {
	if f.Completed != nil && todo.Completed != *f.Completed {
		return false
	}

	if f.Priority != nil && todo.Priority != *f.Priority {
		return false
	}

	if f.Search == "" {
		return true
	}

	needle := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(todo.Title), needle) {
		return true
	}

	return todo.Description != nil && strings.Contains(strings.ToLower(*todo.Description), needle)
}

// Values renders the filter as query parameters. Equal filters render identically.
func (f Filter) Values() url.Values {
	values := url.Values{}

	if f.Completed != nil {
		values.Set(FieldCompleted, strconv.FormatBool(*f.Completed))
	}

	if f.Priority != nil {
		values.Set(FieldPriority, f.Priority.String())
	}

	if f.Search != "" {
		values.Set("search", f.Search)
	}

	return values
}

// Compare orders two todos by field ascending, breaking ties by id.
func Compare(a, b Todo, field string) int {
	var result int

	switch field {
	case SortUpdatedAt:
		result = a.UpdatedAt.Compare(b.UpdatedAt)
	case SortTitle:
		result = strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case SortPriority:
		result = cmp.Compare(a.Priority, b.Priority)
	default:
		result = a.CreatedAt.Compare(b.CreatedAt)
	}

	if result != 0 {
		return result
	}

	return cmp.Compare(a.ID, b.ID)
}
