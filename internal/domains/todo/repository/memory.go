package repository

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"todoapp/internal/domains/todo/model"
	gDto "todoapp/shared/dto"
)

// memoryRepository keeps records in a map guarded by one lock. Ids are never reused.
type memoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	todos  map[int64]model.Todo
}

func NewMemory() Todo {
	return &memoryRepository{todos: map[int64]model.Todo{}}
}

func (r *memoryRepository) Insert(_ context.Context, todo model.Todo) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	todo.ID = r.nextID
	r.todos[todo.ID] = todo

	return todo, nil
}

func (r *memoryRepository) Get(_ context.Context, id int64) (model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.todos[id], nil
}

func (r *memoryRepository) matching(filter model.Filter) []model.Todo {
	todos := []model.Todo{}

	for _, todo := range r.todos {
		if filter.Matches(todo) {
			todos = append(todos, todo)
		}
	}

	return todos
}

func (r *memoryRepository) GetAll(_ context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Todo, error) {
	r.mu.RLock()
	todos := r.matching(filter)
	r.mu.RUnlock()

	descending := params.SortDir == gDto.SortDirDesc

	slices.SortFunc(todos, func(a, b model.Todo) int {
		if descending {
			return model.Compare(b, a, params.SortBy)
		}

		return model.Compare(a, b, params.SortBy)
	})

	if params.Limit <= 0 {
		return todos, nil
	}

	offset := params.Offset()
	if offset < 0 || offset >= len(todos) {
		return []model.Todo{}, nil
	}

	return todos[offset:min(offset+params.Limit, len(todos))], nil
}

func (r *memoryRepository) Count(_ context.Context, filter model.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.matching(filter)), nil
}

func (r *memoryRepository) Update(_ context.Context, todo model.Todo) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return update(r.todos, todo), nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return remove(r.todos, id), nil
}

func (r *memoryRepository) Stats(_ context.Context, today time.Time) (model.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := model.Stats{ByPriority: map[model.Priority]int{}}

	for _, todo := range r.todos {
		stats.Total++
		stats.ByPriority[todo.Priority]++

		if todo.Completed {
			stats.Completed++
		}

		if todo.IsOverdue(today) {
			stats.Overdue++
		}
	}

	return stats, nil
}

// WithinTx works on a copy of the records and swaps it in only when fn succeeds. Writers are
// serialised for the whole of fn.
func (r *memoryRepository) WithinTx(_ context.Context, fn func(tx Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &memoryTx{todos: maps.Clone(r.todos)}

	if err := fn(tx); err != nil {
		return err
	}

	r.todos = tx.todos

	return nil
}

func (r *memoryRepository) Ping(context.Context) error {
	return nil
}

type memoryTx struct {
	todos map[int64]model.Todo
}

func (t *memoryTx) Get(_ context.Context, id int64) (model.Todo, error) {
	return t.todos[id], nil
}

func (t *memoryTx) Update(_ context.Context, todo model.Todo) (bool, error) {
	return update(t.todos, todo), nil
}

func (t *memoryTx) Delete(_ context.Context, id int64) (bool, error) {
	return remove(t.todos, id), nil
}

func update(todos map[int64]model.Todo, todo model.Todo) bool {
	if _, ok := todos[todo.ID]; !ok {
		return false
	}

	todos[todo.ID] = todo

	return true
}

func remove(todos map[int64]model.Todo, id int64) bool {
	if _, ok := todos[id]; !ok {
		return false
	}

	delete(todos, id)

	return true
}
