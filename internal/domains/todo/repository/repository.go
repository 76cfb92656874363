package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"todoapp/config"
	"todoapp/infras/database"
	"todoapp/infras/otel"
	"todoapp/internal/domains/todo/model"
	gDto "todoapp/shared/dto"
)

// Todo is the record store. Get returns a zero Todo when the id is unknown; Update and Delete
// report whether a row matched.
type Todo interface {
	Insert(ctx context.Context, todo model.Todo) (model.Todo, error)
	Get(ctx context.Context, id int64) (model.Todo, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Todo, error)
	Count(ctx context.Context, filter model.Filter) (int, error)
	Update(ctx context.Context, todo model.Todo) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context, today time.Time) (model.Stats, error)
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
}

// Tx is the view of the store inside WithinTx. Its changes become visible only when fn returns nil.
type Tx interface {
	Get(ctx context.Context, id int64) (model.Todo, error)
	Update(ctx context.Context, todo model.Todo) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// New picks the backend matching the connection. A nil connection selects the in-memory store.
func New(db *database.Connection, otel otel.Otel) Todo {
	if db == nil || db.Driver == config.DriverMemory {
		return NewMemory()
	}

	return NewSQL(db, otel)
}
