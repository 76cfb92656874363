package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"todoapp/config"
	"todoapp/infras/kafka"
	kafkaMocks "todoapp/infras/kafka/mocks"
	"todoapp/infras/otel/mocks"
	todoMocks "todoapp/internal/domains/todo/mocks"
	"todoapp/internal/domains/todo/model"
	"todoapp/internal/domains/todo/model/dto"
	"todoapp/internal/domains/todo/repository"
	"todoapp/internal/domains/todo/service"
	"todoapp/shared"
	"todoapp/shared/cache"
	cacheMocks "todoapp/shared/cache/mocks"
	gDto "todoapp/shared/dto"
	"todoapp/shared/failure"
	gModel "todoapp/shared/model"
	"todoapp/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errDatabase = errors.New("database error")

type fixture struct {
	repo      *todoMocks.MockTodo
	cache     *cacheMocks.MockRedisCache
	publisher *kafkaMocks.MockClient
	svc       service.Todo
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	timezone.Init("UTC")

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:      todoMocks.NewMockTodo(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		publisher: kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.Kafka.Topic = "todo.bulk-operations"

	f.svc = service.New(f.repo, cfg, f.cache, f.publisher, mocks.NewOtel())

	return f
}

// cacheMiss makes every read miss and accepts any write or invalidation.
func (f fixture) cacheMiss() {
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func stored(id int64, title string) model.Todo {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	return model.Todo{
		ID:       id,
		Title:    title,
		Priority: model.PriorityMedium,
		Metadata: gModel.Metadata{CreatedAt: now, UpdatedAt: now},
	}
}

func TestTodoService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateTodoRequest
		setupMock func(f fixture)
		wantErr   bool
	}{
		{
			name: "successful creation",
			req:  dto.CreateTodoRequest{Title: "Buy milk", Priority: shared.Ptr("high")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, todo model.Todo) (model.Todo, error) {
						assert.Equal(t, "Buy milk", todo.Title)
						assert.Equal(t, model.PriorityHigh, todo.Priority)
						assert.False(t, todo.CreatedAt.IsZero())

						todo.ID = 1

						return todo, nil
					})
				f.cache.EXPECT().Clear(gomock.Any(), "todo:list:*").Return(nil)
				f.cache.EXPECT().Clear(gomock.Any(), "todo:stats:*").Return(nil)
			},
		},
		{
			name: "cache failures do not fail the write",
			req:  dto.CreateTodoRequest{Title: "Buy milk"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(stored(1, "Buy milk"), nil)
				f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(errors.New("redis down")).Times(2)
			},
		},
		{
			name: "repository error",
			req:  dto.CreateTodoRequest{Title: "Buy milk"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(model.Todo{}, errDatabase)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), tt.req)

			if tt.wantErr {
				assert.ErrorIs(t, err, errDatabase)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(1), res.ID)
			assert.Equal(t, "Buy milk", res.Title)
		})
	}
}

func TestTodoService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 2, SortBy: model.SortCreatedAt, SortDir: gDto.SortDirDesc}

	t.Run("reads through to the store on a miss", func(t *testing.T) {
		f := newFixture(t)
		filter := model.Filter{Search: "milk"}

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.repo.EXPECT().Count(gomock.Any(), filter).Return(3, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), params, filter).Return([]model.Todo{stored(3, "c"), stored(2, "b")}, nil)
		f.cache.EXPECT().
			Save(gomock.Any(), "todo:list:order=DESC&page=1&per_page=2&search=milk&sort=created_at", gomock.Any(), 60).
			Return(nil)

		res, err := f.svc.GetAll(context.Background(), params, filter)

		require.NoError(t, err)
		assert.Len(t, res.Todos, 2)
		assert.Equal(t, gDto.Pagination{Page: 1, PerPage: 2, Total: 3, Pages: 2, HasNext: true}, res.Pagination)
	})

	t.Run("serves a cache hit", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, ok := value.(*dto.GetTodosResponse)
				require.True(t, ok)

				res.Pagination.Total = 42

				return nil
			})

		res, err := f.svc.GetAll(context.Background(), params, model.Filter{})

		require.NoError(t, err)
		assert.Equal(t, 42, res.Pagination.Total)
	})

	t.Run("count error", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errDatabase)

		_, err := f.svc.GetAll(context.Background(), params, model.Filter{})

		assert.ErrorIs(t, err, errDatabase)
	})

	t.Run("list error", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errDatabase)

		_, err := f.svc.GetAll(context.Background(), params, model.Filter{})

		assert.ErrorIs(t, err, errDatabase)
	})
}

func TestTodoService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "todo:detail:1", gomock.Any()).Return(cache.Nil)
				f.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(stored(1, "Buy milk"), nil)
				f.cache.EXPECT().Save(gomock.Any(), "todo:detail:1", gomock.Any(), 60).Return(nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.cacheMiss()
				f.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(model.Todo{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.cacheMiss()
				f.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(model.Todo{}, errDatabase)
			},
			wantErr: errDatabase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), 1)

			switch {
			case tt.wantCode != 0:
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.EqualError(t, err, "Todo with id 1 not found")
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Buy milk", res.Title)
			}
		})
	}
}

func TestTodoService_Update(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateTodoRequest
		setupMock func(f fixture)
		wantCode  int
		wantErr   error
	}{
		{
			name: "successful update",
			req:  dto.UpdateTodoRequest{Title: shared.Ptr("Buy oat milk"), Completed: shared.Ptr(true)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(stored(1, "Buy milk"), nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, todo model.Todo) (bool, error) {
						assert.Equal(t, "Buy oat milk", todo.Title)
						assert.True(t, todo.Completed)
						assert.NotNil(t, todo.CompletedAt)
						assert.True(t, todo.UpdatedAt.After(todo.CreatedAt))

						return true, nil
					})
				f.cache.EXPECT().Delete(gomock.Any(), "todo:detail:1").Return(nil)
				f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).Times(2)
			},
		},
		{
			name:      "empty request",
			req:       dto.UpdateTodoRequest{},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "not found",
			req:  dto.UpdateTodoRequest{Title: shared.Ptr("x")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(model.Todo{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "deleted concurrently",
			req:  dto.UpdateTodoRequest{Title: shared.Ptr("x")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(stored(1, "Buy milk"), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			req:  dto.UpdateTodoRequest{Title: shared.Ptr("x")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(stored(1, "Buy milk"), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(false, errDatabase)
			},
			wantErr: errDatabase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Update(context.Background(), tt.req, 1)

			switch {
			case tt.wantCode != 0:
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Buy oat milk", res.Title)
				assert.True(t, res.Completed)
			}
		})
	}
}

func TestTodoService_Delete(t *testing.T) {
	t.Run("deletes and invalidates", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Delete(gomock.Any(), int64(1)).Return(true, nil)
		f.cache.EXPECT().Delete(gomock.Any(), "todo:detail:1").Return(nil)
		f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		assert.NoError(t, f.svc.Delete(context.Background(), 1))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Delete(gomock.Any(), int64(1)).Return(false, nil)

		err := f.svc.Delete(context.Background(), 1)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Delete(gomock.Any(), int64(1)).Return(false, errDatabase)

		assert.ErrorIs(t, f.svc.Delete(context.Background(), 1), errDatabase)
	})
}

func TestTodoService_Stats(t *testing.T) {
	f := newFixture(t)
	f.cacheMiss()

	today := timezone.DateOf(timezone.Now())
	f.repo.EXPECT().Stats(gomock.Any(), today).Return(model.Stats{
		Total:      4,
		Completed:  1,
		Overdue:    2,
		ByPriority: map[model.Priority]int{model.PriorityHigh: 1, model.PriorityMedium: 3},
	}, nil)

	res, err := f.svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, dto.StatsResponse{
		TotalCount:        4,
		CompletedCount:    1,
		PendingCount:      3,
		OverdueCount:      2,
		CompletionRate:    25,
		PriorityBreakdown: dto.PriorityBreakdown{High: 1, Medium: 3},
	}, res)
}

func TestTodoService_Ping(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Ping(gomock.Any()).Return(errDatabase)

	assert.ErrorIs(t, f.svc.Ping(context.Background()), errDatabase)
}

// runTx executes the transaction body against tx the way a store would, keeping its error.
func runTx(f fixture, tx repository.Tx) {
	f.repo.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(repository.Tx) error) error {
			return fn(tx)
		})
}

func TestTodoService_Bulk(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()

		tx := todoMocks.NewMockTx(gomock.NewController(t))
		runTx(f, tx)

		for _, id := range []int64{1, 2} {
			tx.EXPECT().Get(gomock.Any(), id).Return(stored(id, "todo"), nil)
		}

		tx.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, todo model.Todo) (bool, error) {
				assert.True(t, todo.Completed)

				return true, nil
			}).Times(2)

		f.publisher.EXPECT().
			SendMessages(gomock.Any(), "todo.bulk-operations", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				require.Len(t, messages, 1)

				event, ok := messages[0].Value.(model.BulkEvent)
				require.True(t, ok)
				assert.Equal(t, model.BulkMarkComplete, event.Operation)
				assert.Equal(t, 2, event.ProcessedCount)
				assert.True(t, event.Success)

				return nil
			})

		res, err := f.svc.Bulk(context.Background(), dto.BulkOperationRequest{
			Operation: "mark_complete",
			TodoIDs:   []int64{1, 2},
		})

		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 2, res.ProcessedCount)
		assert.Zero(t, res.FailedCount)
		assert.Nil(t, res.ProgressID)
	})

	t.Run("unknown id rolls back the batch", func(t *testing.T) {
		f := newFixture(t)

		tx := todoMocks.NewMockTx(gomock.NewController(t))
		runTx(f, tx)

		tx.EXPECT().Delete(gomock.Any(), int64(1)).Return(true, nil)
		tx.EXPECT().Delete(gomock.Any(), int64(99999)).Return(false, nil)
		f.publisher.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		res, err := f.svc.Bulk(context.Background(), dto.BulkOperationRequest{
			Operation: "delete",
			TodoIDs:   []int64{1, 99999},
		})

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Zero(t, res.ProcessedCount)
		assert.Equal(t, 2, res.FailedCount)
		assert.Equal(t, dto.ErrorBulkRolledBack, *res.Results[0].Error)
		assert.Equal(t, "Todo with id 99999 not found", *res.Results[1].Error)
	})

	t.Run("partial success when allowed", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()

		tx := todoMocks.NewMockTx(gomock.NewController(t))
		runTx(f, tx)

		tx.EXPECT().Delete(gomock.Any(), int64(1)).Return(true, nil)
		tx.EXPECT().Delete(gomock.Any(), int64(99999)).Return(false, nil)
		f.publisher.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Bulk(context.Background(), dto.BulkOperationRequest{
			Operation: "delete",
			TodoIDs:   []int64{1, 99999},
			Options:   dto.BulkOptions{AllowPartial: true},
		})

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, 1, res.ProcessedCount)
		assert.Equal(t, 1, res.FailedCount)
		assert.True(t, res.Results[0].Success)
	})

	t.Run("store error aborts", func(t *testing.T) {
		f := newFixture(t)

		tx := todoMocks.NewMockTx(gomock.NewController(t))
		runTx(f, tx)

		tx.EXPECT().Get(gomock.Any(), int64(1)).Return(model.Todo{}, errDatabase)

		_, err := f.svc.Bulk(context.Background(), dto.BulkOperationRequest{
			Operation: "mark_pending",
			TodoIDs:   []int64{1},
		})

		assert.ErrorIs(t, err, errDatabase)
	})

	t.Run("progress id for large tracked batches", func(t *testing.T) {
		f := newFixture(t)
		f.cacheMiss()

		ids := make([]int64, 11)
		for i := range ids {
			ids[i] = int64(i + 1)
		}

		tx := todoMocks.NewMockTx(gomock.NewController(t))
		runTx(f, tx)

		tx.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(true, nil).Times(len(ids))
		f.publisher.EXPECT().
			SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				event, ok := messages[0].Value.(model.BulkEvent)
				require.True(t, ok)
				assert.NotEmpty(t, event.ProgressID)
				assert.Equal(t, event.ProgressID, messages[0].Key)

				return nil
			})

		res, err := f.svc.Bulk(context.Background(), dto.BulkOperationRequest{
			Operation: "delete",
			TodoIDs:   ids,
			Options:   dto.BulkOptions{TrackProgress: true},
		})

		require.NoError(t, err)
		require.NotNil(t, res.ProgressID)
		assert.Equal(t, 11, res.ProcessedCount)
	})

	t.Run("unsupported operation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Bulk(context.Background(), dto.BulkOperationRequest{Operation: "archive", TodoIDs: []int64{1}})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}
