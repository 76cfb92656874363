package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todoapp/config"
	"todoapp/infras/kafka"
	"todoapp/infras/otel/mocks"
	"todoapp/internal/domains/todo/model/dto"
	"todoapp/internal/domains/todo/repository"
	"todoapp/internal/domains/todo/service"
	"todoapp/internal/handlers/health"
	"todoapp/internal/handlers/todo"
	"todoapp/shared/cache"
	gDto "todoapp/shared/dto"
	"todoapp/shared/timezone"
	server "todoapp/transport/http"
	"todoapp/transport/http/middleware"
	"todoapp/transport/http/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const origin = "http://localhost:3000"

type envelope[T any] struct {
	Data       T                `json:"data"`
	Message    string           `json:"message"`
	Pagination *gDto.Pagination `json:"pagination"`
	Error      *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newServer(t *testing.T) *server.HTTP {
	t.Helper()

	h, _ := newTracedServer(t)

	return h
}

func newTracedServer(t *testing.T) (*server.HTTP, *mocks.Recorder) {
	t.Helper()

	timezone.Init("UTC")

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.App.Version = "1.0.0"
	cfg.App.CORS.Enable = true
	cfg.App.CORS.AllowedOrigins = []string{origin, "http://127.0.0.1:3000"}
	cfg.App.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.App.CORS.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	cfg.App.CORS.MaxAgeSeconds = 300
	cfg.Cache.TTL = 60

	ot := mocks.NewRecorder()
	redisCache := cache.NewRedisCache(nil, ot)
	svc := service.New(repository.New(nil, ot), cfg, redisCache, kafka.New(cfg), ot)

	r := router.New(cfg, middleware.NewAppMiddleware(ot, cfg, redisCache), router.DomainHandlers{
		Health: health.New(svc, cfg, ot),
		Todo:   todo.New(svc, ot),
	})

	return server.New(cfg, r), ot
}

func do[T any](t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope[T]) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope[T]
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}

	return rec, env
}

func create(t *testing.T, h http.Handler, body string) dto.TodoResponse {
	t.Helper()

	rec, env := do[dto.TodoResponse](t, h, http.MethodPost, "/todos", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return env.Data
}

func TestServer_CreateAndGet(t *testing.T) {
	h := newServer(t)

	rec, env := do[dto.TodoResponse](t, h, http.MethodPost, "/todos", `{"title":"  Buy milk  "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Todo created successfully", env.Message)
	assert.Equal(t, "Buy milk", env.Data.Title)
	assert.Equal(t, "Medium", env.Data.Priority)
	assert.False(t, env.Data.Completed)
	assert.Nil(t, env.Data.CompletedAt)
	assert.Positive(t, env.Data.ID)

	rec, got := do[dto.TodoResponse](t, h, http.MethodGet, fmt.Sprintf("/todos/%d", env.Data.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, env.Data, got.Data)
}

func TestServer_CreateValidation(t *testing.T) {
	h := newServer(t)

	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{name: "empty title", body: `{"title":""}`, field: "title", message: "title cannot be empty"},
		{name: "blank title", body: `{"title":"   "}`, field: "title", message: "title cannot be empty"},
		{name: "title too long", body: fmt.Sprintf(`{"title":%q}`, strings.Repeat("a", 201)), field: "title", message: "title cannot exceed 200 characters"},
		{name: "completed not boolean", body: `{"title":"x","completed":"yes"}`, field: "completed", message: "completed must be a boolean value"},
		{name: "due date in the past", body: `{"title":"x","due_date":"2000-01-01"}`, field: "due_date", message: "due_date cannot be in the past"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do[any](t, h, http.MethodPost, "/todos", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
			assert.Equal(t, tt.message, env.Error.Details[tt.field])
		})
	}
}

func TestServer_CreateReportsEveryInvalidField(t *testing.T) {
	h := newServer(t)

	rec, env := do[any](t, h, http.MethodPost, "/todos", `{"title":"","completed":"yes","priority":"urgent"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "completed must be a boolean value", env.Error.Details["completed"])
	assert.Equal(t, "title cannot be empty", env.Error.Details["title"])
	assert.Contains(t, env.Error.Details, "priority")
	assert.Len(t, env.Error.Details, 3)
	assert.True(t, strings.HasPrefix(env.Error.Message, "completed must be a boolean value; title cannot be empty"))
}

func TestServer_UpdateAndDelete(t *testing.T) {
	h := newServer(t)
	created := create(t, h, `{"title":"Write report","description":"quarterly"}`)
	path := fmt.Sprintf("/todos/%d", created.ID)

	rec, env := do[dto.TodoResponse](t, h, http.MethodPatch, path, `{"completed":true,"description":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Data.Completed)
	assert.NotNil(t, env.Data.CompletedAt)
	assert.Nil(t, env.Data.Description)
	assert.Equal(t, "Write report", env.Data.Title)

	rec, _ = do[any](t, h, http.MethodPut, path, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do[any](t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec, errEnv := do[any](t, h, http.MethodDelete, path, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, fmt.Sprintf("Todo with id %d not found", created.ID), errEnv.Error.Message)
}

func TestServer_InvalidID(t *testing.T) {
	h := newServer(t)

	for i := range 5 {
		create(t, h, fmt.Sprintf(`{"title":"todo %d"}`, i))
	}

	for _, raw := range []string{"abc", "0", "-3", "+5"} {
		rec, env := do[any](t, h, http.MethodGet, "/todos/"+raw, "")

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
		assert.Equal(t, "Todo with id "+raw+" not found", env.Error.Message)
	}
}

func TestServer_ListFiltersAndPaginates(t *testing.T) {
	h := newServer(t)

	create(t, h, `{"title":"Buy milk","priority":"High"}`)
	create(t, h, `{"title":"Walk dog","priority":"low"}`)
	create(t, h, `{"title":"Buy bread","completed":true}`)

	rec, env := do[[]dto.TodoResponse](t, h, http.MethodGet, "/todos?per_page=2&sort=title&order=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Data, 2)
	assert.Equal(t, "Buy bread", env.Data[0].Title)
	assert.Equal(t, "Buy milk", env.Data[1].Title)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, gDto.Pagination{Page: 1, PerPage: 2, Total: 3, Pages: 2, HasNext: true}, *env.Pagination)

	rec, env = do[[]dto.TodoResponse](t, h, http.MethodGet, "/todos?search=BUY&status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Buy milk", env.Data[0].Title)

	rec, env = do[[]dto.TodoResponse](t, h, http.MethodGet, "/todos?priority=Low", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Walk dog", env.Data[0].Title)

	for _, query := range []string{"completed=maybe", "sort=color", "order=up", "priority=Urgent", "status=done", "page=0"} {
		rec, _ := do[any](t, h, http.MethodGet, "/todos?"+query, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestServer_Stats(t *testing.T) {
	h := newServer(t)

	create(t, h, `{"title":"a","priority":"High"}`)
	create(t, h, `{"title":"b","completed":true}`)

	rec, env := do[dto.StatsResponse](t, h, http.MethodGet, "/todos/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, env.Data.TotalCount)
	assert.Equal(t, 1, env.Data.CompletedCount)
	assert.Equal(t, 1, env.Data.PendingCount)
	assert.InDelta(t, 50.0, env.Data.CompletionRate, 0.001)
	assert.Equal(t, dto.PriorityBreakdown{High: 1, Medium: 1}, env.Data.PriorityBreakdown)
}

func TestServer_BulkRollsBackOnPartialFailure(t *testing.T) {
	h := newServer(t)
	created := create(t, h, `{"title":"keep me"}`)

	body := fmt.Sprintf(`{"operation":"delete","todo_ids":[%d,99999]}`, created.ID)
	rec, env := do[dto.BulkOperationResponse](t, h, http.MethodPut, "/todos/bulk", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.Data.Success)
	assert.Equal(t, 0, env.Data.ProcessedCount)
	assert.Equal(t, 2, env.Data.FailedCount)
	require.Len(t, env.Data.Results, 2)
	assert.Equal(t, "Operation rolled back due to partial failure", *env.Data.Results[0].Error)
	assert.Equal(t, "Todo with id 99999 not found", *env.Data.Results[1].Error)

	rec, _ = do[dto.TodoResponse](t, h, http.MethodGet, fmt.Sprintf("/todos/%d", created.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_BulkCompletes(t *testing.T) {
	h, spans := newTracedServer(t)
	first := create(t, h, `{"title":"one"}`)
	second := create(t, h, `{"title":"two"}`)

	body := fmt.Sprintf(`{"operation":"mark_complete","todo_ids":[%d,%d]}`, first.ID, second.ID)
	rec, env := do[dto.BulkOperationResponse](t, h, http.MethodPost, "/todos/bulk", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Data.Success)
	assert.Equal(t, 2, env.Data.ProcessedCount)

	span, found := spans.Find("handler.BulkOperation")
	require.True(t, found)
	assert.Equal(t, "mark_complete", span.Attributes["bulk.operation"])
	assert.Equal(t, []int64{first.ID, second.ID}, span.Attributes["bulk.todo_ids"])
	assert.Equal(t, 2, span.Attributes["bulk.processed"])
	assert.True(t, span.Ended)

	_, list := do[[]dto.TodoResponse](t, h, http.MethodGet, "/todos?completed=true", "")
	assert.Len(t, list.Data, 2)

	rec, _ = do[any](t, h, http.MethodPut, "/todos/bulk", `{"operation":"delete","todo_ids":[1,1]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Routing(t *testing.T) {
	h := newServer(t)

	rec, env := do[any](t, h, http.MethodPost, "/health", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", env.Error.Code)

	rec, env = do[any](t, h, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestServer_Headers(t *testing.T) {
	h := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, http.StatusMultipleChoices)
	assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("X-Request-ID", "req-42")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestServer_HealthDuringShutdown(t *testing.T) {
	h := newServer(t)
	h.SetState(server.ServerStateInGracePeriod)

	rec, env := do[any](t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "SERVER PREPARING TO SHUT DOWN", env.Error.Message)

	rec, _ = do[[]dto.TodoResponse](t, h, http.MethodGet, "/todos", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_PagePastTheEnd(t *testing.T) {
	h := newServer(t)
	create(t, h, `{"title":"only one"}`)

	for _, page := range []string{"5", "9223372036854775807"} {
		rec, env := do[[]dto.TodoResponse](t, h, http.MethodGet, "/todos?per_page=20&page="+page, "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Empty(t, env.Data)
		require.NotNil(t, env.Pagination)
		assert.Equal(t, 1, env.Pagination.Total)
		assert.Equal(t, 1, env.Pagination.Pages)
		assert.False(t, env.Pagination.HasNext)
		assert.True(t, env.Pagination.HasPrev)
	}
}
