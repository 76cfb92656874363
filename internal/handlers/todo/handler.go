package todo

import (
	"fmt"
	"net/http"
	"strings"

	"todoapp/infras/otel"
	"todoapp/internal/domains/todo/model"
	"todoapp/internal/domains/todo/model/dto"
	"todoapp/internal/domains/todo/service"
	"todoapp/shared"
	"todoapp/shared/constant"
	gDto "todoapp/shared/dto"
	"todoapp/shared/failure"
	"todoapp/shared/validator"
	"todoapp/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Todo
	otel    otel.Otel
}

func New(service service.Todo, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/todos", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetTodos)
		routerGroup.Post("/", handler.CreateTodo)
		routerGroup.Get("/stats", handler.GetStats)
		routerGroup.Put("/bulk", handler.BulkOperation)
		routerGroup.Post("/bulk", handler.BulkOperation)
		routerGroup.Get("/{id}", handler.GetTodoByID)
		routerGroup.Put("/{id}", handler.UpdateTodo)
		routerGroup.Patch("/{id}", handler.UpdateTodo)
		routerGroup.Delete("/{id}", handler.DeleteTodo)
	})
}

// todoID reads the path id. Anything that is not a positive integer cannot name a todo.
func todoID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, constant.RequestParamID)

	id, ok := shared.ParseID(raw)
	if !ok {
		return 0, failure.NotFound(fmt.Sprintf("Todo with id %s not found", raw)) // nolint:wrapcheck
	}

	return id, nil
}

func listRequest(r *http.Request) (gDto.QueryParams, model.Filter, error) {
	params := gDto.QueryParams{}
	if err := params.FromRequest(r, model.SortableFields); err != nil {
		return params, model.Filter{}, err //nolint:wrapcheck
	}

	query := r.URL.Query()

	completed, err := shared.ConvertStringToBool(query.Get(constant.RequestParamCompleted))
	if err != nil {
		return params, model.Filter{}, failure.InvalidParameter("completed must be a boolean value") // nolint:wrapcheck
	}

	req := dto.ListRequest{
		Completed: completed,
		Status:    strings.ToLower(strings.TrimSpace(query.Get(constant.RequestParamStatus))),
		Priority:  strings.TrimSpace(query.Get(constant.RequestParamPriority)),
		Search:    query.Get(constant.RequestParamSearch),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		return params, model.Filter{}, err //nolint:wrapcheck
	}

	return params, req.ToFilter(), nil
}

// GetTodos lists todo items.
// @Summary List todo items
// @Description List todo items with filtering, sorting and pagination.
// @Tags Todo
// @Produce json
// @Param completed query boolean false "Filter by completion status"
// @Param status query string false "Filter by status" Enums(pending, completed)
// @Param priority query string false "Filter by priority" Enums(High, Medium, Low)
// @Param search query string false "Case-insensitive search in title and description"
// @Param sort query string false "Sort field" Enums(created_at, updated_at, title, priority) default(created_at)
// @Param order query string false "Sort order" Enums(asc, desc) default(desc)
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page, at most 100" default(20)
// @Success 200 {object} response.Data[[]dto.TodoResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos [get]
func (handler *Handler) GetTodos(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodos")
	defer scope.End()

	params, filter, err := listRequest(r)
	if err != nil {
		log.Debug().Err(err).Msg("invalid list parameters")

		response.WithError(w, err)

		return
	}

	todos, err := handler.service.GetAll(ctx, params, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get todos")

		response.WithError(w, err)

		return
	}

	response.WithPagination(w, http.StatusOK, todos.Todos, todos.Pagination)
}

// CreateTodo handles the creation of a new todo item.
// @Summary Create a new todo item
// @Description Create a new todo item with the provided details.
// @Tags Todo
// @Accept json
// @Produce json
// @Param request body dto.CreateTodoRequest true "Create Todo Request"
// @Success 201 {object} response.Data[dto.TodoResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos [post]
func (handler *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTodo")
	defer scope.End()

	req := dto.CreateTodoRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		log.Debug().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	todo, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create todo")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Todo created")

	response.WithJSONMessage(w, http.StatusCreated, todo, "Todo created successfully")
}

// GetStats reports aggregate counters over all todo items.
// @Summary Todo statistics
// @Tags Todo
// @Produce json
// @Success 200 {object} response.Data[dto.StatsResponse]
// @Failure 500 {object} response.Error
// @Router /todos/stats [get]
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStats")
	defer scope.End()

	stats, err := handler.service.Stats(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get todo stats")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, stats)
}

// BulkOperation applies one operation to many todo items at once.
// @Summary Bulk operation on todo items
// @Description Delete, complete or reopen up to 50 todo items in one transaction. Unless
// @Description options.allow_partial is set, a single failure rolls the whole batch back.
// @Tags Todo
// @Accept json
// @Produce json
// @Param request body dto.BulkOperationRequest true "Bulk Operation Request"
// @Success 200 {object} response.Data[dto.BulkOperationResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/bulk [put]
// @Router /todos/bulk [post]
func (handler *Handler) BulkOperation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BulkOperation")
	defer scope.End()

	req := dto.BulkOperationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		log.Debug().Err(err).Msg("failed to validate bulk request")

		response.WithError(w, err)

		return
	}

	scope.SetAttributes(map[string]any{
		"bulk.operation": req.Operation,
		"bulk.todo_ids":  req.TodoIDs,
	})

	res, err := handler.service.Bulk(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to run bulk operation")

		response.WithError(w, err)

		return
	}

	scope.SetAttributes(map[string]any{
		"bulk.processed": res.ProcessedCount,
		"bulk.failed":    res.FailedCount,
	})

	response.WithJSON(w, http.StatusOK, res)
}

// GetTodoByID retrieves a todo item by its ID.
// @Summary Get a todo item by ID
// @Tags Todo
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} response.Data[dto.TodoResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{id} [get]
func (handler *Handler) GetTodoByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodoByID")
	defer scope.End()

	id, err := todoID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	todo, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get todo by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, todo)
}

// UpdateTodo updates an existing todo item by its ID.
// @Summary Update a todo item by ID
// @Description Only the fields present in the body change. An empty description or due_date clears it.
// @Tags Todo
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param request body dto.UpdateTodoRequest true "Update Todo Request"
// @Success 200 {object} response.Data[dto.TodoResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{id} [put]
// @Router /todos/{id} [patch]
func (handler *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTodo")
	defer scope.End()

	id, err := todoID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateTodoRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		log.Debug().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	todo, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update todo")

		response.WithError(w, err)

		return
	}

	response.WithJSONMessage(w, http.StatusOK, todo, "Todo updated successfully")
}

// DeleteTodo deletes a todo item by its ID.
// @Summary Delete a todo item by ID
// @Tags Todo
// @Param id path int true "Todo ID"
// @Success 204
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{id} [delete]
func (handler *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTodo")
	defer scope.End()

	id, err := todoID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete todo")

		response.WithError(w, err)

		return
	}

	response.WithNoContent(w)
}
