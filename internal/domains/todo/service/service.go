package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"todoapp/config"
	"todoapp/infras/kafka"
	"todoapp/infras/otel"
	"todoapp/internal/domains/todo/model"
	"todoapp/internal/domains/todo/model/dto"
	"todoapp/internal/domains/todo/repository"
	"todoapp/shared/cache"
	"todoapp/shared/constant"
	gDto "todoapp/shared/dto"
	"todoapp/shared/failure"
	"todoapp/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetTodo    = "todo:detail"
	cacheGetAllTodo = "todo:list"
	cacheStatsTodo  = "todo:stats"
)

var errBulkRolledBack = errors.New("bulk operation rolled back")

type Todo interface {
	Create(ctx context.Context, req dto.CreateTodoRequest) (dto.TodoResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter model.Filter) (dto.GetTodosResponse, error)
	Get(ctx context.Context, id int64) (dto.TodoResponse, error)
	Update(ctx context.Context, req dto.UpdateTodoRequest, id int64) (dto.TodoResponse, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (dto.StatsResponse, error)
	Bulk(ctx context.Context, req dto.BulkOperationRequest) (dto.BulkOperationResponse, error)
	Ping(ctx context.Context) error
}

type serviceImpl struct {
	repo      repository.Todo
	cfg       *config.Config
	cache     cache.RedisCache
	publisher kafka.Client
	otel      otel.Otel
}

func New(repo repository.Todo, cfg *config.Config, cache cache.RedisCache, publisher kafka.Client, otel otel.Otel) Todo {
	return &serviceImpl{
		repo:      repo,
		cfg:       cfg,
		cache:     cache,
		publisher: publisher,
		otel:      otel,
	}
}

func notFound(id int64) error {
	return failure.NotFound(fmt.Sprintf("Todo with id %d not found", id)) // nolint:wrapcheck
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	if err := s.cache.Save(ctx, key, value, s.cfg.Cache.TTL); err != nil {
		log.Warn().Err(err).Str("cacheKey", key).Msg("failed to save todo cache")
	}
}

// invalidate drops the cached views a write can change. Cache failures never fail the write.
func (s *serviceImpl) invalidate(ctx context.Context, ids ...int64) {
	for _, id := range ids {
		if err := s.cache.Delete(ctx, cache.BuildCacheKey(cacheGetTodo, id)); err != nil {
			log.Warn().Err(err).Int64("id", id).Msg("failed to invalidate todo cache")
		}
	}

	for _, prefix := range []string{cacheGetAllTodo, cacheStatsTodo} {
		if err := s.cache.Clear(ctx, cache.Pattern(prefix)); err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("failed to invalidate todo caches")
		}
	}
}

func listCacheKey(req gDto.QueryParams, filter model.Filter) string {
	query := filter.Values()
	query.Set(constant.RequestParamPage, strconv.Itoa(req.Page))
	query.Set(constant.RequestParamPerPage, strconv.Itoa(req.Limit))
	query.Set(constant.RequestParamSort, req.SortBy)
	query.Set(constant.RequestParamOrder, req.SortDir)

	return cache.BuildCacheKeyWithQuery(cacheGetAllTodo, query)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	todo, err := s.repo.Insert(ctx, req.ToModel(timezone.Now()))
	if err != nil {
		log.Error().Err(err).Msg("failed to create todo")

		return res, fmt.Errorf("failed to create todo: %w", err)
	}

	s.invalidate(ctx)

	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter model.Filter) (res dto.GetTodosResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := listCacheKey(req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for todos")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count todos")

		return res, fmt.Errorf("failed to count todos: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get todos")

		return res, fmt.Errorf("failed to get todos: %w", err)
	}

	res.FromModels(models, req, total)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := cache.BuildCacheKey(cacheGetTodo, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for todo")

		return res, nil
	}

	todo, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get todo")

		return res, fmt.Errorf("failed to get todo: %w", err)
	}

	if todo.ID == 0 {
		return res, notFound(id)
	}

	res.FromModel(todo)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTodoRequest, id int64) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.EmptyUpdate
	}

	todo, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get todo")

		return res, fmt.Errorf("failed to get todo: %w", err)
	}

	if todo.ID == 0 {
		return res, notFound(id)
	}

	req.Apply(&todo, timezone.Now())

	updated, err := s.repo.Update(ctx, todo)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to update todo")

		return res, fmt.Errorf("failed to update todo: %w", err)
	}

	if !updated {
		return res, notFound(id)
	}

	s.invalidate(ctx, id)

	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete todo")

		return fmt.Errorf("failed to delete todo: %w", err)
	}

	if !deleted {
		return notFound(id)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Stats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	today := timezone.DateOf(timezone.Now())
	// overdue counts depend on the day, so the day is part of the key
	cacheKey := cache.BuildCacheKey(cacheStatsTodo, today.Format(constant.DateOnlyFormat))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	stats, err := s.repo.Stats(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("failed to compute todo stats")

		return res, fmt.Errorf("failed to compute todo stats: %w", err)
	}

	res.FromModel(stats)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Ping(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Ping")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.repo.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("todo store is unreachable")

		return fmt.Errorf("todo store is unreachable: %w", err)
	}

	return nil
}
