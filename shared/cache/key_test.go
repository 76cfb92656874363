package cache_test

import (
	"context"
	"net/url"
	"testing"

	"todoapp/infras/otel/mocks"
	"todoapp/shared/cache"

	"github.com/stretchr/testify/assert"
)

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "todo:detail:42", cache.BuildCacheKey("todo", "detail", int64(42)))
	assert.Equal(t, "limiter:127.0.0.1:curl", cache.BuildCacheKey("limiter", "127.0.0.1", "curl"))
	assert.Equal(t, "todo", cache.BuildCacheKey("todo"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	first := url.Values{"page": {"1"}, "priority": {"High"}}
	second := url.Values{"priority": {"High"}, "page": {"1"}}

	assert.Equal(t, cache.BuildCacheKeyWithQuery("todo:list", first), cache.BuildCacheKeyWithQuery("todo:list", second))
	assert.Equal(t, "todo:list:page=1&priority=High", cache.BuildCacheKeyWithQuery("todo:list", first))
	assert.Equal(t, "todo:list:", cache.BuildCacheKeyWithQuery("todo:list", url.Values{}))
}

func TestPattern(t *testing.T) {
	assert.Equal(t, "todo:list:*", cache.Pattern("todo:list"))
}

func TestDisabledCache(t *testing.T) {
	c := cache.NewRedisCache(nil, mocks.NewOtel())
	ctx := context.Background()

	var value string

	assert.NoError(t, c.Save(ctx, "k", "v", 10))
	assert.ErrorIs(t, c.Get(ctx, "k", &value), cache.Nil)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Clear(ctx, "k*"))
}
