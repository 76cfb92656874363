package otel_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"todoapp/config"
	"todoapp/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level int

func (l level) String() string {
	return "level-" + strconv.Itoa(int(l))
}

func TestNew_WithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "todoapp-test"

	tracer := otel.New(cfg)
	require.NotNil(t, tracer)

	ctx, scope := tracer.NewScope(context.Background(), "test", "test.span")
	assert.NotNil(t, ctx)

	scope.SetAttributes(map[string]any{
		"bool":   true,
		"string": "value",
		"int":    1,
		"int64":  int64(2),
		"slice":  []string{"a", "b"},
		"ids":    []int64{1, 2},
		"rate":   66.7,
		"at":     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		"level":  level(2),
		"other":  struct{ n int }{1},
	})
	scope.AddEvent("something happened")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("boom"))
	scope.End()

	assert.NoError(t, tracer.Shutdown(context.Background()))
}
