package health

import (
	"context"
	"net/http"
	"time"

	"todoapp/config"
	"todoapp/infras/otel"
	"todoapp/internal/domains/todo/service"
	"todoapp/shared/constant"
	"todoapp/shared/timezone"
	"todoapp/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	pingTimeout = 2 * time.Second
)

type Status struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type Handler struct {
	service service.Todo
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Todo, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Check)
}

// Check reports whether the service and its store are reachable.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[Status]
// @Failure 503 {object} response.Error
// @Router /health [get]
func (handler *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".HealthCheck")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := Status{
		Status:    StatusHealthy,
		Database:  StatusHealthy,
		Version:   handler.cfg.App.Version,
		Timestamp: timezone.Now().Format(constant.DateFormat),
	}

	if err := handler.service.Ping(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("store health check failed")

		response.WithUnhealthy(w, map[string]string{
			"database":  StatusUnhealthy,
			"version":   status.Version,
			"timestamp": status.Timestamp,
		})

		return
	}

	response.WithJSON(w, http.StatusOK, status)
}
