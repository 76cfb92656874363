package router

import (
	"net/http"

	"todoapp/config"
	"todoapp/internal/handlers/health"
	"todoapp/internal/handlers/todo"
	"todoapp/shared/constant"
	"todoapp/shared/failure"
	"todoapp/transport/http/middleware"
	"todoapp/transport/http/response"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Health health.Handler
	Todo   todo.Handler
}

type Router struct {
	Config         *config.Config
	Middleware     middleware.AppMiddleware
	DomainHandlers DomainHandlers
}

func (r *Router) corsHandler() func(http.Handler) http.Handler {
	opts := r.Config.App.CORS

	return cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   opts.AllowedMethods,
		AllowedHeaders:   opts.AllowedHeaders,
		ExposedHeaders:   []string{constant.RequestHeaderRequestID, constant.RequestHeaderRateLimit, constant.RequestHeaderRateLimitRemaining},
		AllowCredentials: opts.AllowCredentials,
		MaxAge:           opts.MaxAgeSeconds,
	})
}

// SetupRoutes installs the middleware chain and every route on router.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(chiMiddleware.RequestID)
	router.Use(r.Middleware.AccessLog)
	router.Use(r.Middleware.Recover)
	router.Use(r.Middleware.SecurityHeaders)
	router.Use(r.Middleware.Tracing)

	if r.Config.App.CORS.Enable {
		router.Use(r.corsHandler())
	}

	router.Use(r.Middleware.RateLimit())

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.WithError(w, failure.NotFound(constant.ResponseErrorRouteNotFound))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.WithError(w, failure.MethodNotAllowed(constant.ResponseErrorMethodNotAllowed))
	})

	if r.Config.App.EnableSwagger {
		router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	r.DomainHandlers.Health.Router(router)
	r.DomainHandlers.Todo.Router(router)
}

func New(cfg *config.Config, middleware middleware.AppMiddleware, domainHandlers DomainHandlers) Router {
	return Router{
		Config:         cfg,
		Middleware:     middleware,
		DomainHandlers: domainHandlers,
	}
}
