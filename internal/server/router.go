package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"scicalc/internal/calculator"
	"scicalc/internal/handlers"
	"scicalc/internal/observability"
	"scicalc/internal/web"
)

func NewRouter(sessions *calculator.Sessions) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	web.RegisterRoutes(r)
	calculator.RegisterRoutes(r, sessions)

	return r
}
