package api

import (
	"net/http"

	"tour-route-service/internal/api/handlers"
	"tour-route-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(planner *services.Planner) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Planner: planner}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/calculate-route", routeHandler.Calculate)

	return loggingMiddleware(mux)
}
