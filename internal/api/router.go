package api

import (
	"delivery-area-service/internal/api/handlers"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/metrics"
	"delivery-area-service/internal/ports"
	"net/http"
)

// Deps are the adapters the HTTP layer is wired with. Geocoder and
// TravelTimes may be nil.
type Deps struct {
	Repo          ports.RecipientRepository
	Geocoder      ports.Geocoder
	TravelTimes   ports.TravelTimeProvider
	Defaults      domain.PlanConfig
	DefaultOrigin string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	metrics.Register()

	mux := http.NewServeMux()

	recipientHandler := &handlers.RecipientHandler{Repo: deps.Repo}
	planHandler := &handlers.PlanHandler{
		Repo:          deps.Repo,
		Geocoder:      deps.Geocoder,
		TravelTimes:   deps.TravelTimes,
		Defaults:      deps.Defaults,
		DefaultOrigin: deps.DefaultOrigin,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/recipients", recipientHandler.Recipients)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.Handle("/metrics", metrics.Handler())

	return loggingMiddleware(mux)
}
