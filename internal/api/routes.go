package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/trippilot/backend/internal/config"
	"github.com/trippilot/backend/internal/copilot"
	"github.com/trippilot/backend/internal/flights"
	"github.com/trippilot/backend/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(flightsService *flights.Service, copilotService *copilot.Service, config *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(flightsService, copilotService, logger),
		middleware: NewMiddleware(logger),
		config:     config,
		logger:     logger.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	// API routes
	router.Route("/api", func(router chi.Router) {
		// Flight feed routes
		router.Get("/flights/active", r.handler.GetActiveFlights)
		router.Post("/track-flight", r.handler.TrackFlight)

		// Copilot route
		router.Post("/chat", r.handler.Chat)

		// Health check
		router.Get("/health", r.handler.GetHealth)
	})

	return router
}
