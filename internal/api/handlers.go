package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/trippilot/backend/internal/copilot"
	"github.com/trippilot/backend/internal/flights"
	"github.com/trippilot/backend/pkg/logger"
)

// Handler contains the HTTP request handlers
type Handler struct {
	flightsService *flights.Service
	copilotService *copilot.Service
	logger         *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(flightsService *flights.Service, copilotService *copilot.Service, logger *logger.Logger) *Handler {
	return &Handler{
		flightsService: flightsService,
		copilotService: copilotService,
		logger:         logger.Named("api-handler"),
	}
}

// trackFlightRequest is the body of the track-flight endpoint
type trackFlightRequest struct {
	ICAO24 string `json:"icao24"`
}

// chatRequest is the body of the chat endpoint
type chatRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

// chatResponse is the reply of the chat endpoint
type chatResponse struct {
	Response string `json:"response"`
}

// errorResponse is the shape of request-validation failures
type errorResponse struct {
	Error string `json:"error"`
}

// GetActiveFlights returns the current flight feed. Always 200: upstream
// failures are absorbed into simulated data by the flights service.
func (h *Handler) GetActiveFlights(w http.ResponseWriter, r *http.Request) {
	list := h.flightsService.GetActiveFlights(r.Context())
	h.respondJSON(w, http.StatusOK, flights.FlightsResponse{Flights: list})
}

// TrackFlight returns a static placeholder for a single tracked flight.
// Stub collaborator interface for a future per-flight lookup.
func (h *Handler) TrackFlight(w http.ResponseWriter, r *http.Request) {
	var req trackFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ICAO24) == "" {
		h.respondError(w, http.StatusBadRequest, "icao24 is required")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"flight_info": map[string]interface{}{
			"live":     true,
			"altitude": 32000,
			"velocity": 450,
		},
		"ai_analysis": "**Analysis:** Flight is on standard approach path.",
	})
}

// Chat answers a passenger question about the selected flight. LLM failures
// degrade to fixed messages inside the copilot service, so this endpoint
// only ever fails on malformed input.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply := h.copilotService.Answer(r.Context(), req.Message, req.Context)
	h.respondJSON(w, http.StatusOK, chatResponse{Response: reply})
}

// GetHealth returns the service health status
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"copilot_online": h.copilotService.Online(),
	})
}

// respondJSON writes a JSON response with the given status code
func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

// respondError writes a JSON error response
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, errorResponse{Error: message})
}
