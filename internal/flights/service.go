package flights

import (
	"context"

	"github.com/trippilot/backend/pkg/logger"
)

// Service orchestrates the flight feed pipeline: fetch raw states from the
// configured provider, normalize, rank, and fall back to the simulator on
// any failure or emptiness. It never returns an error; the HTTP boundary
// always answers with a flight list.
type Service struct {
	provider   Provider
	model      *RouteImportanceModel
	simulator  *Simulator
	box        BoundingBox
	maxFlights int
	simCount   int
	logger     *logger.Logger
}

// NewService creates a new flight feed service
func NewService(provider Provider, model *RouteImportanceModel, simulator *Simulator, box BoundingBox, maxFlights, simCount int, log *logger.Logger) *Service {
	return &Service{
		provider:   provider,
		model:      model,
		simulator:  simulator,
		box:        box,
		maxFlights: maxFlights,
		simCount:   simCount,
		logger:     log.Named("flights-svc"),
	}
}

// GetActiveFlights returns the current ordered flight list. Upstream
// failures and empty results degrade to simulated data, never to an error.
func (s *Service) GetActiveFlights(ctx context.Context) []Flight {
	raw, err := s.provider.FetchStates(ctx, s.box)
	if err != nil {
		s.logger.Warn("Upstream fetch failed, falling back to simulation",
			logger.String("provider", s.provider.Name()),
			logger.Error(err))
		return s.simulator.GenerateFallback(s.simCount)
	}

	requireRoute := s.provider.HasRouteData()
	normalized := make([]Flight, 0, len(raw))
	for _, r := range raw {
		if f, ok := normalizeFlight(r, requireRoute); ok {
			normalized = append(normalized, f)
		}
	}

	if len(normalized) == 0 {
		s.logger.Warn("No usable flights after normalization, falling back to simulation",
			logger.String("provider", s.provider.Name()),
			logger.Int("raw_count", len(raw)))
		return s.simulator.GenerateFallback(s.simCount)
	}

	s.logger.Debug("Normalized upstream flights",
		logger.Int("raw_count", len(raw)),
		logger.Int("normalized_count", len(normalized)))

	if requireRoute {
		return s.model.Rank(normalized, s.maxFlights)
	}
	return normalized
}
