package flights

import (
	"fmt"
	"math/rand"

	"github.com/trippilot/backend/pkg/logger"
)

// simRoute is a realistic route/callsign/airline tuple for fallback data
type simRoute struct {
	origin   string
	dest     string
	callsign string
	airline  string
}

// Backup routes matching the busy-route model, so simulated traffic ranks
// the same way live traffic does.
var simRoutes = []simRoute{
	{"DEL", "BOM", "IGO202", "IndiGo"},
	{"BOM", "BLR", "AIC405", "Air India"},
	{"CCU", "DEL", "VTI707", "Vistara"},
	{"BLR", "GOI", "IGO55", "IndiGo"},
	{"HYD", "MAA", "SEJ332", "SpiceJet"},
}

// Center of the simulated position cluster (roughly the centroid of India)
const (
	simCenterLat  = 20.59
	simCenterLon  = 78.96
	simJitterDeg  = 8.0
	simMinAltFt   = 15000
	simMaxAltFt   = 38000
	simMinSpeedKt = 250
	simMaxSpeedKt = 480
)

// Simulator generates plausible synthetic flights when live data is
// unavailable. It never fails and performs no I/O.
type Simulator struct {
	model  *RouteImportanceModel
	logger *logger.Logger
}

// NewSimulator creates a new fallback simulator
func NewSimulator(model *RouteImportanceModel, logger *logger.Logger) *Simulator {
	return &Simulator{
		model:  model,
		logger: logger.Named("flight-sim"),
	}
}

// DefaultSimulatedFlights is the fallback batch size
const DefaultSimulatedFlights = 25

// GenerateFallback returns a fresh batch of synthetic flights. Each call is
// randomized; batches are never cached or reused.
func (s *Simulator) GenerateFallback(count int) []Flight {
	if count <= 0 {
		count = DefaultSimulatedFlights
	}
	s.logger.Warn("Using simulated flight data", logger.Int("count", count))

	flights := make([]Flight, 0, count)
	for i := 0; i < count; i++ {
		route := simRoutes[rand.Intn(len(simRoutes))]
		f := Flight{
			ID:           fmt.Sprintf("sim_%d", i),
			FlightNumber: route.callsign,
			Airline:      route.airline,
			Origin:       route.origin,
			Destination:  route.dest,
			Lat:          simCenterLat + jitter(simJitterDeg),
			Lon:          simCenterLon + jitter(simJitterDeg),
			Heading:      rand.Intn(degreesInCircle),
			Altitude:     simMinAltFt + rand.Intn(simMaxAltFt-simMinAltFt+1),
			Speed:        simMinSpeedKt + rand.Intn(simMaxSpeedKt-simMinSpeedKt+1),
			Status:       StatusInAir,
		}
		f.Priority = s.model.Score(f.Origin, f.Destination)
		flights = append(flights, f)
	}
	return flights
}

// jitter returns a uniform offset in [-spread, spread]
func jitter(spread float64) float64 {
	return (rand.Float64()*2 - 1) * spread
}
