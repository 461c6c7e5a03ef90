package flights

import "sort"

// Priority scores assigned by the route importance model
const (
	PriorityBusyRoute = 3
	PriorityBothHubs  = 2
	PriorityOneHub    = 1
	PriorityNone      = 0
)

// MaxRankedFlights bounds the ranked result set
const MaxRankedFlights = 50

// RouteImportanceModel scores flights by the traffic significance of their
// route. Built once at startup and never mutated, so it is safe for
// concurrent reads without synchronization.
type RouteImportanceModel struct {
	busyRoutes map[string]struct{}
	majorHubs  map[string]struct{}
}

// NewRouteImportanceModel builds a model from explicit route pairs and hub codes.
// Route pairs are unordered: DEL-BOM and BOM-DEL are the same route.
func NewRouteImportanceModel(busyRoutes [][2]string, majorHubs []string) *RouteImportanceModel {
	m := &RouteImportanceModel{
		busyRoutes: make(map[string]struct{}, len(busyRoutes)),
		majorHubs:  make(map[string]struct{}, len(majorHubs)),
	}
	for _, pair := range busyRoutes {
		m.busyRoutes[routeKey(pair[0], pair[1])] = struct{}{}
	}
	for _, hub := range majorHubs {
		m.majorHubs[hub] = struct{}{}
	}
	return m
}

// DefaultRouteImportanceModel returns the model for Indian domestic traffic
func DefaultRouteImportanceModel() *RouteImportanceModel {
	return NewRouteImportanceModel(
		[][2]string{
			{"DEL", "BOM"},
			{"DEL", "BLR"},
			{"BOM", "BLR"},
			{"DEL", "CCU"},
			{"DEL", "HYD"},
			{"BOM", "GOI"},
			{"MAA", "DEL"},
		},
		[]string{"DEL", "BOM", "BLR", "HYD", "MAA", "CCU", "GOI", "PNQ", "AMD", "COK"},
	)
}

// Score returns the priority score for a route, first match wins:
// busy route 3, both ends major hubs 2, one end a major hub 1, else 0.
func (m *RouteImportanceModel) Score(origin, destination string) int {
	if _, ok := m.busyRoutes[routeKey(origin, destination)]; ok {
		return PriorityBusyRoute
	}
	_, originHub := m.majorHubs[origin]
	_, destHub := m.majorHubs[destination]
	switch {
	case originHub && destHub:
		return PriorityBothHubs
	case originHub || destHub:
		return PriorityOneHub
	}
	return PriorityNone
}

// Rank scores every flight, orders by priority then altitude (both
// descending) and truncates to limit (MaxRankedFlights when limit is not
// positive). The sort is stable, so identical input always yields identical
// output.
func (m *RouteImportanceModel) Rank(in []Flight, limit int) []Flight {
	if limit <= 0 {
		limit = MaxRankedFlights
	}
	ranked := make([]Flight, len(in))
	copy(ranked, in)

	for i := range ranked {
		ranked[i].Priority = m.Score(ranked[i].Origin, ranked[i].Destination)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority > ranked[j].Priority
		}
		// Altitude as a proxy for signal quality
		return ranked[i].Altitude > ranked[j].Altitude
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// routeKey builds an order-independent lookup key for an airport pair
func routeKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
