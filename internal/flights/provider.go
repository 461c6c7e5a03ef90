package flights

import "context"

// Provider fetches raw state vectors from an upstream flight-data source.
// Implementations return an error for any upstream problem (network failure,
// timeout, rate limit, auth expiry); callers are not expected to distinguish
// between those cases.
type Provider interface {
	// Name identifies the provider in logs
	Name() string

	// FetchStates returns the raw state vectors currently inside the box
	FetchStates(ctx context.Context, box BoundingBox) ([]RawFlight, error)

	// HasRouteData reports whether this provider resolves origin/destination
	// airports. Providers without route data skip the route filter and the
	// ranking stage.
	HasRouteData() bool
}
