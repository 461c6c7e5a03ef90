package flights

import "strings"

// normalizeFlight converts a raw provider record into a canonical Flight.
// Returns false when the record must be discarded: missing route when
// requireRoute is set, or missing position otherwise. Optional numeric
// fields normalize to 0, never to nil.
func normalizeFlight(raw RawFlight, requireRoute bool) (Flight, bool) {
	origin := strOrDefault(raw.Origin, NoRoute)
	dest := strOrDefault(raw.Destination, NoRoute)

	if requireRoute {
		if origin == NoRoute || dest == NoRoute {
			return Flight{}, false
		}
	} else {
		if raw.Lat == nil || raw.Lon == nil {
			return Flight{}, false
		}
	}

	callsign := strings.TrimSpace(strOrDefault(raw.Callsign, ""))
	if callsign == "" {
		callsign = UnknownCallsign
	}

	// Airline name probes: short name first, then ICAO code
	airline := UnknownAirline
	if raw.AirlineName != nil && strings.TrimSpace(*raw.AirlineName) != "" {
		airline = strings.TrimSpace(*raw.AirlineName)
	} else if raw.AirlineICAO != nil && strings.TrimSpace(*raw.AirlineICAO) != "" {
		airline = strings.TrimSpace(*raw.AirlineICAO)
	}

	heading := int(floatOrZero(raw.Heading))
	if heading < 0 {
		heading += degreesInCircle
	}
	heading %= degreesInCircle

	return Flight{
		ID:           raw.ID,
		FlightNumber: callsign,
		Airline:      airline,
		Origin:       origin,
		Destination:  dest,
		Lat:          floatOrZero(raw.Lat),
		Lon:          floatOrZero(raw.Lon),
		Heading:      heading,
		Altitude:     int(floatOrZero(raw.AltitudeFt)),
		Speed:        int(floatOrZero(raw.SpeedKts)),
		Status:       StatusInAir,
	}, true
}

func strOrDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
