package flights

// Sentinel values used when upstream data is missing
const (
	UnknownCallsign = "Unknown"
	UnknownAirline  = "Unknown Airline"
	NoRoute         = "N/A"
	StatusInAir     = "In Air"
)

// Conversion factors for provider units
const (
	FeetPerMeter    = 3.28084 // OpenSky reports altitude in meters
	KnotsPerMPS     = 1.94384 // OpenSky reports velocity in m/s
	degreesInCircle = 360
)

// BoundingBox is a geographic rectangle used to filter live state queries
type BoundingBox struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// IndiaBoundingBox returns the box covering the Indian subcontinent
func IndiaBoundingBox() BoundingBox {
	return BoundingBox{LatMin: 6, LatMax: 37, LonMin: 68, LonMax: 97}
}

// Contains reports whether the given position falls inside the box
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// RawFlight is a single state vector as reported by an upstream provider,
// before validation. Optional fields are pointers so that "absent" and
// "present but zero" stay distinguishable until normalization.
type RawFlight struct {
	ID          string
	Callsign    *string
	AirlineName *string
	AirlineICAO *string
	Origin      *string
	Destination *string
	Lat         *float64
	Lon         *float64
	Heading     *float64
	AltitudeFt  *float64
	SpeedKts    *float64
}

// Flight is the canonical flight record served to clients
type Flight struct {
	ID           string  `json:"id"`
	FlightNumber string  `json:"flightNumber"`
	Airline      string  `json:"airline"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Heading      int     `json:"heading"`
	Altitude     int     `json:"altitude"`
	Speed        int     `json:"speed"`
	Status       string  `json:"status"`
	Priority     int     `json:"priority"`
}

// FlightsResponse is the payload of the active flights endpoint
type FlightsResponse struct {
	Flights []Flight `json:"flights"`
}
