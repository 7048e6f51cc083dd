package domain

import "time"

// LocationQuery is one record of the batch input: a place name scoped to a
// French department, with optional overrides carried through from the input
// file.
type LocationQuery struct {
	Name       string `json:"name"`
	Department string `json:"departement"`
	County     string `json:"county,omitempty"`
	Country    string `json:"country,omitempty"`
	Language   string `json:"language,omitempty"`
	Parameter  string `json:"parameter,omitempty"`
	Force      bool   `json:"force,omitempty"`
}

// ResolvedLocation is the outcome of a successful geocode: WGS-84 coordinates
// plus the provider's human-readable label. It is consumed immediately by
// nearest-station selection and never persisted.
type ResolvedLocation struct {
	Name  string
	Lat   float64
	Lon   float64
	Label string
}

// Valid reports whether the coordinates are inside the WGS-84 domain.
func (l ResolvedLocation) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

// BoundingBox is a geographic search constraint. Nominatim reports boxes as
// [south, north, west, east] strings; this struct holds the same box in the
// west/south/east/north order used by the viewbox search parameter.
type BoundingBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// OutcomeStatus classifies how processing one location record ended.
type OutcomeStatus string

const (
	// OutcomeCompleted means an extract was fetched and persisted.
	OutcomeCompleted OutcomeStatus = "completed"
	// OutcomeNoCoordinates means every geocoding strategy was exhausted.
	OutcomeNoCoordinates OutcomeStatus = "no_coordinates"
	// OutcomeNoStation means the catalog held no eligible station.
	OutcomeNoStation OutcomeStatus = "no_station"
	// OutcomeFailed means a validation, transport, or upstream failure.
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome records the result of processing one location record. Order
// identifiers are deliberately absent: they are request-scoped and must not
// outlive the run.
type Outcome struct {
	Query        LocationQuery `json:"query"`
	Status       OutcomeStatus `json:"status"`
	StationID    string        `json:"station_id,omitempty"`
	StationName  string        `json:"station_name,omitempty"`
	DistanceKm   float64       `json:"distance_km,omitempty"`
	ArtifactPath string        `json:"artifact_path,omitempty"`
	Error        string        `json:"error,omitempty"`
	ProcessedAt  time.Time     `json:"processed_at"`
}
