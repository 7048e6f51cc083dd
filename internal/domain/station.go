package domain

import (
	"encoding/json"
	"fmt"
)

// Station is one DPClim station record. JSON tags follow the provider's
// field names. Coordinates are pointers so that absent values can be told
// apart from a real 0.
type Station struct {
	ID     string   `json:"id"`
	Name   string   `json:"nom"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Alt    float64  `json:"alt"`
	Open   bool     `json:"posteOuvert"`
	Public bool     `json:"postePublic"`
	Type   int      `json:"typePoste"`
}

// Eligible reports whether the station may be selected: it must be open and
// both coordinates must be present.
func (s Station) Eligible() bool {
	return s.Open && s.Lat != nil && s.Lon != nil
}

// ParseStations decodes a raw catalog payload into station records.
// The payload must be a JSON array; anything else is a decode failure.
func ParseStations(raw []byte) ([]Station, error) {
	var stations []Station
	if err := json.Unmarshal(raw, &stations); err != nil {
		return nil, &DecodeError{Op: "parse station catalog", Err: err}
	}
	return stations, nil
}

// NearestStation returns the eligible station closest to loc, with its
// great-circle distance in kilometers. Ineligible records are skipped
// silently. Ties go to the first minimum encountered, so the result is
// deterministic in catalog order.
func NearestStation(loc ResolvedLocation, stations []Station) (Station, float64, error) {
	var (
		nearest Station
		best    float64
		found   bool
	)
	for _, st := range stations {
		if !st.Eligible() {
			continue
		}
		d := Haversine(loc.Lat, loc.Lon, *st.Lat, *st.Lon)
		if !found || d < best {
			nearest = st
			best = d
			found = true
		}
	}
	if !found {
		return Station{}, 0, fmt.Errorf("department catalog: %w", ErrNoStation)
	}
	return nearest, best, nil
}
