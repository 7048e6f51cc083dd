package domain

import "context"

// GeocodeOptions constrain a single geocoding request.
type GeocodeOptions struct {
	// CountryCodes restricts results to a comma-separated country list,
	// e.g. "fr".
	CountryCodes string
	// Language selects the result language, e.g. "fr".
	Language string
	// Bounds, when set, restricts the search to the box ("must be inside",
	// not merely biased toward it).
	Bounds *BoundingBox
}

// GeocodeResult is one provider hit.
type GeocodeResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
	// BoundingBox is set when the hit is an administrative area.
	BoundingBox *BoundingBox
}

// Geocoder resolves a free-text query to coordinates. Implementations return
// ErrNoResult when the provider finds nothing.
type Geocoder interface {
	Search(ctx context.Context, query string, opts GeocodeOptions) (GeocodeResult, error)
}
