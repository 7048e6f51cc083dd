package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// attemptOutcome tags the result of one geocoding attempt. Provider failures
// and empty results both let the chain advance; only a usable hit stops it.
type attemptOutcome int

const (
	attemptHit attemptOutcome = iota
	attemptMiss
	attemptFailed
)

// Resolver turns a LocationQuery into coordinates using an ordered chain of
// strategies, first success wins:
//
//  1. direct query formulations combining the place name with the county
//     phrase (when present) and the department code, loosest last
//  2. geocoding the department itself to obtain its bounding box
//  3. retrying the bare place name bounded to that box
//
// The chain is deterministic fallback, not a scored ranking: the first
// strategy that yields a result is final.
type Resolver struct {
	geocoder Geocoder
	logger   *slog.Logger
}

// NewResolver creates a Resolver backed by the given geocoding provider.
func NewResolver(geocoder Geocoder, logger *slog.Logger) *Resolver {
	return &Resolver{geocoder: geocoder, logger: logger}
}

// Resolve resolves q to coordinates, or ErrNoResult when every strategy is
// exhausted. Individual provider errors are logged and swallowed; the chain
// advances to the next formulation.
func (r *Resolver) Resolve(ctx context.Context, q LocationQuery) (ResolvedLocation, error) {
	opts := GeocodeOptions{CountryCodes: countryCode(q.Country), Language: q.Language}

	for _, query := range directQueries(q) {
		loc, outcome := r.attempt(ctx, q.Name, query, opts)
		if outcome == attemptHit {
			return loc, nil
		}
	}

	bounds := r.departmentBounds(ctx, q, opts)
	if bounds == nil {
		return ResolvedLocation{}, fmt.Errorf("resolve %q: %w", q.Name, ErrNoResult)
	}

	boundedOpts := opts
	boundedOpts.Bounds = bounds
	loc, outcome := r.attempt(ctx, q.Name, q.Name, boundedOpts)
	if outcome == attemptHit {
		return loc, nil
	}
	return ResolvedLocation{}, fmt.Errorf("resolve %q: %w", q.Name, ErrNoResult)
}

// attempt issues one geocoding request and tags its outcome.
func (r *Resolver) attempt(ctx context.Context, name, query string, opts GeocodeOptions) (ResolvedLocation, attemptOutcome) {
	result, err := r.geocoder.Search(ctx, query, opts)
	if err != nil {
		if errors.Is(err, ErrNoResult) {
			return ResolvedLocation{}, attemptMiss
		}
		r.logger.Warn("geocode attempt failed", "query", query, "error", err)
		return ResolvedLocation{}, attemptFailed
	}

	loc := ResolvedLocation{
		Name:  name,
		Lat:   result.Lat,
		Lon:   result.Lon,
		Label: result.DisplayName,
	}
	if !loc.Valid() {
		r.logger.Warn("geocode result outside coordinate domain",
			"query", query, "lat", loc.Lat, "lon", loc.Lon)
		return ResolvedLocation{}, attemptMiss
	}
	return loc, attemptHit
}

// departmentBounds geocodes the department itself and returns its bounding
// box, or nil when no formulation produces one.
func (r *Resolver) departmentBounds(ctx context.Context, q LocationQuery, opts GeocodeOptions) *BoundingBox {
	for _, query := range departmentQueries(q) {
		result, err := r.geocoder.Search(ctx, query, opts)
		if err != nil {
			if !errors.Is(err, ErrNoResult) {
				r.logger.Warn("department geocode failed", "query", query, "error", err)
			}
			continue
		}
		if result.BoundingBox != nil {
			return result.BoundingBox
		}
	}
	return nil
}

// directQueries builds the ordered direct formulations. County phrasings
// come first when the record carries one, then department-code phrasings in
// increasingly loose form.
func directQueries(q LocationQuery) []string {
	var queries []string
	if q.County != "" {
		queries = append(queries,
			fmt.Sprintf("%s, %s, %s", q.Name, q.County, q.Country),
			fmt.Sprintf("%s, %s", q.Name, q.County),
		)
	}
	return append(queries,
		fmt.Sprintf("%s, Département %s, %s", q.Name, q.Department, q.Country),
		fmt.Sprintf("%s, Dept %s, %s", q.Name, q.Department, q.Country),
		fmt.Sprintf("%s, Department %s, %s", q.Name, q.Department, q.Country),
		fmt.Sprintf("%s, %s, %s", q.Name, q.Department, q.Country),
	)
}

// departmentQueries builds the formulations used to geocode the department
// itself by code.
func departmentQueries(q LocationQuery) []string {
	return []string{
		fmt.Sprintf("Département %s, %s", q.Department, q.Country),
		fmt.Sprintf("Department %s, %s", q.Department, q.Country),
		fmt.Sprintf("Dept %s, %s", q.Department, q.Country),
		fmt.Sprintf("%s %s département", q.Department, q.Country),
		fmt.Sprintf("%s, %s département", q.Department, q.Country),
	}
}

// countryCode maps a country name to the Nominatim countrycodes filter.
// Only France and its territories are supported upstream.
func countryCode(country string) string {
	switch country {
	case "", "France", "france":
		return "fr"
	default:
		return ""
	}
}
