// Package catalog caches DPClim station directories on disk, one JSON array
// file per department.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agriclim/meteo-extract/internal/domain"
	"github.com/agriclim/meteo-extract/internal/observability"
)

// StationLister fetches a department's raw station directory from the
// provider.
type StationLister interface {
	ListStations(ctx context.Context, department, parameter string) ([]byte, error)
}

// Store is the station catalog accessor. A cached file is considered fresh
// unless it is absent, empty, unparsable, or a refresh is forced; only then
// does the provider get called. Single-process use is assumed: there is no
// cross-process locking on the cache directory.
type Store struct {
	dir     string
	lister  StationLister
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewStore creates a catalog store rooted at dir.
func NewStore(dir string, lister StationLister, metrics *observability.Metrics, logger *slog.Logger) *Store {
	return &Store{dir: dir, lister: lister, metrics: metrics, logger: logger}
}

// StationsFor returns the station records for one department, from cache
// when fresh, otherwise refetched and persisted. Provider and decode
// failures come back as a CatalogError, fatal for the current record only.
func (s *Store) StationsFor(ctx context.Context, department, parameter string, force bool) ([]domain.Station, error) {
	if department == "" {
		return nil, &domain.ValidationError{
			Field:  "departement",
			Reason: "every location record needs a department code",
		}
	}

	path := filepath.Join(s.dir, department+".json")

	if !force {
		if stations, ok := s.readCache(path); ok {
			s.metrics.CatalogLookups.WithLabelValues("hit").Inc()
			s.logger.Debug("station catalog cache hit", "department", department, "stations", len(stations))
			return stations, nil
		}
	}

	raw, err := s.lister.ListStations(ctx, department, parameter)
	if err != nil {
		return nil, &domain.CatalogError{Department: department, Err: err}
	}
	stations, err := domain.ParseStations(raw)
	if err != nil {
		return nil, &domain.CatalogError{Department: department, Err: err}
	}

	// Persist the provider payload verbatim; re-encoding could change field
	// order or number formatting and defeat freshness comparison by eye.
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, &domain.CatalogError{Department: department, Err: err}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return nil, &domain.CatalogError{Department: department, Err: fmt.Errorf("write cache: %w", err)}
	}

	s.metrics.CatalogLookups.WithLabelValues("refresh").Inc()
	s.logger.Info("station catalog refreshed", "department", department, "stations", len(stations))
	return stations, nil
}

// readCache loads a cached catalog. Any problem (missing, empty, corrupt)
// reads as "not fresh" rather than an error.
func (s *Store) readCache(path string) ([]domain.Station, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	stations, err := domain.ParseStations(raw)
	if err != nil || len(stations) == 0 {
		return nil, false
	}
	return stations, true
}
