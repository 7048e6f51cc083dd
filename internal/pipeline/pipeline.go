// Package pipeline sequences the per-location workflow: catalog refresh,
// geocoding, nearest-station selection, and extract acquisition.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agriclim/meteo-extract/internal/domain"
	"github.com/agriclim/meteo-extract/internal/observability"
)

// FailurePolicy decides what a hard failure on one record does to the rest
// of the batch. Absent-result outcomes (no coordinates, no station) always
// let the batch continue regardless of policy.
type FailurePolicy string

const (
	// AbortOnFailure stops the batch at the first hard failure.
	AbortOnFailure FailurePolicy = "abort"
	// SkipFailedRecords records the failure and moves on.
	SkipFailedRecords FailurePolicy = "skip"
)

// CatalogAccessor yields the station records for one department.
type CatalogAccessor interface {
	StationsFor(ctx context.Context, department, parameter string, force bool) ([]domain.Station, error)
}

// LocationResolver turns a location query into coordinates.
type LocationResolver interface {
	Resolve(ctx context.Context, q domain.LocationQuery) (domain.ResolvedLocation, error)
}

// OutcomePublisher emits one event per processed record. Publishing is
// best-effort; a publish failure never fails the record.
type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, outcome domain.Outcome) error
}

// Pipeline processes location records sequentially: one record is fully
// resolved and acquired before the next begins.
type Pipeline struct {
	catalog   CatalogAccessor
	resolver  LocationResolver
	acquirer  *Acquirer
	publisher OutcomePublisher // nil disables publishing
	policy    FailurePolicy
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool

	mu         sync.Mutex
	lastStatus Status
}

// Status is a snapshot of the most recent finished batch.
type Status struct {
	Total      int       `json:"total"`
	Completed  int       `json:"completed"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	FinishedAt time.Time `json:"finished_at"`
}

// New creates a Pipeline. publisher may be nil.
func New(catalog CatalogAccessor, resolver LocationResolver, acquirer *Acquirer, publisher OutcomePublisher, policy FailurePolicy, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		catalog:   catalog,
		resolver:  resolver,
		acquirer:  acquirer,
		publisher: publisher,
		policy:    policy,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one record has been fully
// processed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no location record processed yet")
	}
	return nil
}

// Run processes the batch in input order for the given period. The period
// dates are validated up front, before any record is touched. The returned
// outcomes cover every record processed, including the failing one when the
// abort policy stops the batch early.
func (p *Pipeline) Run(ctx context.Context, queries []domain.LocationQuery, startDate, endDate string, force bool) ([]domain.Outcome, error) {
	if _, err := NewOrder("", startDate, endDate); err != nil {
		return nil, err
	}

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)
	p.logger.Info("batch started", "locations", len(queries), "period_start", startDate, "period_end", endDate, "policy", string(p.policy))

	outcomes := make([]domain.Outcome, 0, len(queries))
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome, err := p.processRecord(ctx, q, startDate, endDate, force)
		outcomes = append(outcomes, outcome)
		p.publish(ctx, outcome)

		switch outcome.Status {
		case domain.OutcomeCompleted:
			p.metrics.LocationsProcessed.Inc()
			p.ready.Store(true)
		case domain.OutcomeNoCoordinates, domain.OutcomeNoStation:
			p.metrics.LocationsSkipped.Inc()
			p.logger.Warn("location skipped", "location", q.Name, "status", string(outcome.Status))
		case domain.OutcomeFailed:
			p.metrics.LocationsFailed.Inc()
			p.logger.Error("location failed", "location", q.Name, "error", outcome.Error)
			if p.policy == AbortOnFailure {
				p.finish(outcomes)
				return outcomes, fmt.Errorf("processing %q: %w", q.Name, err)
			}
		}
	}

	p.finish(outcomes)
	return outcomes, nil
}

// Status returns counters from the most recent batch run. Before the first
// batch finishes it returns the zero value.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastStatus
}

// processRecord runs the full workflow for one location. The returned error
// is non-nil only for hard failures, mirrored in the outcome's Error field.
func (p *Pipeline) processRecord(ctx context.Context, q domain.LocationQuery, startDate, endDate string, force bool) (domain.Outcome, error) {
	start := time.Now()
	defer func() {
		p.metrics.RecordDuration.Observe(time.Since(start).Seconds())
	}()

	outcome := domain.Outcome{Query: q, ProcessedAt: time.Now().UTC()}

	fail := func(err error) (domain.Outcome, error) {
		outcome.Status = domain.OutcomeFailed
		outcome.Error = err.Error()
		return outcome, err
	}

	stations, err := p.catalog.StationsFor(ctx, q.Department, q.Parameter, force || q.Force)
	if err != nil {
		return fail(err)
	}

	loc, err := p.resolver.Resolve(ctx, q)
	if err != nil {
		if errors.Is(err, domain.ErrNoResult) {
			outcome.Status = domain.OutcomeNoCoordinates
			return outcome, nil
		}
		return fail(err)
	}
	p.logger.Info("location resolved", "location", q.Name, "lat", loc.Lat, "lon", loc.Lon, "label", loc.Label)

	station, distance, err := domain.NearestStation(loc, stations)
	if err != nil {
		if errors.Is(err, domain.ErrNoStation) {
			outcome.Status = domain.OutcomeNoStation
			return outcome, nil
		}
		return fail(err)
	}
	outcome.StationID = station.ID
	outcome.StationName = station.Name
	outcome.DistanceKm = distance
	p.logger.Info("nearest station selected", "location", q.Name, "station_id", station.ID, "station", station.Name, "distance_km", distance)

	order, err := NewOrder(station.ID, startDate, endDate)
	if err != nil {
		return fail(err)
	}

	p.metrics.OrdersSubmitted.Inc()
	_, path, err := p.acquirer.Run(ctx, order, q.Name)
	if err != nil {
		return fail(err)
	}
	p.metrics.ExtractsFetched.Inc()

	outcome.Status = domain.OutcomeCompleted
	outcome.ArtifactPath = path
	return outcome, nil
}

func (p *Pipeline) publish(ctx context.Context, outcome domain.Outcome) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishOutcome(ctx, outcome); err != nil {
		p.logger.Warn("outcome publish failed", "location", outcome.Query.Name, "error", err)
	}
}

func (p *Pipeline) finish(outcomes []domain.Outcome) {
	status := Status{Total: len(outcomes), FinishedAt: time.Now().UTC()}
	for _, o := range outcomes {
		switch o.Status {
		case domain.OutcomeCompleted:
			status.Completed++
		case domain.OutcomeFailed:
			status.Failed++
		default:
			status.Skipped++
		}
	}

	p.mu.Lock()
	p.lastStatus = status
	p.mu.Unlock()

	p.logger.Info("batch finished", "completed", status.Completed, "skipped", status.Skipped, "failed", status.Failed)
}
