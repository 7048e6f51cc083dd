package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agriclim/meteo-extract/internal/domain"
)

// OrderClient is the DPClim order protocol: submit a (station, period)
// order, then fetch the produced file.
type OrderClient interface {
	SubmitOrder(ctx context.Context, stationID, startISO, endISO string) (string, error)
	FetchOrderFile(ctx context.Context, orderID string) ([]byte, error)
}

// ArtifactWriter persists one extract payload per location name.
type ArtifactWriter interface {
	Write(name string, data []byte) (string, error)
}

// Order is the request/response value threaded through the acquisition
// steps. The identifier is assigned exactly once, by the provider's submit
// response, and lives only for the duration of the run.
type Order struct {
	StationID string
	StartISO  string
	EndISO    string
	ID        string
}

// NewOrder validates the period and builds an order for one station. Both
// dates must be YYYY-MM-DD with start not after end; validation happens
// here, before any network traffic.
func NewOrder(stationID, startDate, endDate string) (Order, error) {
	startISO, err := domain.MidnightUTC(startDate)
	if err != nil {
		return Order{}, err
	}
	endISO, err := domain.MidnightUTC(endDate)
	if err != nil {
		return Order{}, err
	}
	if startISO > endISO {
		return Order{}, &domain.ValidationError{
			Field:  "period",
			Reason: fmt.Sprintf("start %s is after end %s", startDate, endDate),
		}
	}
	return Order{StationID: stationID, StartISO: startISO, EndISO: endISO}, nil
}

// Acquirer drives the submit → identify → fetch state machine for one order.
// It never retries: transient provider failures surface to the caller, which
// applies the batch failure policy.
type Acquirer struct {
	client    OrderClient
	artifacts ArtifactWriter
	logger    *slog.Logger
}

// NewAcquirer creates an Acquirer.
func NewAcquirer(client OrderClient, artifacts ArtifactWriter, logger *slog.Logger) *Acquirer {
	return &Acquirer{client: client, artifacts: artifacts, logger: logger}
}

// Run executes the order to completion and persists the extract under the
// given location name. It returns the completed order and the artifact path.
// An accepted submission without an order identifier fails before any fetch
// is attempted.
func (a *Acquirer) Run(ctx context.Context, order Order, name string) (Order, string, error) {
	id, err := a.client.SubmitOrder(ctx, order.StationID, order.StartISO, order.EndISO)
	if err != nil {
		return order, "", fmt.Errorf("submit order for station %s: %w", order.StationID, err)
	}
	if id == "" {
		return order, "", fmt.Errorf("station %s: %w", order.StationID, domain.ErrNoOrderID)
	}
	order.ID = id
	a.logger.Info("order identified", "station_id", order.StationID, "order_id", id)

	data, err := a.client.FetchOrderFile(ctx, order.ID)
	if err != nil {
		return order, "", fmt.Errorf("fetch file for order %s: %w", order.ID, err)
	}

	path, err := a.artifacts.Write(name, data)
	if err != nil {
		return order, "", fmt.Errorf("persist extract for %q: %w", name, err)
	}
	a.logger.Info("extract persisted", "location", name, "path", path, "bytes", len(data))
	return order, path, nil
}
