// Package nominatim implements domain.Geocoder against the OpenStreetMap
// Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/agriclim/meteo-extract/internal/config"
	"github.com/agriclim/meteo-extract/internal/domain"
	"github.com/agriclim/meteo-extract/internal/observability"
)

// Client is a rate-limited Nominatim search client. A minimum delay is
// enforced between consecutive outbound requests regardless of which caller
// or strategy issues them, per the provider's usage policy.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	minDelay   time.Duration
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger

	mu   sync.Mutex
	last time.Time
}

// NewClient creates a Nominatim client from the service configuration.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.NominatimURL,
		userAgent:  cfg.NominatimUserAgent,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		minDelay:   cfg.GeocodeMinDelay,
		clock:      clockwork.NewRealClock(),
		metrics:    metrics,
		logger:     logger,
	}
}

// Search issues one geocoding request. It returns domain.ErrNoResult when
// the provider finds nothing for the query.
func (c *Client) Search(ctx context.Context, query string, opts domain.GeocodeOptions) (domain.GeocodeResult, error) {
	if err := c.waitTurn(ctx); err != nil {
		return domain.GeocodeResult{}, err
	}

	params := url.Values{
		"q":              {query},
		"format":         {"jsonv2"},
		"limit":          {"1"},
		"addressdetails": {"1"},
	}
	if opts.CountryCodes != "" {
		params.Set("countrycodes", opts.CountryCodes)
	}
	if opts.Language != "" {
		params.Set("accept-language", opts.Language)
	}
	if b := opts.Bounds; b != nil {
		// viewbox is <west>,<south>,<east>,<north>; bounded=1 makes it a hard
		// constraint instead of a preference.
		params.Set("viewbox", fmt.Sprintf("%f,%f,%f,%f", b.West, b.South, b.East, b.North))
		params.Set("bounded", "1")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, &domain.TransportError{Op: "nominatim search", Err: err}
	}
	defer resp.Body.Close()
	c.metrics.GeocodeDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, &domain.UpstreamError{Op: "nominatim search", Status: resp.StatusCode, Body: string(body)}
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, &domain.DecodeError{Op: "nominatim search", Err: err}
	}

	if len(places) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		return domain.GeocodeResult{}, domain.ErrNoResult
	}

	result, err := places[0].toResult()
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, &domain.DecodeError{Op: "nominatim search", Err: err}
	}
	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return result, nil
}

// waitTurn blocks until the minimum inter-request delay has elapsed since
// the previous request, or the context is done. The slot is claimed before
// sleeping so concurrent callers queue rather than stampede.
func (c *Client) waitTurn(ctx context.Context) error {
	c.mu.Lock()
	now := c.clock.Now()
	wait := c.minDelay - now.Sub(c.last)
	if wait < 0 {
		wait = 0
	}
	c.last = now.Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(wait):
		return nil
	}
}

// Nominatim API response types. Coordinates arrive as strings; the bounding
// box, when present, is [south, north, west, east] as strings.

type place struct {
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	DisplayName string   `json:"display_name"`
	BoundingBox []string `json:"boundingbox"`
}

func (p place) toResult() (domain.GeocodeResult, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}

	result := domain.GeocodeResult{Lat: lat, Lon: lon, DisplayName: p.DisplayName}
	if len(p.BoundingBox) == 4 {
		var vals [4]float64
		for i, s := range p.BoundingBox {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return domain.GeocodeResult{}, fmt.Errorf("parse boundingbox %q: %w", s, err)
			}
			vals[i] = v
		}
		result.BoundingBox = &domain.BoundingBox{
			South: vals[0],
			North: vals[1],
			West:  vals[2],
			East:  vals[3],
		}
	}
	return result, nil
}
