// Package dpclim is the client for the Météo-France DPClim API: station
// directories per department plus the asynchronous order workflow for
// climatology extracts.
package dpclim

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/agriclim/meteo-extract/internal/config"
	"github.com/agriclim/meteo-extract/internal/domain"
)

// Client talks to the DPClim API with an api-key header. All calls are
// blocking with the configured timeout; nothing is retried here.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a DPClim client. InsecureSkipVerify disables TLS
// certificate verification for diagnostics only.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
		logger.Warn("TLS certificate verification disabled")
	}
	return &Client{
		baseURL: cfg.APIBaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// ListStations fetches the station directory for one department and
// measured parameter. The raw JSON array is returned verbatim so the caller
// can persist it unchanged; a payload that is not a JSON array is a decode
// failure.
func (c *Client) ListStations(ctx context.Context, department, parameter string) ([]byte, error) {
	const op = "dpclim list-stations"
	params := url.Values{
		"id-departement": {department},
		"parametre":      {parameter},
	}
	body, err := c.get(ctx, op, "/liste-stations/quotidienne", params)
	if err != nil {
		return nil, err
	}

	var probe []json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, &domain.DecodeError{Op: op, Err: err}
	}
	return body, nil
}

// SubmitOrder submits a (station, period) order and returns the order
// identifier from the nested response field. A response without that field
// yields an empty identifier and no error; the caller decides how to fail.
func (c *Client) SubmitOrder(ctx context.Context, stationID, startISO, endISO string) (string, error) {
	const op = "dpclim submit-order"
	params := url.Values{
		"id-station":       {stationID},
		"date-deb-periode": {startISO},
		"date-fin-periode": {endISO},
	}
	body, err := c.get(ctx, op, "/commande-station/quotidienne", params)
	if err != nil {
		return "", err
	}

	id, err := extractOrderID(body)
	if err != nil {
		return "", &domain.DecodeError{Op: op, Err: err}
	}
	c.logger.Debug("order submitted", "station_id", stationID, "order_id", id)
	return id, nil
}

// FetchOrderFile retrieves the file produced for an order. The payload is
// provider-defined (semicolon-delimited text) and returned untouched.
func (c *Client) FetchOrderFile(ctx context.Context, orderID string) ([]byte, error) {
	params := url.Values{"id-cmde": {orderID}}
	return c.get(ctx, "dpclim fetch-file", "/commande/fichier", params)
}

// get performs one GET request and classifies failures into the domain
// error taxonomy.
func (c *Client) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("apikey", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: err}
	}

	c.logger.Debug("dpclim request", "op", op, "status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{Op: op, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// classifyTransport separates TLS verification failures from other
// transport failures so the caller can surface the diagnostics hint.
func classifyTransport(op string, err error) error {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return &domain.TransportError{Op: op, TLS: true, Err: err}
	}
	return &domain.TransportError{Op: op, Err: err}
}

// extractOrderID pulls the order identifier out of the nested submit
// response. DPClim encodes it as a number; decode with UseNumber so the
// identifier survives as the provider wrote it.
func extractOrderID(body []byte) (string, error) {
	var resp struct {
		Wrapper struct {
			Return any `json:"return"`
		} `json:"elaboreProduitAvecDemandeResponse"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return "", err
	}

	switch v := resp.Wrapper.Return.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unexpected order identifier type %T", v)
	}
}
