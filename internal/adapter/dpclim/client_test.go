package dpclim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriclim/meteo-extract/internal/domain"
)

const testAPIKey = "test-api-key"

func testClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestListStations_Success(t *testing.T) {
	catalog := `[{"id":"19031002","nom":"BEAULIEU","lat":44.97,"lon":1.83,"posteOuvert":true}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/liste-stations/quotidienne", r.URL.Path)
		assert.Equal(t, "19", r.URL.Query().Get("id-departement"))
		assert.Equal(t, "temperature", r.URL.Query().Get("parametre"))
		assert.Equal(t, testAPIKey, r.Header.Get("apikey"))
		assert.Equal(t, "application/json", r.Header.Get("accept"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalog))
	}))
	defer srv.Close()

	raw, err := testClient(srv.URL).ListStations(context.Background(), "19", "temperature")
	require.NoError(t, err)

	// The raw payload is returned verbatim so the cache can persist it.
	assert.Equal(t, catalog, string(raw))
}

func TestListStations_NotAnArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"quota exceeded"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListStations(context.Background(), "19", "temperature")
	require.Error(t, err)

	var derr *domain.DecodeError
	assert.ErrorAs(t, err, &derr)
}

func TestSubmitOrder_ExtractsNestedIdentifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commande-station/quotidienne", r.URL.Path)
		assert.Equal(t, "19031002", r.URL.Query().Get("id-station"))
		assert.Equal(t, "2025-01-01T00:00:00Z", r.URL.Query().Get("date-deb-periode"))
		assert.Equal(t, "2025-01-31T00:00:00Z", r.URL.Query().Get("date-fin-periode"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elaboreProduitAvecDemandeResponse":{"return":779517}}`))
	}))
	defer srv.Close()

	id, err := testClient(srv.URL).SubmitOrder(context.Background(),
		"19031002", "2025-01-01T00:00:00Z", "2025-01-31T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "779517", id)
}

func TestSubmitOrder_StringIdentifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"elaboreProduitAvecDemandeResponse":{"return":"779517"}}`))
	}))
	defer srv.Close()

	id, err := testClient(srv.URL).SubmitOrder(context.Background(), "19031002", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "779517", id)
}

func TestSubmitOrder_MissingIdentifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"elaboreProduitAvecDemandeResponse":{}}`))
	}))
	defer srv.Close()

	id, err := testClient(srv.URL).SubmitOrder(context.Background(), "19031002", "a", "b")
	require.NoError(t, err)
	assert.Empty(t, id, "missing field means no identifier assigned, not an error here")
}

func TestSubmitOrder_HTTPErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).SubmitOrder(context.Background(), "19031002", "a", "b")
	require.Error(t, err)

	var uerr *domain.UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, http.StatusUnauthorized, uerr.Status)
	assert.Contains(t, uerr.Body, "invalid api key")
}

func TestSubmitOrder_NotJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>proxy error</html>`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).SubmitOrder(context.Background(), "19031002", "a", "b")
	require.Error(t, err)

	var derr *domain.DecodeError
	assert.ErrorAs(t, err, &derr)
}

func TestFetchOrderFile_ReturnsRawBytes(t *testing.T) {
	// DPClim extracts are semicolon-delimited with decimal commas; the bytes
	// must pass through untouched.
	payload := "DATE;TN;TX\n20250101;1,5;8,2\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commande/fichier", r.URL.Path)
		assert.Equal(t, "779517", r.URL.Query().Get("id-cmde"))
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	data, err := testClient(srv.URL).FetchOrderFile(context.Background(), "779517")
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
}

func TestGet_TransportError(t *testing.T) {
	c := testClient("http://127.0.0.1:1")
	_, err := c.FetchOrderFile(context.Background(), "779517")
	require.Error(t, err)

	var terr *domain.TransportError
	require.ErrorAs(t, err, &terr)
	assert.False(t, terr.TLS)
}

func TestGet_TLSVerificationFailure(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	// Default client does not trust httptest's self-signed certificate.
	c := testClient(srv.URL)
	_, err := c.ListStations(context.Background(), "19", "temperature")
	require.Error(t, err)

	var terr *domain.TransportError
	require.ErrorAs(t, err, &terr)
	assert.True(t, terr.TLS)
	assert.Contains(t, err.Error(), "INSECURE_SKIP_VERIFY")
}
