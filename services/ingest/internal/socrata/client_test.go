package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient backs the client with a TLS test server so the hard-coded
// https scheme resolves against it.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewTLSServer(handler)
	t.Cleanup(ts.Close)
	return &Client{
		Domain:     strings.TrimPrefix(ts.URL, "https://"),
		AppToken:   "token-123",
		HTTPClient: ts.Client(),
	}, ts
}

func TestFetchPageSendsTokenAndParams(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resource/c3uy-2p5r.json", r.URL.Path)
		assert.Equal(t, "token-123", r.Header.Get("X-App-Token"))
		assert.Equal(t, "50", r.URL.Query().Get("$limit"))
		assert.Equal(t, "100", r.URL.Query().Get("$offset"))
		assert.Equal(t, "unique_id", r.URL.Query().Get("$order"))
		fmt.Fprint(w, `[{"unique_id":"1","name":"Ozone (O3)","data_value":"30.1"}]`)
	})

	records, err := client.FetchPage(context.Background(), "c3uy-2p5r", 50, 100)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ozone (O3)", records[0].Name)
	assert.Equal(t, "30.1", records[0].DataValue)
}

func TestFetchPageErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	})

	_, err := client.FetchPage(context.Background(), "c3uy-2p5r", 10, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFetchAllPaginatesUntilShortPage(t *testing.T) {
	pages := map[int][]Record{
		0: {{UniqueID: "1"}, {UniqueID: "2"}},
		2: {{UniqueID: "3"}},
	}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("$offset"))
		require.NoError(t, json.NewEncoder(w).Encode(pages[offset]))
	})

	records, err := client.FetchAll(context.Background(), "c3uy-2p5r", 2, 100)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "3", records[2].UniqueID)
}

func TestFetchAllStopsAtMaxRecords(t *testing.T) {
	var requests int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		limit, _ := strconv.Atoi(r.URL.Query().Get("$limit"))
		page := make([]Record, limit)
		for i := range page {
			page[i] = Record{UniqueID: strconv.Itoa(i)}
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	})

	records, err := client.FetchAll(context.Background(), "c3uy-2p5r", 2, 5)
	require.NoError(t, err)
	assert.Len(t, records, 5, "the final page is trimmed to the cap")
	assert.Equal(t, 3, requests)
}
