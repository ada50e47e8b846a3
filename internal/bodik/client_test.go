package bodik

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, testLogger()), srv
}

func TestClient_ListDatasets(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/list", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`[{"apiname":"aed","description":"AED locations"},{"apiname":"hospital"}]`))
	}))

	datasets, err := client.ListDatasets(context.Background())
	require.NoError(t, err)
	require.Len(t, datasets, 2)
	assert.Equal(t, "aed", datasets[0].APIName)
	assert.Equal(t, "AED locations", datasets[0].Description)
	assert.Equal(t, "hospital", datasets[1].APIName)
}

func TestClient_FindOrganizations(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organization", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"organ_code":"401307","organ_name":"福岡市"},
			{"organ_code":"131041","organ_name":"新宿区"},
			{"organ_code":"401005","organ_name":"北九州市"}
		]`))
	}))

	orgs, err := client.FindOrganizations(context.Background(), "福岡")
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "401307", orgs[0].Code)

	_, err = client.FindOrganizations(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClient_SearchGET_QueryEncoding(t *testing.T) {
	var gotQuery map[string][]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/aed", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"resultsets":{"features":[]}}`))
	}))

	_, err := client.SearchGET(context.Background(), "aed", SearchParams{
		SelectType:       "data",
		MaxResults:       10,
		MunicipalityName: "福岡市",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"data"}, gotQuery["select_type"])
	assert.Equal(t, []string{"10"}, gotQuery["maxResults"])
	assert.Equal(t, []string{"福岡市"}, gotQuery["municipalityName"])
}

func TestClient_SearchPOST_Body(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/evacuation_space", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"resultsets":{"features":[]}}`))
	}))

	conditions := map[string]any{
		"maxOccupancyCapacity": map[string]any{"gte": 1000.0, "lte": 2000.0},
	}
	_, err := client.SearchPOST(context.Background(), "evacuation_space", conditions)
	require.NoError(t, err)
	assert.Equal(t, conditions, gotBody)
}

func TestClient_SearchPOST_NilConditions(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{}`, string(body))
		_, _ = w.Write([]byte(`{"resultsets":{"features":[]}}`))
	}))

	_, err := client.SearchPOST(context.Background(), "aed", nil)
	require.NoError(t, err)
}

func TestClient_ValidationBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	ctx := context.Background()

	_, err := client.SearchGET(ctx, "", SearchParams{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = client.SearchGET(ctx, "../etc", SearchParams{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = client.SearchGET(ctx, "aed", SearchParams{MaxResults: -1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = client.SearchPOST(ctx, "aed", map[string]any{"and": "nope"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = client.Config(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, int32(0), calls.Load(), "validation failures must not reach the network")
}

func TestClient_UpstreamError(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
			return
		}
		_, _ = w.Write([]byte(`{"resultsets":{"features":[]}}`))
	}))
	ctx := context.Background()

	_, err := client.SearchGET(ctx, "aed", SearchParams{})
	require.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "boom")

	// A failed invocation must not poison the next one.
	fail.Store(false)
	_, err = client.SearchGET(ctx, "aed", SearchParams{})
	assert.NoError(t, err)
}

func TestClient_MalformedJSON(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))

	_, err := client.SearchGET(context.Background(), "aed", SearchParams{})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	client := New(srv.URL, 5*time.Second, testLogger())
	srv.Close()

	_, err := client.SearchGET(context.Background(), "aed", SearchParams{})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_Timeout(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	client.http.Timeout = 20 * time.Millisecond

	_, err := client.SearchGET(context.Background(), "aed", SearchParams{})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_ContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.SearchGET(ctx, "aed", SearchParams{})
	assert.ErrorIs(t, err, ErrTransport)
}
