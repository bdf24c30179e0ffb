package external

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHitSendsPayload(t *testing.T) {
	var received EndpointHit

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/hit", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewStatsClient(StatsConfig{BaseURL: srv.URL, AppName: "afisha-main-service"})

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	err := client.RecordHit("/events/42", "192.168.0.7", at)
	require.NoError(t, err)

	assert.Equal(t, "afisha-main-service", received.App)
	assert.Equal(t, "/events/42", received.URI)
	assert.Equal(t, "192.168.0.7", received.IP)
	assert.Equal(t, "2026-03-01 12:00:00", received.Timestamp)
}

func TestRecordHitRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewStatsClient(StatsConfig{BaseURL: srv.URL})
	assert.Error(t, client.RecordHit("/events/1", "10.0.0.1", time.Now()))
}

func TestGetViewCountsBuildsQueryAndFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stats", r.URL.Path)

		query := r.URL.Query()
		assert.Equal(t, "true", query.Get("unique"))
		assert.NotEmpty(t, query.Get("start"))
		assert.NotEmpty(t, query.Get("end"))
		assert.Equal(t, []string{"/events/1", "/events/2"}, query["uris"])

		json.NewEncoder(w).Encode([]ViewStats{
			{App: "afisha-main-service", URI: "/events/1", Hits: 12},
			{App: "afisha-main-service", URI: "/events/2", Hits: 4},
			// Чужие endpoint'ы отфильтровываются.
			{App: "afisha-main-service", URI: "/compilations", Hits: 99},
		})
	}))
	defer srv.Close()

	client := NewStatsClient(StatsConfig{BaseURL: srv.URL})

	views, err := client.GetViewCounts([]string{"/events/1", "/events/2"},
		time.Now().Add(-time.Hour), time.Now(), true)
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"/events/1": 12, "/events/2": 4}, views)
}

func TestGetViewCountsEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]ViewStats{})
	}))
	defer srv.Close()

	client := NewStatsClient(StatsConfig{BaseURL: srv.URL})

	views, err := client.GetViewCounts([]string{"/events/1"}, time.Now().Add(-time.Hour), time.Now(), false)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestGetViewCountsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewStatsClient(StatsConfig{BaseURL: srv.URL})

	_, err := client.GetViewCounts(nil, time.Now().Add(-time.Hour), time.Now(), false)
	assert.Error(t, err)
}
