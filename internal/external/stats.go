package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"afisha/internal/models"
)

// StatsClient is the HTTP client for the view-statistics service.
// Callers treat it as a non-critical side channel: hit recording failures
// are logged and swallowed, view lookups fall back to zero on error.
type StatsClient struct {
	baseURL    string
	app        string
	httpClient *http.Client
}

type StatsConfig struct {
	BaseURL string
	AppName string
	Timeout time.Duration
}

// EndpointHit is the payload for recording one endpoint view.
type EndpointHit struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// ViewStats is one aggregated row returned by the statistics service.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

func NewStatsClient(cfg StatsConfig) *StatsClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &StatsClient{
		baseURL: cfg.BaseURL,
		app:     cfg.AppName,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// RecordHit registers a view of uri from ip at the given moment.
func (c *StatsClient) RecordHit(uri, ip string, at time.Time) error {
	hit := EndpointHit{
		App:       c.app,
		URI:       uri,
		IP:        ip,
		Timestamp: models.FormatDateTime(at),
	}

	jsonBody, err := json.Marshal(hit)
	if err != nil {
		return fmt.Errorf("failed to marshal hit: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/hit", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to record hit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// GetViewCounts fetches hit counts for the given URIs over [start, end] and
// returns a uri -> hits map restricted to this service's /events/{id}
// namespace. The map is empty, never nil, when the service reports nothing.
func (c *StatsClient) GetViewCounts(uris []string, start, end time.Time, unique bool) (map[string]int64, error) {
	params := url.Values{}
	params.Set("start", models.FormatDateTime(start))
	params.Set("end", models.FormatDateTime(end))
	params.Set("unique", strconv.FormatBool(unique))
	for _, uri := range uris {
		params.Add("uris", uri)
	}

	resp, err := c.httpClient.Get(c.baseURL + "/stats?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var stats []ViewStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}

	views := make(map[string]int64, len(stats))
	for _, stat := range stats {
		if !strings.HasPrefix(stat.URI, "/events/") {
			continue
		}
		views[stat.URI] = stat.Hits
	}

	return views, nil
}
