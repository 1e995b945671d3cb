// Package weather is the boundary to the OpenWeather API: it turns a city
// name into a normalized snapshot, and a free-text query into geocoding
// candidates. Failures never escape as transport details — callers only ever
// see domain.ErrCityUnresolved or an empty result set.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/weathertrack/weathertrack/internal/domain"
	"github.com/weathertrack/weathertrack/internal/metrics"
)

type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		client:  &http.Client{}, // per-call deadline comes from the request context
		logger:  logger.With("component", "weather_client"),
	}
}

// currentResponse mirrors the subset of /data/2.5/weather we consume.
type currentResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

// Current fetches a fresh snapshot for one city name. Every call is a live
// round-trip: no retries, no caching. Network errors, non-2xx statuses and
// payloads missing the condition element all return domain.ErrCityUnresolved.
func (c *Client) Current(ctx context.Context, city string) (*domain.Snapshot, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	start := time.Now()
	body, err := c.get(ctx, "/data/2.5/weather", q)
	metrics.ProviderRequestDuration.WithLabelValues("current").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("current", "unresolved").Inc()
		c.logger.Warn("current weather fetch failed", "city", city, "error", err)
		return nil, domain.ErrCityUnresolved
	}

	var resp currentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("current", "unresolved").Inc()
		c.logger.Warn("current weather payload malformed", "city", city, "error", err)
		return nil, domain.ErrCityUnresolved
	}
	if resp.Name == "" || len(resp.Weather) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues("current", "unresolved").Inc()
		c.logger.Warn("current weather payload incomplete", "city", city)
		return nil, domain.ErrCityUnresolved
	}

	metrics.ProviderRequestsTotal.WithLabelValues("current", "ok").Inc()
	return &domain.Snapshot{
		Name:        resp.Name,
		Country:     resp.Sys.Country,
		Temperature: resp.Main.Temp,
		Condition:   resp.Weather[0].Main,
		Humidity:    resp.Main.Humidity,
		WindSpeed:   resp.Wind.Speed,
		Sunrise:     resp.Sys.Sunrise,
		Sunset:      resp.Sys.Sunset,
	}, nil
}

// Geocode asks the provider for up to limit name matches. A payload that is
// not a JSON list (OpenWeather signals errors with an object) is treated as
// zero results, not as a failure.
func (c *Client) Geocode(ctx context.Context, query string, limit int) ([]domain.GeoMatch, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("appid", c.apiKey)

	start := time.Now()
	body, err := c.get(ctx, "/geo/1.0/direct", q)
	metrics.ProviderRequestDuration.WithLabelValues("geocode").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("geocode", "error").Inc()
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}

	var raw []struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("geocode", "malformed").Inc()
		c.logger.Warn("geocode payload is not a list, treating as empty", "query", query, "error", err)
		return nil, nil
	}

	metrics.ProviderRequestsTotal.WithLabelValues("geocode", "ok").Inc()
	matches := make([]domain.GeoMatch, 0, len(raw))
	for _, m := range raw {
		matches = append(matches, domain.GeoMatch{Name: m.Name, Country: m.Country})
	}
	return matches, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return body, nil
}
