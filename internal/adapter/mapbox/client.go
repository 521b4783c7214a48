package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/firecad-etl/internal/domain"
	"github.com/couchcryptid/firecad-etl/internal/observability"
)

const defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// MiamiDadeBBox bounds forward geocoding results to Miami-Dade County
// (minLon,minLat,maxLon,maxLat).
const MiamiDadeBBox = "-80.8736,25.1375,-80.1180,25.9793"

// ClientConfig configures a Mapbox client.
type ClientConfig struct {
	Token   string
	Timeout time.Duration
	// Region is appended to every query, e.g. "Miami-Dade, FL".
	Region string
	// BBox optionally restricts results; empty means unrestricted.
	BBox string
	// RateLimit is the maximum requests per second. Zero disables limiting.
	RateLimit float64
}

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	region     string
	bbox       string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client.
func NewClient(cfg ClientConfig, metrics *observability.Metrics, logger *slog.Logger) *Client {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return &Client{
		token:  cfg.Token,
		region: cfg.Region,
		bbox:   cfg.BBox,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: defaultBaseURL,
		limiter: limiter,
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode converts a CAD address to coordinates. A zero result with a nil
// error means Mapbox returned no features.
func (c *Client) Geocode(ctx context.Context, address string) (domain.GeocodingResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.GeocodingResult{}, fmt.Errorf("geocode rate limit: %w", err)
		}
	}

	query := address
	if c.region != "" {
		query = fmt.Sprintf("%s, %s", address, c.region)
	}

	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(query))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"country":      {"us"},
	}
	if c.bbox != "" {
		params.Set("bbox", c.bbox)
	}

	start := time.Now()
	result, err := c.doRequest(ctx, u+"?"+params.Encode())
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		c.logger.Debug("mapbox geocode failed", "address", address, "error", err)
	case !result.Found():
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	}
	return result, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.GeocodingResult{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		return domain.GeocodingResult{}, nil
	}

	f := mapboxResp.Features[0]
	result := domain.GeocodingResult{
		FormattedAddress: f.PlaceName,
		Confidence:       f.Relevance,
	}
	if len(f.Center) == 2 {
		result.Lon = f.Center[0]
		result.Lat = f.Center[1]
	}
	return result, nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Relevance float64   `json:"relevance"`
}
