// Package geojson fetches the county boundary FeatureCollection and serves
// per-state subsets of it.
package geojson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client downloads a county FeatureCollection over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a boundary client for url.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads and decodes the FeatureCollection.
func (c *Client) Fetch(ctx context.Context) (FeatureCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("boundary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return FeatureCollection{}, fmt.Errorf("boundary fetch error: status %d: %s", resp.StatusCode, body)
	}

	var fc FeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return FeatureCollection{}, fmt.Errorf("decode response: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return FeatureCollection{}, fmt.Errorf("decode response: unexpected type %q", fc.Type)
	}

	c.logger.Info("county boundaries fetched", "features", len(fc.Features), "duration", time.Since(start))
	return fc, nil
}
