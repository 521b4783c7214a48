// Package cad fetches the Miami-Dade Fire Rescue CAD calls page.
package cad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/firecad-etl/internal/parser"
)

// DefaultURL is the public Miami-Dade Fire Rescue active calls page.
const DefaultURL = "https://www.miamidade.gov/firecad/calls_include.asp"

// ErrUnexpectedStatus is returned when the source responds with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected status from CAD source")

// maxBodyBytes caps how much of the page is read.
const maxBodyBytes = 8 << 20

const userAgent = "firecad-etl/1.0"

// Client fetches and parses the calls page.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a fetcher for url with the given request timeout.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// URL returns the source page address.
func (c *Client) URL() string { return c.url }

// Fetch retrieves the page and returns its parsed node tree.
func (c *Client) Fetch(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cad page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	doc, err := parser.ParseHTML(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetched cad page", "url", c.url, "duration", time.Since(start))
	return doc, nil
}
