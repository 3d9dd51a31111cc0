// Package quranapi provides the HTTP client for the quran-api CDN.
package quranapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Nenoeldeeb/quran-databases/internal/corpus"
)

// pageResponse models the per-page document served by the CDN.
type pageResponse struct {
	Pages []corpus.Fragment `json:"pages"`
}

// InfoChapter describes one chapter entry of the corpus-info document.
type InfoChapter struct {
	Chapter    int    `json:"chapter"`
	Name       string `json:"name"`
	ArabicName string `json:"arabicname"`
}

// Info models the corpus-info document listing all chapters.
type Info struct {
	Chapters []InfoChapter `json:"chapters"`
}

// Fetcher defines the remote operations the downloader depends on.
type Fetcher interface {
	FetchPage(ctx context.Context, edition string, page int) ([]corpus.Fragment, error)
}

// Client fetches page and info documents from the CDN.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a CDN client. The timeout applies per request.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("api base url required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FetchPage retrieves the ordered fragment list of a single page.
func (c *Client) FetchPage(ctx context.Context, edition string, page int) ([]corpus.Fragment, error) {
	edition = strings.TrimSpace(edition)
	if edition == "" {
		return nil, errors.New("edition must not be empty")
	}
	if page < 1 {
		return nil, fmt.Errorf("page number must be positive, got %d", page)
	}

	endpoint := fmt.Sprintf("%s/editions/%s/pages/%d.json", c.baseURL, edition, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page %d fetch returned %d (latency=%v)", page, resp.StatusCode, latency)
	}

	var payload pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode page %d response: %w", page, err)
	}
	return payload.Pages, nil
}

// FetchInfo retrieves the corpus-info document.
func (c *Client) FetchInfo(ctx context.Context) (*Info, error) {
	endpoint := c.baseURL + "/info.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("info fetch returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload Info
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode info response: %w", err)
	}
	return &payload, nil
}
