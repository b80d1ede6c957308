// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wikiart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the WikiArt v2 API root.
	DefaultBaseURL = "https://www.wikiart.org/en/api/2"

	// DefaultWikipediaURL is the MediaWiki API endpoint used for article lookups.
	DefaultWikipediaURL = "https://en.wikipedia.org/w/api.php"

	// DefaultTimeout bounds each WikiArt request.
	DefaultTimeout = 30 * time.Second

	// DefaultWikipediaTimeout bounds each Wikipedia request.
	DefaultWikipediaTimeout = 5 * time.Second
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0",
}

// Client talks to the WikiArt API and to Wikipedia.
// A Client is safe for concurrent use.
type Client struct {
	baseURL      string
	wikipediaURL string
	http         *http.Client
	wikipedia    *http.Client
	userAgent    string
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL overrides the WikiArt API root.
func WithBaseURL(url string) Option {
	return func(c *Client) error {
		if url == "" {
			return fmt.Errorf("%w: base url", ErrInvalidOption)
		}
		c.baseURL = url
		return nil
	}
}

// WithWikipediaURL overrides the MediaWiki API endpoint.
func WithWikipediaURL(url string) Option {
	return func(c *Client) error {
		if url == "" {
			return fmt.Errorf("%w: wikipedia url", ErrInvalidOption)
		}
		c.wikipediaURL = url
		return nil
	}
}

// WithTimeout sets the WikiArt and Wikipedia request timeouts.
func WithTimeout(wikiart, wikipedia time.Duration) Option {
	return func(c *Client) error {
		if wikiart <= 0 || wikipedia <= 0 {
			return fmt.Errorf("%w: timeouts must be positive", ErrInvalidOption)
		}
		c.http.Timeout = wikiart
		c.wikipedia.Timeout = wikipedia
		return nil
	}
}

// WithUserAgent sets a fixed User-Agent instead of a random browser one.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates a client. Each client picks one browser User-Agent and
// sends it with every request.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:      DefaultBaseURL,
		wikipediaURL: DefaultWikipediaURL,
		http:         &http.Client{Timeout: DefaultTimeout},
		wikipedia:    &http.Client{Timeout: DefaultWikipediaTimeout},
		userAgent:    userAgents[rand.IntN(len(userAgents))],
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "wikiart-client")

	return c, nil
}

// getJSON issues a GET and decodes a JSON response body into out.
func (c *Client) getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
