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
	"net/url"
	"strings"
)

// SearchWikipedia returns the URL of the Wikipedia article about a painting,
// or "" when none is found. Queries are tried from most to least specific:
// "<title> <artist>", "<title> painting", then the bare title. The first
// query with a hit wins. An error is returned only if every query failed.
func (c *Client) SearchWikipedia(ctx context.Context, title, artist string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", nil
	}

	queries := []string{title + " painting", title}
	if artist = strings.TrimSpace(artist); artist != "" {
		queries = append([]string{title + " " + artist}, queries...)
	}

	var lastErr error
	failures := 0
	for _, query := range queries {
		hit, err := c.openSearch(ctx, query)
		if err != nil {
			c.logger.Debug("wikipedia search failed", "query", query, "err", err)
			lastErr = err
			failures++
			continue
		}
		if hit != "" {
			return hit, nil
		}
	}

	if failures == len(queries) {
		return "", lastErr
	}
	return "", nil
}

// openSearch runs a MediaWiki opensearch query and returns the first
// result's URL. The response is [query, [titles], [descriptions], [urls]].
func (c *Client) openSearch(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"action":    {"opensearch"},
		"search":    {query},
		"limit":     {"1"},
		"namespace": {"0"},
		"format":    {"json"},
	}

	var resp []json.RawMessage
	if err := c.getJSON(ctx, c.wikipedia, c.wikipediaURL+"?"+params.Encode(), &resp); err != nil {
		return "", err
	}
	if len(resp) < 4 {
		return "", fmt.Errorf("%w: opensearch returned %d elements", ErrDecode, len(resp))
	}

	var urls []string
	if err := json.Unmarshal(resp[3], &urls); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}
