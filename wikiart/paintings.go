package wikiart

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/poiesic/artguide/core"
)

// Record field names written by this package.
const (
	FieldWikiArtID   = "wikiart_id"
	FieldTitle       = "title"
	FieldArtist      = "artist"
	FieldYear        = "year"
	FieldImageURL    = "image_url"
	FieldURL         = "url"
	FieldMuseum      = "museum"
	FieldDescription = "description"
)

// Painting is one entry of a most-viewed listing page.
type Painting struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Year       flexString `json:"year"`
	ArtistName string     `json:"artistName"`
	Image      string     `json:"image"`
}

// Page is one page of the most-viewed listing.
type Page struct {
	Data            []Painting `json:"data"`
	PaginationToken string     `json:"paginationToken"`
	HasMore         bool       `json:"hasMore"`
}

// Record converts the painting into a catalog record keyed by its WikiArt id.
// Empty attributes are left out.
func (p Painting) Record() *core.Record {
	fields := core.Fields{FieldWikiArtID: p.ID}
	for name, value := range map[string]string{
		FieldTitle:    p.Title,
		FieldArtist:   p.ArtistName,
		FieldYear:     string(p.Year),
		FieldImageURL: p.Image,
	} {
		if value != "" {
			fields[name] = value
		}
	}
	return core.NewRecord(p.ID, fields)
}

// MostViewedPaintings fetches one page of the most-viewed listing. An empty
// token fetches the first page. Tokens may be passed URL-encoded, as WikiArt
// returns them.
func (c *Client) MostViewedPaintings(ctx context.Context, token string) (*Page, error) {
	endpoint := c.baseURL + "/MostViewedPaintings"
	if token != "" {
		if decoded, err := url.QueryUnescape(token); err == nil {
			token = decoded
		}
		endpoint += "?" + url.Values{"paginationToken": {token}}.Encode()
	}

	var page Page
	if err := c.getJSON(ctx, c.http, endpoint, &page); err != nil {
		c.logger.Warn("most viewed paintings request failed", "err", err)
		return nil, err
	}
	c.logger.Debug("fetched paintings page", "count", len(page.Data), "has_more", page.HasMore)
	return &page, nil
}

// flexString decodes a JSON string, number or null into a string.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(strings.Trim(string(data), `"`))
	return nil
}
