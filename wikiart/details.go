package wikiart

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/poiesic/artguide/core"
)

// Details is the subset of a painting's detail page kept in the catalog.
type Details struct {
	Galleries   stringList `json:"galleries"`
	Description string     `json:"description"`
}

// Fields returns the museum and description fields that are present.
func (d Details) Fields() core.Fields {
	fields := core.Fields{}
	if museum := strings.Join(d.Galleries, "; "); museum != "" {
		fields[FieldMuseum] = museum
	}
	if d.Description != "" {
		fields[FieldDescription] = d.Description
	}
	return fields
}

// PaintingDetails fetches the detail page of a painting.
func (c *Client) PaintingDetails(ctx context.Context, id string) (*Details, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	var details Details
	endpoint := c.baseURL + "/Painting/" + url.PathEscape(id)
	if err := c.getJSON(ctx, c.http, endpoint, &details); err != nil {
		c.logger.Warn("painting details request failed", "id", id, "err", err)
		return nil, err
	}
	return &details, nil
}

// stringList decodes a JSON array of strings, a single string or null.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*l = stringList{v}
		return nil
	}

	var vs []string
	if err := json.Unmarshal(data, &vs); err != nil {
		return err
	}
	out := vs[:0]
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	*l = out
	return nil
}
