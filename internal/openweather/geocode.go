package openweather

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/lox/weatherapp/internal/models"
)

// Resolve looks up the single best geocoding match for name. Any failure,
// including transport errors, is reported as models.ErrLocationNotFound; the
// underlying cause stays in the chain.
func (c *Client) Resolve(ctx context.Context, name string) (models.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Location{}, fmt.Errorf("%w: empty query", models.ErrLocationNotFound)
	}

	values := url.Values{}
	values.Set("q", name)
	values.Set("limit", "1")
	u, err := c.buildURL(c.apiBase, "geo/1.0/direct", values)
	if err != nil {
		return models.Location{}, fmt.Errorf("%w: %w: %w", models.ErrLocationNotFound, models.ErrProviderUnavailable, err)
	}

	payload, err := c.get(ctx, "geocode", u)
	if err != nil {
		return models.Location{}, fmt.Errorf("%w: %q: %w", models.ErrLocationNotFound, name, err)
	}

	doc := gjson.ParseBytes(payload)
	if !doc.IsArray() {
		return models.Location{}, fmt.Errorf("%w: %q: %w: expected array", models.ErrLocationNotFound, name, models.ErrMalformedResponse)
	}
	first := doc.Get("0")
	if !first.Exists() {
		return models.Location{}, fmt.Errorf("%w: %q: no match", models.ErrLocationNotFound, name)
	}

	lat, lon, canonical := first.Get("lat"), first.Get("lon"), first.Get("name")
	if lat.Type != gjson.Number || lon.Type != gjson.Number || canonical.Type != gjson.String || canonical.String() == "" {
		return models.Location{}, fmt.Errorf("%w: %q: %w: incomplete match", models.ErrLocationNotFound, name, models.ErrMalformedResponse)
	}

	return models.Location{
		Coordinates: models.Coordinates{Latitude: lat.Float(), Longitude: lon.Float()},
		Name:        canonical.String(),
	}, nil
}
