package openweather

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/lox/weatherapp/internal/models"
)

// DefaultDailyDays is the number of days requested from the daily forecast.
const DefaultDailyDays = 5

func (c *Client) FetchCurrent(ctx context.Context, coords models.Coordinates, units models.UnitSystem) (models.RawPayload, error) {
	return c.fetchObject(ctx, "weather", c.apiBase, "data/2.5/weather", coords, units, nil)
}

// FetchHourly returns the hourly forecast for the next four days.
func (c *Client) FetchHourly(ctx context.Context, coords models.Coordinates, units models.UnitSystem) (models.RawPayload, error) {
	return c.fetchObject(ctx, "forecast_hourly", c.proBase, "data/2.5/forecast/hourly", coords, units, nil)
}

// FetchDaily returns days daily forecast points. Non-positive days means DefaultDailyDays.
func (c *Client) FetchDaily(ctx context.Context, coords models.Coordinates, units models.UnitSystem, days int) (models.RawPayload, error) {
	if days <= 0 {
		days = DefaultDailyDays
	}
	extra := url.Values{}
	extra.Set("cnt", strconv.Itoa(days))
	return c.fetchObject(ctx, "forecast_daily", c.apiBase, "data/2.5/forecast/daily", coords, units, extra)
}

func (c *Client) fetchObject(ctx context.Context, endpoint, base, path string, coords models.Coordinates, units models.UnitSystem, extra url.Values) (models.RawPayload, error) {
	values := url.Values{}
	for k, v := range extra {
		values[k] = v
	}
	values.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	values.Set("units", unitsParam(units))

	u, err := c.buildURL(base, path, values)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrProviderUnavailable, endpoint, err)
	}

	payload, err := c.get(ctx, endpoint, u)
	if err != nil {
		return nil, err
	}
	if !gjson.ParseBytes(payload).IsObject() {
		return nil, fmt.Errorf("%w: %s: expected JSON object", models.ErrMalformedResponse, endpoint)
	}
	return payload, nil
}

func unitsParam(u models.UnitSystem) string {
	if u == models.Imperial {
		return string(models.Imperial)
	}
	return string(models.Metric)
}
