package forecast

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/lox/weatherapp/internal/models"
)

// Parser converts OpenWeatherMap payloads into display entries. Dates and
// hours are rendered in the parser's location.
type Parser struct {
	loc *time.Location
}

func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{loc: loc}
}

// ParseCurrent converts a current-weather payload. Daytime is computed from
// the payload's sunrise and sunset.
func (p *Parser) ParseCurrent(payload models.RawPayload) (models.HourlyEntry, error) {
	doc, err := parseObject(payload)
	if err != nil {
		return models.HourlyEntry{}, fmt.Errorf("current: %w", err)
	}

	entry, dt, err := p.hourlyEntry(doc)
	if err != nil {
		return models.HourlyEntry{}, fmt.Errorf("current: %w", err)
	}
	sunrise, err := requireInt(doc, "sys.sunrise")
	if err != nil {
		return models.HourlyEntry{}, fmt.Errorf("current: %w", err)
	}
	sunset, err := requireInt(doc, "sys.sunset")
	if err != nil {
		return models.HourlyEntry{}, fmt.Errorf("current: %w", err)
	}
	entry.IsDaytime = IsDaytime(dt, sunrise, sunset)
	return entry, nil
}

// ParseHourly converts an hourly forecast payload. Forecast points carry no
// sunrise or sunset, so daytime comes from the provider's part-of-day field.
func (p *Parser) ParseHourly(payload models.RawPayload) ([]models.HourlyEntry, error) {
	items, err := parseList(payload)
	if err != nil {
		return nil, fmt.Errorf("hourly: %w", err)
	}

	entries := make([]models.HourlyEntry, 0, len(items))
	for i, item := range items {
		entry, _, err := p.hourlyEntry(item)
		if err != nil {
			return nil, fmt.Errorf("hourly: list[%d]: %w", i, err)
		}
		pod, err := requireString(item, "sys.pod")
		if err != nil {
			return nil, fmt.Errorf("hourly: list[%d]: %w", i, err)
		}
		entry.IsDaytime = pod == "d"
		entries = append(entries, entry)
	}
	return entries, nil
}

func (p *Parser) ParseDaily(payload models.RawPayload) ([]models.DailyEntry, error) {
	items, err := parseList(payload)
	if err != nil {
		return nil, fmt.Errorf("daily: %w", err)
	}

	entries := make([]models.DailyEntry, 0, len(items))
	for i, item := range items {
		entry, err := p.dailyEntry(item)
		if err != nil {
			return nil, fmt.Errorf("daily: list[%d]: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (p *Parser) hourlyEntry(r gjson.Result) (models.HourlyEntry, int64, error) {
	base, dt, err := p.weatherEntry(r)
	if err != nil {
		return models.HourlyEntry{}, 0, err
	}
	temp, err := requireNumber(r, "main.temp")
	if err != nil {
		return models.HourlyEntry{}, 0, err
	}
	feelsLike, err := requireNumber(r, "main.feels_like")
	if err != nil {
		return models.HourlyEntry{}, 0, err
	}
	wind, err := requireNumber(r, "wind.speed")
	if err != nil {
		return models.HourlyEntry{}, 0, err
	}
	humidity := r.Get("main.humidity")
	if humidity.Type != gjson.Number {
		return models.HourlyEntry{}, 0, fieldError("main.humidity", humidity)
	}

	return models.HourlyEntry{
		WeatherEntry: base,
		Hour:         HourLabel(dt, p.loc),
		Temperature:  FormatTemperature(temp),
		FeelsLike:    FormatTemperature(feelsLike),
		WindSpeed:    FormatWindSpeed(wind),
		Humidity:     humidity.String() + " %",
	}, dt, nil
}

func (p *Parser) dailyEntry(r gjson.Result) (models.DailyEntry, error) {
	base, _, err := p.weatherEntry(r)
	if err != nil {
		return models.DailyEntry{}, err
	}
	tempMin, err := requireNumber(r, "temp.min")
	if err != nil {
		return models.DailyEntry{}, err
	}
	tempMax, err := requireNumber(r, "temp.max")
	if err != nil {
		return models.DailyEntry{}, err
	}
	return models.DailyEntry{
		WeatherEntry: base,
		TempMin:      FormatTemperature(tempMin),
		TempMax:      FormatTemperature(tempMax),
	}, nil
}

// weatherEntry extracts the fields common to every entry: the timestamp and
// the first weather condition code.
func (p *Parser) weatherEntry(r gjson.Result) (models.WeatherEntry, int64, error) {
	dt, err := requireInt(r, "dt")
	if err != nil {
		return models.WeatherEntry{}, 0, err
	}
	weather := r.Get("weather")
	if !weather.IsArray() {
		return models.WeatherEntry{}, 0, fieldError("weather", weather)
	}
	if len(weather.Array()) == 0 {
		return models.WeatherEntry{}, 0, fmt.Errorf("%w: weather is empty", models.ErrMalformedResponse)
	}
	id := weather.Get("0.id")
	if (id.Type != gjson.Number && id.Type != gjson.String) || id.String() == "" {
		return models.WeatherEntry{}, 0, fieldError("weather.0.id", id)
	}
	return models.WeatherEntry{
		WeatherCode: id.String(),
		Date:        DateLabel(dt, p.loc),
	}, dt, nil
}

func parseObject(payload models.RawPayload) (gjson.Result, error) {
	if !gjson.ValidBytes(payload) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON", models.ErrMalformedResponse)
	}
	doc := gjson.ParseBytes(payload)
	if !doc.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: expected JSON object", models.ErrMalformedResponse)
	}
	return doc, nil
}

func parseList(payload models.RawPayload) ([]gjson.Result, error) {
	doc, err := parseObject(payload)
	if err != nil {
		return nil, err
	}
	list := doc.Get("list")
	if !list.IsArray() {
		return nil, fieldError("list", list)
	}
	items := list.Array()
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: list is empty", models.ErrMalformedResponse)
	}
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("%w: list[%d] is not an object", models.ErrMalformedResponse, i)
		}
	}
	return items, nil
}

func requireNumber(r gjson.Result, path string) (float64, error) {
	v := r.Get(path)
	if v.Type != gjson.Number {
		return 0, fieldError(path, v)
	}
	return v.Float(), nil
}

func requireInt(r gjson.Result, path string) (int64, error) {
	v := r.Get(path)
	if v.Type != gjson.Number {
		return 0, fieldError(path, v)
	}
	return v.Int(), nil
}

func requireString(r gjson.Result, path string) (string, error) {
	v := r.Get(path)
	if v.Type != gjson.String {
		return "", fieldError(path, v)
	}
	return v.String(), nil
}

func fieldError(path string, v gjson.Result) error {
	if !v.Exists() {
		return fmt.Errorf("%w: missing %s", models.ErrMalformedResponse, path)
	}
	return fmt.Errorf("%w: unexpected value for %s: %s", models.ErrMalformedResponse, path, v.Raw)
}
