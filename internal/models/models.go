package models

import "errors"

var (
	ErrLocationNotFound    = errors.New("location not found")
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrMalformedResponse   = errors.New("malformed provider response")
)

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Location is a resolved place: its coordinates and the name the geocoder
// returned for it.
type Location struct {
	Coordinates
	Name string
}

type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

func (u UnitSystem) TempUnit() string {
	if u == Imperial {
		return "F"
	}
	return "C"
}

func (u UnitSystem) WindUnit() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

func (u UnitSystem) Toggle() UnitSystem {
	if u == Imperial {
		return Metric
	}
	return Imperial
}

// RawPayload is a syntactically valid JSON document as returned by the provider.
type RawPayload []byte

type WeatherEntry struct {
	WeatherCode string
	Date        string // "Mon 02.01."
}

type HourlyEntry struct {
	WeatherEntry
	Hour        string // "00".."23"
	Temperature string
	FeelsLike   string
	WindSpeed   string
	IsDaytime   bool
	Humidity    string
}

type DailyEntry struct {
	WeatherEntry
	TempMin string
	TempMax string
}
