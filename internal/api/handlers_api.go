package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/lox/weatherapp/internal/forecast"
	"github.com/lox/weatherapp/internal/models"
)

type HealthStatus struct {
	Status    string     `json:"status"`
	Location  string     `json:"location,omitempty"`
	Loaded    bool       `json:"loaded"`
	LastSaved *time.Time `json:"last_saved,omitempty"`
}

type HourView struct {
	Date        string `json:"date"`
	Hour        string `json:"hour"`
	WeatherCode string `json:"weather_code"`
	Description string `json:"description"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feels_like"`
	WindSpeed   string `json:"wind_speed"`
	Humidity    string `json:"humidity"`
	IsDaytime   bool   `json:"is_daytime"`
}

type DayView struct {
	Date        string `json:"date"`
	WeatherCode string `json:"weather_code"`
	Condition   string `json:"condition"`
	TempMin     string `json:"temp_min"`
	TempMax     string `json:"temp_max"`
}

type CurrentData struct {
	Location    string   `json:"location"`
	TempUnit    string   `json:"temp_unit"`
	WindUnit    string   `json:"wind_unit"`
	Description string   `json:"description"`
	Weather     HourView `json:"weather"`
}

type ForecastData struct {
	Location string     `json:"location"`
	TempUnit string     `json:"temp_unit"`
	Hourly   []HourView `json:"hourly"`
	Daily    []DayView  `json:"daily"`
}

func newHourView(e models.HourlyEntry) HourView {
	return HourView{
		Date:        e.Date,
		Hour:        e.Hour,
		WeatherCode: e.WeatherCode,
		Description: forecast.Describe(e.WeatherCode, e.IsDaytime),
		Temperature: e.Temperature,
		FeelsLike:   e.FeelsLike,
		WindSpeed:   e.WindSpeed,
		Humidity:    e.Humidity,
		IsDaytime:   e.IsDaytime,
	}
}

func newDayView(e models.DailyEntry) DayView {
	return DayView{
		Date:        e.Date,
		WeatherCode: e.WeatherCode,
		Condition:   string(forecast.Condition(e.WeatherCode)),
		TempMin:     e.TempMin,
		TempMax:     e.TempMax,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:   "ok",
		Location: s.session.CurrentLocation(),
		Loaded:   s.session.CurrentWeather() != nil,
	}
	if s.saves != nil {
		last, err := s.saves.LastSaved()
		if err != nil {
			log.Printf("api: last saved: %v", err)
		} else if !last.IsZero() {
			health.LastSaved = &last
		}
	}
	writeJSON(w, http.StatusOK, health)
}

func (s *Server) handleAPICurrent(w http.ResponseWriter, r *http.Request) {
	cw := s.session.CurrentWeather()
	if cw == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no weather loaded"})
		return
	}
	units := s.session.Units()
	weather := newHourView(*cw)
	writeJSON(w, http.StatusOK, CurrentData{
		Location:    s.session.CurrentLocation(),
		TempUnit:    units.TempUnit(),
		WindUnit:    units.WindUnit(),
		Description: weather.Description,
		Weather:     weather,
	})
}

func (s *Server) handleAPIForecast(w http.ResponseWriter, r *http.Request) {
	if s.session.CurrentWeather() == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no weather loaded"})
		return
	}
	hourly := []HourView{}
	for _, e := range s.session.HourlyEntries() {
		hourly = append(hourly, newHourView(e))
	}
	daily := []DayView{}
	for _, e := range s.session.DailyEntries() {
		daily = append(daily, newDayView(e))
	}
	writeJSON(w, http.StatusOK, ForecastData{
		Location: s.session.CurrentLocation(),
		TempUnit: s.session.Units().TempUnit(),
		Hourly:   hourly,
		Daily:    daily,
	})
}

func (s *Server) handleAPIFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(s.session.Favorites()))
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(s.session.History()))
}

func orEmpty(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
