package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lox/weatherapp/internal/forecast"
	"github.com/lox/weatherapp/internal/state"
)

func renderWeather(w io.Writer, s *state.State) {
	cw := s.CurrentWeather()
	if cw == nil {
		fmt.Fprintln(w, "No weather loaded.")
		return
	}
	temp, wind := s.TempUnit(), s.WindUnit()

	fmt.Fprintf(w, "%s, %s %s:00\n", s.CurrentLocation(), cw.Date, cw.Hour)
	fmt.Fprintf(w, "  %s, %s%s (feels like %s%s), wind %s %s, humidity %s\n\n",
		forecast.Describe(cw.WeatherCode, cw.IsDaytime),
		cw.Temperature, temp, cw.FeelsLike, temp, cw.WindSpeed, wind, cw.Humidity)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Hour\tConditions\tTemp\tFeels\tWind\tHumidity")
	for _, e := range s.HourlyEntries() {
		fmt.Fprintf(tw, "%s %s\t%s\t%s%s\t%s%s\t%s %s\t%s\n",
			e.Date, e.Hour, forecast.Describe(e.WeatherCode, e.IsDaytime),
			e.Temperature, temp, e.FeelsLike, temp, e.WindSpeed, wind, e.Humidity)
	}
	tw.Flush()
	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Day\tConditions\tMin\tMax")
	for _, e := range s.DailyEntries() {
		fmt.Fprintf(tw, "%s\t%s\t%s%s\t%s%s\n",
			e.Date, forecast.Condition(e.WeatherCode), e.TempMin, temp, e.TempMax, temp)
	}
	tw.Flush()
}

func renderNames(w io.Writer, title string, names []string, empty string) {
	if len(names) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for i, name := range names {
		fmt.Fprintf(w, "  %d. %s\n", i+1, name)
	}
}
