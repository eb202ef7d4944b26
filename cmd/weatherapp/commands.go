package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lox/weatherapp/internal/models"
	"github.com/lox/weatherapp/internal/refresh"
	"github.com/lox/weatherapp/internal/state"
)

type WeatherCmd struct {
	Location []string `arg:"" help:"Location name, e.g. Helsinki."`
}

func (c *WeatherCmd) Run(a *app) error {
	return a.search(strings.Join(c.Location, " "))
}

type FavoritesCmd struct {
	List   FavoritesListCmd   `cmd:"" default:"1" help:"List favorites."`
	Add    FavoritesAddCmd    `cmd:"" help:"Add a favorite."`
	Remove FavoritesRemoveCmd `cmd:"" help:"Remove a favorite."`
}

type FavoritesListCmd struct{}

func (c *FavoritesListCmd) Run(a *app) error {
	renderNames(a.out, "Favorites", a.state.Favorites(), "No favorites")
	return nil
}

type FavoritesAddCmd struct {
	Location []string `arg:"" help:"Location to add."`
}

func (c *FavoritesAddCmd) Run(a *app) error {
	return a.addFavorite(strings.Join(c.Location, " "))
}

type FavoritesRemoveCmd struct {
	Location []string `arg:"" help:"Location to remove."`
}

func (c *FavoritesRemoveCmd) Run(a *app) error {
	a.removeFavorite(strings.Join(c.Location, " "))
	return nil
}

type HistoryCmd struct{}

func (c *HistoryCmd) Run(a *app) error {
	renderNames(a.out, "History", a.state.History(), state.NoHistory)
	return nil
}

type InteractiveCmd struct{}

func (c *InteractiveCmd) Run(a *app) error {
	if err := a.state.Resume(a.ctx); err != nil {
		fmt.Fprintf(a.out, "Could not load %s: %s\n", a.state.LatestCity(), reason(err))
	} else if a.state.CurrentWeather() != nil {
		renderWeather(a.out, a.state)
	}

	// The refresh stops with the session, before the caller saves state.
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	stopped := make(chan struct{})
	if a.cfg.Refresh > 0 {
		go func() {
			defer close(stopped)
			refresh.NewScheduler(a.state, a.cfg.Refresh).Run(ctx)
		}()
	} else {
		close(stopped)
	}

	err := newSession(a).run()
	cancel()
	<-stopped
	return err
}

// search loads location and prints it. After a failed load the current
// location is cleared so the next action starts from search.
func (a *app) search(location string) error {
	if err := a.state.LoadWeatherData(a.ctx, location); err != nil {
		a.state.SetCurrentLocation("")
		fmt.Fprintf(a.out, "Could not load %s: %s\n", location, reason(err))
		return err
	}
	renderWeather(a.out, a.state)
	return nil
}

func (a *app) addFavorite(location string) error {
	if location == "" {
		location = a.state.CurrentLocation()
	}
	if location == "" {
		fmt.Fprintln(a.out, "Nothing to add: search for a location first.")
		return nil
	}
	if _, err := a.state.AddFavorite(a.ctx, location); err != nil {
		fmt.Fprintf(a.out, "Could not add %s to favorites: %s\n", location, reason(err))
		return err
	}
	renderNames(a.out, "Favorites", a.state.Favorites(), "No favorites")
	return nil
}

func (a *app) removeFavorite(location string) {
	if location == "" {
		location = a.state.CurrentLocation()
	}
	if a.state.RemoveFavorite(location) {
		fmt.Fprintf(a.out, "Removed %s from favorites.\n", location)
	} else {
		fmt.Fprintf(a.out, "%s is not a favorite.\n", location)
	}
}

// toggleUnits switches units and reloads the current location in them.
func (a *app) toggleUnits() {
	a.state.ChangeUnits()
	fmt.Fprintf(a.out, "Units: %s (°%s, %s)\n", a.state.Units(), a.state.TempUnit(), a.state.WindUnit())
	if location := a.state.CurrentLocation(); location != "" {
		a.search(location)
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, state.ErrFavoritesFull):
		return fmt.Sprintf("all %d favorite slots are in use", state.MaxFavorites)
	case errors.Is(err, state.ErrDuplicateFavorite):
		return "already a favorite"
	case errors.Is(err, models.ErrProviderUnavailable):
		return "weather service unavailable"
	case errors.Is(err, models.ErrLocationNotFound):
		return "location not found"
	case errors.Is(err, models.ErrMalformedResponse):
		return "unexpected response from weather service"
	default:
		return err.Error()
	}
}
