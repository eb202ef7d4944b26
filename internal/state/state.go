// Package state holds the session: the loaded location and its weather, the
// unit preference, favorites and search history.
package state

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/lox/weatherapp/internal/forecast"
	"github.com/lox/weatherapp/internal/metrics"
	"github.com/lox/weatherapp/internal/models"
)

const (
	MaxHistory   = 25
	MaxFavorites = 5

	// NoHistory is returned by LatestCity when nothing has been searched yet.
	NoHistory = "No search history"
)

var (
	ErrFavoritesFull     = errors.New("favorite slots full")
	ErrDuplicateFavorite = errors.New("location already in favorites")

	// ErrSuperseded is returned when a newer load committed first and the
	// fetched result was dropped.
	ErrSuperseded = errors.New("superseded by a newer load")
)

type Resolver interface {
	Resolve(ctx context.Context, name string) (models.Location, error)
}

type Provider interface {
	FetchCurrent(ctx context.Context, coords models.Coordinates, units models.UnitSystem) (models.RawPayload, error)
	FetchHourly(ctx context.Context, coords models.Coordinates, units models.UnitSystem) (models.RawPayload, error)
	FetchDaily(ctx context.Context, coords models.Coordinates, units models.UnitSystem, days int) (models.RawPayload, error)
}

// Persistence stores favorites and history between runs.
type Persistence interface {
	Load() (favorites, history []string, err error)
	Save(favorites, history []string) error
}

type State struct {
	resolver  Resolver
	provider  Provider
	parser    *forecast.Parser
	store     Persistence

	mu              sync.RWMutex
	loadGen         uint64
	dailyDays       int
	currentLocation string
	currentWeather  *models.HourlyEntry
	hourly          []models.HourlyEntry
	daily           []models.DailyEntry
	units           models.UnitSystem
	favorites       *Favorites
	history         *History
}

// New creates an empty metric session. store may be nil, in which case
// nothing is loaded or saved.
func New(resolver Resolver, provider Provider, parser *forecast.Parser, store Persistence) *State {
	return &State{
		resolver:  resolver,
		provider:  provider,
		parser:    parser,
		store:     store,
		dailyDays: 5,
		units:     models.Metric,
		favorites: NewFavorites(MaxFavorites),
		history:   NewHistory(MaxHistory),
	}
}

// SetDailyDays sets how many days the daily forecast requests.
func (s *State) SetDailyDays(days int) {
	if days <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyDays = days
}

// SetUnits sets the unit system used by the next load.
func (s *State) SetUnits(u models.UnitSystem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == models.Imperial {
		s.units = models.Imperial
	} else {
		s.units = models.Metric
	}
}

type snapshot struct {
	location models.Location
	current  models.HourlyEntry
	hourly   []models.HourlyEntry
	daily    []models.DailyEntry
}

// LoadWeatherData resolves location, fetches and parses its weather and
// commits the result. Nothing is changed unless every step succeeds. On
// success the canonical name becomes the current location and is moved to
// the front of the history. If another LoadWeatherData started after this
// one and committed first, the result is dropped with ErrSuperseded.
func (s *State) LoadWeatherData(ctx context.Context, location string) error {
	s.mu.Lock()
	s.loadGen++
	gen := s.loadGen
	units, days := s.units, s.dailyDays
	s.mu.Unlock()

	snap, err := s.fetch(ctx, location, units, days)
	if err != nil {
		metrics.LoadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("load weather data for %q: %w", location, err)
	}

	if !s.commit(snap, func() bool { return s.loadGen == gen }) {
		metrics.LoadsTotal.WithLabelValues("superseded").Inc()
		return fmt.Errorf("load weather data for %q: %w", location, ErrSuperseded)
	}
	metrics.LoadsTotal.WithLabelValues("ok").Inc()
	return nil
}

// Reload refetches the current location. The result is dropped with
// ErrSuperseded if a LoadWeatherData started meanwhile or the current
// location changed. It does nothing before the first load.
func (s *State) Reload(ctx context.Context) error {
	s.mu.RLock()
	location, gen := s.currentLocation, s.loadGen
	units, days := s.units, s.dailyDays
	s.mu.RUnlock()
	if location == "" {
		return nil
	}

	snap, err := s.fetch(ctx, location, units, days)
	if err != nil {
		metrics.LoadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("reload %q: %w", location, err)
	}

	valid := func() bool { return s.loadGen == gen && s.currentLocation == location }
	if !s.commit(snap, valid) {
		metrics.LoadsTotal.WithLabelValues("superseded").Inc()
		return fmt.Errorf("reload %q: %w", location, ErrSuperseded)
	}
	metrics.LoadsTotal.WithLabelValues("ok").Inc()
	return nil
}

// commit installs snap if valid, evaluated under the write lock, still holds.
func (s *State) commit(snap *snapshot, valid func() bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !valid() {
		return false
	}
	s.currentLocation = snap.location.Name
	s.currentWeather = &snap.current
	s.hourly = snap.hourly
	s.daily = snap.daily
	s.history.Touch(snap.location.Name)
	return true
}

func (s *State) fetch(ctx context.Context, location string, units models.UnitSystem, days int) (*snapshot, error) {
	loc, err := s.resolver.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error

		currentRaw, hourlyRaw, dailyRaw models.RawPayload
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if currentRaw, err = s.provider.FetchCurrent(ctx, loc.Coordinates, units); err != nil {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if hourlyRaw, err = s.provider.FetchHourly(ctx, loc.Coordinates, units); err != nil {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if dailyRaw, err = s.provider.FetchDaily(ctx, loc.Coordinates, units, days); err != nil {
			fail(err)
		}
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	snap := &snapshot{location: loc}
	if snap.current, err = s.parser.ParseCurrent(currentRaw); err != nil {
		return nil, err
	}
	if snap.hourly, err = s.parser.ParseHourly(hourlyRaw); err != nil {
		return nil, err
	}
	if snap.daily, err = s.parser.ParseDaily(dailyRaw); err != nil {
		return nil, err
	}
	return snap, nil
}

// AddFavorite validates city with a current-weather check and stores its
// canonical name.
func (s *State) AddFavorite(ctx context.Context, city string) (bool, error) {
	s.mu.RLock()
	full := s.favorites.Full()
	units := s.units
	s.mu.RUnlock()
	if full {
		return false, ErrFavoritesFull
	}

	name, err := s.checkCity(ctx, city, units)
	if err != nil {
		if errors.Is(err, models.ErrLocationNotFound) {
			return false, fmt.Errorf("add favorite %q: %w", city, err)
		}
		return false, fmt.Errorf("add favorite %q: %w: %w", city, models.ErrLocationNotFound, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.favorites.Contains(name) {
		return false, fmt.Errorf("add favorite %q: %w", name, ErrDuplicateFavorite)
	}
	if !s.favorites.Add(name) {
		return false, ErrFavoritesFull
	}
	return true, nil
}

func (s *State) checkCity(ctx context.Context, city string, units models.UnitSystem) (string, error) {
	loc, err := s.resolver.Resolve(ctx, city)
	if err != nil {
		return "", err
	}
	payload, err := s.provider.FetchCurrent(ctx, loc.Coordinates, units)
	if err != nil {
		return "", err
	}
	if _, err := s.parser.ParseCurrent(payload); err != nil {
		return "", err
	}
	return loc.Name, nil
}

// RemoveFavorite removes city if present.
func (s *State) RemoveFavorite(city string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.Remove(city)
}

// AddToHistory moves city to the front of the history, inserting it if
// needed. Blank names are ignored.
func (s *State) AddToHistory(city string) {
	if strings.TrimSpace(city) == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Touch(city)
}

// ChangeUnits toggles between metric and imperial. Loaded entries keep their
// original units until the next LoadWeatherData.
func (s *State) ChangeUnits() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = s.units.Toggle()
}

func (s *State) LatestCity() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if front, ok := s.history.Front(); ok {
		return front
	}
	return NoHistory
}

func (s *State) CurrentLocation() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocation
}

// SetCurrentLocation overrides the current location. The front end clears it
// after a failed load to send the user back to search.
func (s *State) SetCurrentLocation(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentLocation = name
}

// CurrentWeather returns the current observation, or nil before the first load.
func (s *State) CurrentWeather() *models.HourlyEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentWeather == nil {
		return nil
	}
	cw := *s.currentWeather
	return &cw
}

func (s *State) HourlyEntries() []models.HourlyEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.hourly)
}

func (s *State) DailyEntries() []models.DailyEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.daily)
}

func (s *State) Units() models.UnitSystem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.units
}

func (s *State) TempUnit() string {
	return s.Units().TempUnit()
}

func (s *State) WindUnit() string {
	return s.Units().WindUnit()
}

// Favorites returns the favorites in alphabetical order.
func (s *State) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites.Items()
}

// History returns the search history, most recent first.
func (s *State) History() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Items()
}
