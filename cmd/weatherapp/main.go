package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/lox/weatherapp/internal/api"
	"github.com/lox/weatherapp/internal/forecast"
	"github.com/lox/weatherapp/internal/models"
	"github.com/lox/weatherapp/internal/openweather"
	"github.com/lox/weatherapp/internal/state"
	"github.com/lox/weatherapp/internal/store"
)

type Globals struct {
	APIKey      string        `name:"api-key" env:"OWM_API_KEY" help:"OpenWeatherMap API key." validate:"required"`
	State       string        `name:"state" env:"WEATHERAPP_STATE" default:"programState.json" help:"Saved state path. .db or .sqlite selects SQLite, anything else JSON."`
	TZ          string        `name:"tz" env:"WEATHERAPP_TZ" default:"Local" help:"Time zone for dates and hours."`
	Imperial    bool          `name:"imperial" help:"Start in imperial units."`
	Rate        float64       `name:"rate" default:"5" help:"Provider requests per second, 0 for unlimited." validate:"gte=0"`
	Days        int           `name:"days" default:"5" help:"Days in the daily forecast." validate:"gte=1,lte=16"`
	MetricsAddr string        `name:"metrics-addr" env:"WEATHERAPP_METRICS_ADDR" help:"Serve /metrics and the JSON API on this address." validate:"omitempty,hostname_port"`
	Refresh     time.Duration `name:"refresh" default:"0s" help:"Reload the current location this often in interactive mode, 0 to disable." validate:"gte=0"`
}

type CLI struct {
	Globals

	Weather     WeatherCmd     `cmd:"" help:"Show the weather for a location."`
	Favorites   FavoritesCmd   `cmd:"" help:"List, add or remove favorite locations."`
	History     HistoryCmd     `cmd:"" help:"Show the search history."`
	Interactive InteractiveCmd `cmd:"" default:"1" help:"Start an interactive session."`
}

var validate = validator.New()

// app is what every command runs against.
type app struct {
	ctx   context.Context
	state *state.State
	store store.Store
	cfg   *Globals
	in    io.Reader
	out   io.Writer
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("weatherapp"),
		kong.Description("Current weather and forecasts from OpenWeatherMap."),
		kong.UsageOnError(),
	)
	if err := validate.Struct(&cli.Globals); err != nil {
		kctx.Fatalf("invalid options: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, &cli.Globals, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	if cli.MetricsAddr != "" {
		srv := api.NewServer(a.state, a.store, cli.MetricsAddr)
		go func() {
			log.Printf("serving metrics on %s", cli.MetricsAddr)
			if err := srv.Run(ctx); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	err = kctx.Run(a)
	a.close()
	kctx.FatalIfErrorf(err)
}

func newApp(ctx context.Context, cfg *Globals, in io.Reader, out io.Writer) (*app, error) {
	loc, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", cfg.TZ, err)
	}

	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		// Burst covers the three concurrent fetches of one load.
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 3)
	}
	client, err := openweather.NewClient(openweather.Config{
		APIKey:  cfg.APIKey,
		Limiter: limiter,
	})
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.State)
	if err != nil {
		return nil, fmt.Errorf("open state %q: %w", cfg.State, err)
	}

	s := state.New(client, client, forecast.NewParser(loc), st)
	s.SetDailyDays(cfg.Days)
	if cfg.Imperial {
		s.SetUnits(models.Imperial)
	}
	if err := s.LoadPersisted(); err != nil {
		fmt.Fprintf(out, "Could not load saved state from %s, starting fresh.\n", cfg.State)
	}

	return &app{ctx: ctx, state: s, store: st, cfg: cfg, in: in, out: out}, nil
}

// close saves favorites and history and releases the store.
func (a *app) close() {
	a.state.SavePersisted()
	if err := a.store.Close(); err != nil {
		log.Printf("close state: %v", err)
	}
}
