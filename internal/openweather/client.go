// Package openweather talks to the OpenWeatherMap geocoding and weather APIs.
package openweather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/lox/weatherapp/internal/httputil"
	"github.com/lox/weatherapp/internal/metrics"
	"github.com/lox/weatherapp/internal/models"
)

const (
	DefaultAPIBaseURL = "https://api.openweathermap.org"
	DefaultProBaseURL = "https://pro.openweathermap.org"

	DefaultBreakerThreshold = 5
	DefaultBreakerCooldown  = time.Minute
)

// Config carries everything the client needs. APIKey is required; the rest
// fall back to defaults.
type Config struct {
	APIKey     string
	APIBaseURL string // geocoding, current weather, daily forecast
	ProBaseURL string // hourly forecast
	HTTPClient *http.Client
	// Limiter throttles outgoing calls. Nil means unlimited.
	Limiter *rate.Limiter
	// BreakerThreshold consecutive failures open the circuit for
	// BreakerCooldown, during which calls fail without touching the network.
	BreakerThreshold uint32
	BreakerCooldown  time.Duration
}

type Client struct {
	apiKey  string
	apiBase string
	proBase string
	client  *http.Client
	limiter *rate.Limiter
	circuit *gobreaker.CircuitBreaker
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openweather: api key is required")
	}
	c := &Client{
		apiKey:  cfg.APIKey,
		apiBase: cfg.APIBaseURL,
		proBase: cfg.ProBaseURL,
		client:  cfg.HTTPClient,
		limiter: cfg.Limiter,
	}
	if c.apiBase == "" {
		c.apiBase = DefaultAPIBaseURL
	}
	if c.proBase == "" {
		c.proBase = DefaultProBaseURL
	}
	if c.client == nil {
		c.client = httputil.NewClient()
	}

	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = DefaultBreakerThreshold
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = DefaultBreakerCooldown
	}
	c.circuit = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A sibling fetch failing cancels the others; that is not a provider fault.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("%s: circuit %s -> %s", name, from, to)
		},
	})
	return c, nil
}

// retryPolicy allows exactly one attempt per call.
func retryPolicy() backoff.BackOff {
	return &backoff.StopBackOff{}
}

func (c *Client) buildURL(base, path string, values url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", base, err)
	}
	values.Set("appid", c.apiKey)
	u = u.JoinPath(path)
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// get performs a single GET and returns the body once it is known to be
// valid JSON. endpoint is only used for metrics and error messages.
func (c *Client) get(ctx context.Context, endpoint, rawURL string) (models.RawPayload, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s: rate limit wait: %w", models.ErrProviderUnavailable, endpoint, err)
		}
	}

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %s: create request: %w", models.ErrProviderUnavailable, endpoint, err))
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		metrics.ProviderLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ProviderCallsTotal.WithLabelValues(endpoint, "error").Inc()
			return backoff.Permanent(fmt.Errorf("%w: %s: %w", models.ErrProviderUnavailable, endpoint, err))
		}
		defer resp.Body.Close()
		metrics.ProviderCallsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s: rate limited: status %d", models.ErrProviderUnavailable, endpoint, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("%w: %s: status %d: %s", models.ErrProviderUnavailable, endpoint, resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %s: read body: %w", models.ErrProviderUnavailable, endpoint, err))
		}
		return nil
	}

	_, err := c.circuit.Execute(func() (interface{}, error) {
		return nil, backoff.Retry(operation, retryPolicy())
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrProviderUnavailable, endpoint, err)
	}
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s: invalid JSON body", models.ErrMalformedResponse, endpoint)
	}
	return models.RawPayload(body), nil
}
