// Package refresh periodically reloads the weather for the current location.
package refresh

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/lox/weatherapp/internal/state"
)

const DefaultLoadTimeout = 30 * time.Second

// Loader is the part of the program state the scheduler drives.
type Loader interface {
	CurrentLocation() string
	Reload(ctx context.Context) error
}

type Scheduler struct {
	loader      Loader
	interval    time.Duration
	loadTimeout time.Duration
	scheduler   *gocron.Scheduler

	// mu is held for the duration of each refresh job.
	mu      sync.Mutex
	stopped bool
}

func NewScheduler(loader Loader, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		loader:      loader,
		interval:    interval,
		loadTimeout: DefaultLoadTimeout,
		scheduler:   s,
	}
}

// Run refreshes every interval until ctx is done. The first refresh happens
// one interval after Run starts. Run returns once any refresh in flight has
// finished.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		log.Println("refresh: disabled")
		<-ctx.Done()
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stopped || ctx.Err() != nil {
			return
		}
		s.RefreshOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	<-ctx.Done()
	s.scheduler.Stop()
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	log.Println("refresh: shutting down")
	return nil
}

// RefreshOnce reloads the current location, if any. Failures are logged and
// leave the loaded weather in place. A reload overtaken by a user search is
// dropped quietly.
func (s *Scheduler) RefreshOnce(ctx context.Context) bool {
	location := s.loader.CurrentLocation()
	if location == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	if err := s.loader.Reload(ctx); err != nil {
		if !errors.Is(err, state.ErrSuperseded) {
			log.Printf("refresh: %s: %v", location, err)
		}
		return false
	}
	return true
}
